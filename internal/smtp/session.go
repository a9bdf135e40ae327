package smtp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/emersion/go-smtp"
	"github.com/taxdesk/receipt-engine/internal/engine"
	"github.com/taxdesk/receipt-engine/internal/models"
	"github.com/taxdesk/receipt-engine/internal/reconcile"
	"github.com/taxdesk/receipt-engine/internal/storage"
	"github.com/taxdesk/receipt-engine/internal/validator"
	"github.com/taxdesk/receipt-engine/internal/websocket"
)

// Session implements the go-smtp Session interface
type Session struct {
	backend    *Backend
	from       string
	recipients []string
}

// NewSession creates a new SMTP session
func NewSession(backend *Backend) *Session {
	return &Session{
		backend:    backend,
		recipients: make([]string, 0),
	}
}

// AuthPlain handles PLAIN authentication (not required for receiving)
func (s *Session) AuthPlain(username, password string) error {
	// No authentication required for receiving emails
	return nil
}

// Mail handles the MAIL FROM command
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	if s.backend.logger != nil {
		s.backend.logger.Debug("MAIL FROM", slog.String("from", from))
	}
	return nil
}

// Rcpt handles the RCPT TO command. Every recipient is accepted: the ingest
// address is a drop box, not a mailbox, and routing happens after parse.
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	if s.backend.logger != nil {
		s.backend.logger.Debug("RCPT TO", slog.String("to", to))
	}
	return nil
}

// Data handles the DATA command - receives the email content. One delivered
// message yields exactly one draft, regardless of recipient count.
func (s *Session) Data(r io.Reader) error {
	if len(s.recipients) == 0 {
		return &smtp.SMTPError{
			Code:         503,
			EnhancedCode: smtp.EnhancedCode{5, 5, 1},
			Message:      "No recipients specified",
		}
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Failed to read message",
		}
	}

	if err := s.ingestEmail(context.Background(), string(raw)); err != nil {
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to ingest email", slog.Any("error", err))
		}
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Failed to process message",
		}
	}

	return nil
}

// ingestEmail parses a raw message, creates a draft populated from the parse,
// and stores the raw message plus its attachments as evidence.
func (s *Session) ingestEmail(ctx context.Context, raw string) error {
	result := engine.ParseEMLFile(raw)

	txn := &models.Transaction{Category: models.CategoryDefault}
	report := reconcile.PopulateFromEmail(txn, result.Parsed)

	// Items are appended separately so AddItems can stamp the draft ID
	items := txn.Items
	txn.Items = nil

	if err := s.backend.txnRepo.Create(ctx, txn); err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	if len(items) > 0 {
		if err := s.backend.txnRepo.AddItems(ctx, txn.ID, items); err != nil && s.backend.logger != nil {
			s.backend.logger.Error("failed to save line items",
				slog.Uint64("transaction_id", uint64(txn.ID)),
				slog.Any("error", err))
		}
	}

	// Keep the raw message itself as evidence
	rawName := "message.eml"
	if result.Envelope.Subject != "" {
		rawName = validator.SanitizeFilename(result.Envelope.Subject) + ".eml"
	}
	s.storeEvidence(ctx, txn.ID, rawName, "message/rfc822", []byte(raw))

	for _, att := range result.Envelope.Attachments {
		filename := validator.SanitizeFilename(att.Filename)
		if err := storage.ValidateEvidence(filename, int64(len(att.Content))); err != nil {
			if s.backend.logger != nil {
				s.backend.logger.Warn("skipping attachment",
					slog.String("filename", att.Filename),
					slog.Any("error", err))
			}
			continue
		}
		s.storeEvidence(ctx, txn.ID, filename, att.ContentType, att.Content)
	}

	if s.backend.logger != nil {
		s.backend.logger.Info("draft created from email",
			slog.Uint64("transaction_id", uint64(txn.ID)),
			slog.String("from", result.Envelope.From),
			slog.String("subject", result.Envelope.Subject),
			slog.Int("fields_filled", len(report.Filled)))
	}

	if s.backend.wsHub != nil {
		s.backend.wsHub.BroadcastDraftCreated(&websocket.DraftEventPayload{
			TransactionID: txn.ID,
			Source:        "email",
			Vendor:        txn.Vendor,
			Amount:        txn.Amount,
			Filled:        report.Filled,
		})
	}

	return nil
}

// storeEvidence saves one evidence blob; failures are logged and skipped so
// a bad attachment never rejects the whole message.
func (s *Session) storeEvidence(ctx context.Context, txnID uint, filename, contentType string, content []byte) {
	filePath, err := s.backend.store.Save(filename, bytes.NewReader(content))
	if err != nil {
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to store evidence",
				slog.String("filename", filename),
				slog.Any("error", err))
		}
		return
	}

	evidence := &models.EvidenceFile{
		TransactionID: txnID,
		Filename:      filename,
		ContentType:   contentType,
		FilePath:      filePath,
		SizeBytes:     int64(len(content)),
		Source:        "email",
	}
	if err := s.backend.evidenceRepo.Create(ctx, evidence); err != nil {
		_ = s.backend.store.Delete(filePath)
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to record evidence",
				slog.String("filename", filename),
				slog.Any("error", err))
		}
	}
}

// Reset resets the session state
func (s *Session) Reset() {
	s.from = ""
	s.recipients = make([]string, 0)
}

// Logout handles the end of the session
func (s *Session) Logout() error {
	return nil
}
