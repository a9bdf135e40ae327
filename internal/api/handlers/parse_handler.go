package handlers

import (
	"io"

	"github.com/labstack/echo/v4"
	"github.com/taxdesk/receipt-engine/internal/api/response"
	"github.com/taxdesk/receipt-engine/internal/eml"
	"github.com/taxdesk/receipt-engine/internal/engine"
	"github.com/taxdesk/receipt-engine/internal/extract"
)

// ParseHandler handles stateless extraction requests: pasted receipt text
// and uploaded EML files, without touching any draft.
type ParseHandler struct{}

// NewParseHandler creates a new ParseHandler
func NewParseHandler() *ParseHandler {
	return &ParseHandler{}
}

// parseTextRequest is the body for POST /api/parse/text
type parseTextRequest struct {
	Text string `json:"text"`
}

// parseResult pairs an extraction with its confidence score
type parseResult struct {
	Parsed     extract.ParsedEmail      `json:"parsed"`
	Validation extract.ValidationResult `json:"validation"`
}

// emlParseResult adds envelope metadata for EML uploads
type emlParseResult struct {
	From        string                   `json:"from"`
	Subject     string                   `json:"subject"`
	Date        string                   `json:"date"`
	Attachments []attachmentInfo         `json:"attachments"`
	Parsed      extract.ParsedEmail      `json:"parsed"`
	Validation  extract.ValidationResult `json:"validation"`
}

type attachmentInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
}

// ParseText handles POST /api/parse/text
func (h *ParseHandler) ParseText(c echo.Context) error {
	var req parseTextRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Text == "" {
		return response.BadRequest(c, "text is required")
	}

	parsed, validation := engine.ParseAndValidate(req.Text)

	return response.Success(c, parseResult{
		Parsed:     parsed,
		Validation: validation,
	})
}

// ParseEML handles POST /api/parse/eml (multipart field "file")
func (h *ParseHandler) ParseEML(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	if !eml.IsEMLFile(fileHeader.Filename, fileHeader.Header.Get("Content-Type")) {
		return response.BadRequest(c, "file is not an email message")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalError(c, "failed to open uploaded file")
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return response.InternalError(c, "failed to read uploaded file")
	}

	result := engine.ParseEMLFile(string(raw))
	validation := engine.ValidateParsedEmail(result.Parsed)

	attachments := make([]attachmentInfo, 0, len(result.Envelope.Attachments))
	for _, a := range result.Envelope.Attachments {
		attachments = append(attachments, attachmentInfo{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			SizeBytes:   len(a.Content),
		})
	}

	return response.Success(c, emlParseResult{
		From:        result.Envelope.From,
		Subject:     result.Envelope.Subject,
		Date:        result.Envelope.Date,
		Attachments: attachments,
		Parsed:      result.Parsed,
		Validation:  validation,
	})
}
