package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/taxdesk/receipt-engine/internal/api/response"
	"github.com/taxdesk/receipt-engine/internal/logger"
	"github.com/taxdesk/receipt-engine/internal/models"
	"github.com/taxdesk/receipt-engine/internal/repository"
	"github.com/taxdesk/receipt-engine/internal/storage"
	"github.com/taxdesk/receipt-engine/internal/validator"
)

// EvidenceHandler handles evidence file HTTP requests
type EvidenceHandler struct {
	evidenceRepo repository.EvidenceFileRepository
	txnRepo      repository.TransactionRepository
	store        storage.EvidenceStore
	secLog       *logger.SecurityLogger
}

// NewEvidenceHandler creates a new EvidenceHandler
func NewEvidenceHandler(
	evidenceRepo repository.EvidenceFileRepository,
	txnRepo repository.TransactionRepository,
	store storage.EvidenceStore,
) *EvidenceHandler {
	return &EvidenceHandler{
		evidenceRepo: evidenceRepo,
		txnRepo:      txnRepo,
		store:        store,
		secLog:       logger.NewSecurityLogger(),
	}
}

// Upload handles POST /api/transactions/:id/evidence
func (h *EvidenceHandler) Upload(c echo.Context) error {
	txnID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid transaction ID")
	}

	// Verify draft exists
	_, err = h.txnRepo.GetByID(c.Request().Context(), uint(txnID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "transaction not found")
		}
		return response.InternalError(c, "failed to get transaction")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	filename := validator.SanitizeFilename(fileHeader.Filename)
	if err := storage.ValidateEvidence(filename, fileHeader.Size); err != nil {
		h.secLog.BlockedFileUpload(c.RealIP(), filename, err.Error())
		return response.BadRequest(c, err.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.InternalError(c, "failed to read uploaded file")
	}
	defer src.Close()

	filePath, err := h.store.Save(filename, src)
	if err != nil {
		return response.InternalError(c, "failed to store file")
	}

	evidence := &models.EvidenceFile{
		TransactionID: uint(txnID),
		Filename:      filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		FilePath:      filePath,
		SizeBytes:     fileHeader.Size,
		Source:        "upload",
	}

	if err := h.evidenceRepo.Create(c.Request().Context(), evidence); err != nil {
		// Orphan cleanup: the record is the source of truth
		_ = h.store.Delete(filePath)
		return response.InternalError(c, "failed to save evidence file")
	}

	return response.Created(c, evidence)
}

// List handles GET /api/transactions/:id/evidence
func (h *EvidenceHandler) List(c echo.Context) error {
	txnID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid transaction ID")
	}

	// Verify draft exists
	_, err = h.txnRepo.GetByID(c.Request().Context(), uint(txnID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "transaction not found")
		}
		return response.InternalError(c, "failed to get transaction")
	}

	files, err := h.evidenceRepo.ListByTransaction(c.Request().Context(), uint(txnID))
	if err != nil {
		return response.InternalError(c, "failed to list evidence files")
	}

	return response.Success(c, files)
}

// Download handles GET /api/evidence/:id/download
func (h *EvidenceHandler) Download(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid evidence file ID")
	}

	evidence, err := h.evidenceRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "evidence file not found")
		}
		return response.InternalError(c, "failed to get evidence file")
	}

	file, err := h.store.Get(evidence.FilePath)
	if err != nil {
		return response.InternalError(c, "failed to retrieve file")
	}
	defer file.Close()

	// Set headers for download
	c.Response().Header().Set("Content-Type", evidence.ContentType)
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, evidence.Filename))
	if evidence.SizeBytes > 0 {
		c.Response().Header().Set("Content-Length", strconv.FormatInt(evidence.SizeBytes, 10))
	}

	// Stream file to response
	_, err = io.Copy(c.Response().Writer, file)
	if err != nil {
		return response.InternalError(c, "failed to send file")
	}

	return nil
}

// Delete handles DELETE /api/evidence/:id
func (h *EvidenceHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid evidence file ID")
	}

	if err := h.evidenceRepo.Delete(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "evidence file not found")
		}
		return response.InternalError(c, "failed to delete evidence file")
	}

	return response.NoContent(c)
}
