package handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/taxdesk/receipt-engine/internal/api/response"
	"github.com/taxdesk/receipt-engine/internal/engine"
	"github.com/taxdesk/receipt-engine/internal/models"
	"github.com/taxdesk/receipt-engine/internal/ocr"
	"github.com/taxdesk/receipt-engine/internal/reconcile"
	"github.com/taxdesk/receipt-engine/internal/repository"
	"github.com/taxdesk/receipt-engine/internal/validator"
	"github.com/taxdesk/receipt-engine/internal/websocket"
)

// TransactionHandler handles transaction draft HTTP requests
type TransactionHandler struct {
	txnRepo repository.TransactionRepository
	hub     *websocket.Hub
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(txnRepo repository.TransactionRepository, hub *websocket.Hub) *TransactionHandler {
	return &TransactionHandler{
		txnRepo: txnRepo,
		hub:     hub,
	}
}

// transactionRequest carries the user-editable draft fields
type transactionRequest struct {
	Date            *string `json:"date"`
	Vendor          *string `json:"vendor"`
	Amount          *string `json:"amount"`
	Subtotal        *string `json:"subtotal"`
	Tax             *string `json:"tax"`
	Tip             *string `json:"tip"`
	Currency        *string `json:"currency"`
	Category        *string `json:"category"`
	PaymentMethod   *string `json:"payment_method"`
	OrderNumber     *string `json:"order_number"`
	Notes           *string `json:"notes"`
	BusinessPurpose *string `json:"business_purpose"`
}

// apply writes the present fields onto the draft and validates them
func (r *transactionRequest) apply(txn *models.Transaction) error {
	if r.Date != nil {
		if err := validator.ValidateDate(*r.Date); err != nil {
			return err
		}
		txn.Date = *r.Date
	}
	if r.Vendor != nil {
		txn.Vendor = validator.SanitizeString(*r.Vendor, 255)
	}
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{r.Amount, &txn.Amount},
		{r.Subtotal, &txn.Subtotal},
		{r.Tax, &txn.Tax},
		{r.Tip, &txn.Tip},
	} {
		if f.src == nil {
			continue
		}
		if err := validator.ValidateAmount(*f.src); err != nil {
			return err
		}
		*f.dst = *f.src
	}
	if r.Currency != nil {
		if err := validator.ValidateCurrency(*r.Currency); err != nil {
			return err
		}
		txn.Currency = *r.Currency
	}
	if r.Category != nil {
		txn.Category = validator.SanitizeString(*r.Category, 50)
	}
	if r.PaymentMethod != nil {
		if err := validator.ValidatePaymentMethod(*r.PaymentMethod); err != nil {
			return err
		}
		txn.PaymentMethod = *r.PaymentMethod
	}
	if r.OrderNumber != nil {
		txn.OrderNumber = validator.SanitizeString(*r.OrderNumber, 50)
	}
	if r.Notes != nil {
		txn.Notes = *r.Notes
	}
	if r.BusinessPurpose != nil {
		txn.BusinessPurpose = *r.BusinessPurpose
	}
	return nil
}

// Create handles POST /api/transactions
func (h *TransactionHandler) Create(c echo.Context) error {
	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	txn := &models.Transaction{Category: models.CategoryDefault}
	if err := req.apply(txn); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.txnRepo.Create(c.Request().Context(), txn); err != nil {
		return response.InternalError(c, "failed to create transaction")
	}

	if h.hub != nil {
		h.hub.BroadcastDraftCreated(&websocket.DraftEventPayload{
			TransactionID: txn.ID,
			Source:        "user",
			Vendor:        txn.Vendor,
			Amount:        txn.Amount,
		})
	}

	return response.Created(c, txn)
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	txns, total, err := h.txnRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list transactions")
	}

	return response.Paginated(c, txns, total, limit, offset)
}

// Get handles GET /api/transactions/:id
func (h *TransactionHandler) Get(c echo.Context) error {
	txn, err := h.loadDraft(c)
	if err != nil {
		return err
	}
	return response.Success(c, txn)
}

// Update handles PATCH /api/transactions/:id
func (h *TransactionHandler) Update(c echo.Context) error {
	txn, err := h.loadDraft(c)
	if err != nil {
		return err
	}

	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if err := req.apply(txn); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.txnRepo.Update(c.Request().Context(), txn); err != nil {
		return response.InternalError(c, "failed to update transaction")
	}

	h.notifyUpdated(txn, "user", nil)
	return response.Success(c, txn)
}

// Delete handles DELETE /api/transactions/:id
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid transaction ID")
	}

	if err := h.txnRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "transaction not found")
		}
		return response.InternalError(c, "failed to delete transaction")
	}

	return response.NoContent(c)
}

// populateEmailRequest is the body for POST /api/transactions/:id/populate/email.
// Exactly one of text and raw should be set; raw carries a full EML message.
type populateEmailRequest struct {
	Text string `json:"text"`
	Raw  string `json:"raw"`
}

// populateResult pairs the updated draft with the merge report
type populateResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Report      reconcile.Report    `json:"report"`
}

// PopulateFromEmail handles POST /api/transactions/:id/populate/email
func (h *TransactionHandler) PopulateFromEmail(c echo.Context) error {
	txn, err := h.loadDraft(c)
	if err != nil {
		return err
	}

	var req populateEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if req.Text == "" && req.Raw == "" {
		return response.BadRequest(c, "text or raw is required")
	}

	var parsed = engine.ParseEmailText(req.Text)
	if req.Raw != "" {
		parsed = engine.ParseEMLFile(req.Raw).Parsed
	}

	report := reconcile.PopulateFromEmail(txn, parsed)
	if err := h.saveDraft(c, txn, report); err != nil {
		return response.InternalError(c, "failed to save transaction")
	}

	h.notifyUpdated(txn, "email", report.Filled)
	return response.Success(c, populateResult{Transaction: txn, Report: report})
}

// PopulateFromOCR handles POST /api/transactions/:id/populate/ocr
func (h *TransactionHandler) PopulateFromOCR(c echo.Context) error {
	txn, err := h.loadDraft(c)
	if err != nil {
		return err
	}

	var result ocr.Result
	if err := c.Bind(&result); err != nil {
		return response.BadRequest(c, "invalid OCR result")
	}

	report := reconcile.PopulateFromOCR(txn, result)
	if err := h.saveDraft(c, txn, report); err != nil {
		return response.InternalError(c, "failed to save transaction")
	}

	h.notifyUpdated(txn, "ocr", report.Filled)
	return response.Success(c, populateResult{Transaction: txn, Report: report})
}

// addItemRequest is the body for POST /api/transactions/:id/items
type addItemRequest struct {
	Name string `json:"name"`
}

// AddItem handles POST /api/transactions/:id/items
func (h *TransactionHandler) AddItem(c echo.Context) error {
	txn, err := h.loadDraft(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	name := validator.SanitizeString(req.Name, 255)
	if name == "" {
		return response.BadRequest(c, "name is required")
	}

	item := reconcile.NewItemFromName(txn.ID, name)
	if err := h.txnRepo.AddItems(c.Request().Context(), txn.ID, []models.LineItem{item}); err != nil {
		return response.InternalError(c, "failed to add line item")
	}

	h.notifyUpdated(txn, "user", []string{"items"})
	return response.Created(c, item)
}

// updateItemRequest is the body for PATCH /api/transactions/:id/items/:item_id
type updateItemRequest struct {
	Name      *string  `json:"name"`
	Qty       *float64 `json:"qty"`
	UnitPrice *float64 `json:"unit_price"`
	Selected  *bool    `json:"selected"`
}

// UpdateItem handles PATCH /api/transactions/:id/items/:item_id
func (h *TransactionHandler) UpdateItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid transaction ID")
	}

	item, err := h.txnRepo.GetItem(c.Request().Context(), id, c.Param("item_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "line item not found")
		}
		return response.InternalError(c, "failed to get line item")
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.Name != nil {
		item.Name = validator.SanitizeString(*req.Name, 255)
	}
	if req.Qty != nil {
		reconcile.SetQty(item, *req.Qty)
	}
	if req.UnitPrice != nil {
		reconcile.SetUnitPrice(item, *req.UnitPrice)
	}
	if req.Selected != nil {
		item.Selected = *req.Selected
	}

	if err := h.txnRepo.SaveItem(c.Request().Context(), item); err != nil {
		return response.InternalError(c, "failed to save line item")
	}

	return response.Success(c, item)
}

// DeleteItem handles DELETE /api/transactions/:id/items/:item_id
func (h *TransactionHandler) DeleteItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "invalid transaction ID")
	}

	if err := h.txnRepo.DeleteItem(c.Request().Context(), id, c.Param("item_id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "line item not found")
		}
		return response.InternalError(c, "failed to delete line item")
	}

	return response.NoContent(c)
}

// selectAllRequest is the body for POST /api/transactions/:id/items/select-all
type selectAllRequest struct {
	Selected bool `json:"selected"`
}

// SelectAllItems handles POST /api/transactions/:id/items/select-all
func (h *TransactionHandler) SelectAllItems(c echo.Context) error {
	txn, err := h.loadDraft(c)
	if err != nil {
		return err
	}

	var req selectAllRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	reconcile.SelectAll(txn, req.Selected)
	if err := h.txnRepo.SaveItems(c.Request().Context(), txn.Items); err != nil {
		return response.InternalError(c, "failed to save line items")
	}

	return response.Success(c, txn.Items)
}

// ApplySubtotal handles POST /api/transactions/:id/apply-subtotal.
// It overwrites the draft's subtotal and amount with the sum of the
// selected line items; this is an explicit user action, not a merge.
func (h *TransactionHandler) ApplySubtotal(c echo.Context) error {
	txn, err := h.loadDraft(c)
	if err != nil {
		return err
	}

	reconcile.ApplySelectedSubtotal(txn)
	if err := h.txnRepo.Update(c.Request().Context(), txn); err != nil {
		return response.InternalError(c, "failed to save transaction")
	}

	h.notifyUpdated(txn, "user", []string{"subtotal", "amount"})
	return response.Success(c, txn)
}

// loadDraft fetches the draft named by the :id param, writing the error
// response itself when the draft cannot be loaded.
func (h *TransactionHandler) loadDraft(c echo.Context) (*models.Transaction, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, response.BadRequest(c, "invalid transaction ID")
	}

	txn, err := h.txnRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, response.NotFound(c, "transaction not found")
		}
		return nil, response.InternalError(c, "failed to get transaction")
	}
	return txn, nil
}

// saveDraft persists scalar fields plus any line items a populate appended
func (h *TransactionHandler) saveDraft(c echo.Context, txn *models.Transaction, report reconcile.Report) error {
	if err := h.txnRepo.Update(c.Request().Context(), txn); err != nil {
		return err
	}
	for _, field := range report.Filled {
		if field == "items" {
			for i := range txn.Items {
				txn.Items[i].TransactionID = txn.ID
			}
			return h.txnRepo.SaveItems(c.Request().Context(), txn.Items)
		}
	}
	return nil
}

func (h *TransactionHandler) notifyUpdated(txn *models.Transaction, source string, filled []string) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastDraftUpdated(txn.ID, &websocket.DraftEventPayload{
		TransactionID: txn.ID,
		Source:        source,
		Vendor:        txn.Vendor,
		Amount:        txn.Amount,
		Filled:        filled,
	})
}

func parseID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
