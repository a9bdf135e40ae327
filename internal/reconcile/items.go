package reconcile

import (
	"github.com/google/uuid"
	"github.com/taxdesk/receipt-engine/internal/models"
	"github.com/taxdesk/receipt-engine/internal/ocr"
)

// NewItemFromOCR builds a line-item draft from an OCR item. Missing
// quantities default to 1; when OCR supplied only a line amount, it becomes
// the unit price so the qty-times-price invariant still holds.
func NewItemFromOCR(transactionID uint, item ocr.Item) models.LineItem {
	qty := 1.0
	if item.Qty != nil && *item.Qty > 0 {
		qty = *item.Qty
	}

	unitPrice := 0.0
	switch {
	case item.UnitPrice != nil && *item.UnitPrice >= 0:
		unitPrice = *item.UnitPrice
	case item.Amount != nil && *item.Amount >= 0:
		unitPrice = *item.Amount / qty
	}

	return models.LineItem{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		Name:          item.Name,
		Qty:           qty,
		UnitPrice:     unitPrice,
		Amount:        qty * unitPrice,
		Selected:      true,
	}
}

// NewItemFromName builds a line-item draft from a bare item name, as
// produced by the email extractor or a legacy string-only OCR item.
func NewItemFromName(transactionID uint, name string) models.LineItem {
	return models.LineItem{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		Name:          name,
		Qty:           1,
		UnitPrice:     0,
		Amount:        0,
		Selected:      true,
	}
}

// SetQty changes an item quantity and recomputes its amount. Negative
// quantities clamp to zero.
func SetQty(item *models.LineItem, qty float64) {
	if qty < 0 {
		qty = 0
	}
	item.Qty = qty
	item.Amount = item.Qty * item.UnitPrice
}

// SetUnitPrice changes an item unit price and recomputes its amount.
// Negative prices clamp to zero.
func SetUnitPrice(item *models.LineItem, unitPrice float64) {
	if unitPrice < 0 {
		unitPrice = 0
	}
	item.UnitPrice = unitPrice
	item.Amount = item.Qty * item.UnitPrice
}

// SelectAll sets every item's selected flag uniformly.
func SelectAll(tx *models.Transaction, selected bool) {
	for i := range tx.Items {
		tx.Items[i].Selected = selected
	}
}

// SelectedSubtotal sums the amounts of the currently selected items.
func SelectedSubtotal(tx *models.Transaction) float64 {
	var sum float64
	for _, item := range tx.Items {
		if item.Selected {
			sum += item.Amount
		}
	}
	return sum
}

// ApplySelectedSubtotal overwrites the draft's subtotal and amount with the
// selected-items subtotal. This is the one merge operation allowed to
// overwrite, and it only runs on explicit user action.
func ApplySelectedSubtotal(tx *models.Transaction) {
	formatted := FormatAmount(SelectedSubtotal(tx))
	tx.Subtotal = formatted
	tx.Amount = formatted
}

// RemoveItem deletes the item with the given ID from the draft. It reports
// whether an item was removed.
func RemoveItem(tx *models.Transaction, itemID string) bool {
	for i, item := range tx.Items {
		if item.ID == itemID {
			tx.Items = append(tx.Items[:i], tx.Items[i+1:]...)
			return true
		}
	}
	return false
}
