// Package ocr defines the result shape produced by the external OCR
// collaborator. The engine consumes these results; it never performs image
// analysis itself.
package ocr

import (
	"encoding/json"
	"fmt"
)

// Item is one line item recognized by OCR. Older service versions emit bare
// strings instead of objects; UnmarshalJSON accepts both.
type Item struct {
	Name      string   `json:"name"`
	Qty       *float64 `json:"qty,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
}

// UnmarshalJSON decodes either a bare string or a structured item object.
func (i *Item) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*i = Item{Name: name}
		return nil
	}

	type alias Item
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("ocr item: %w", err)
	}
	*i = Item(obj)
	return nil
}

// Result is the structured best-effort guess the OCR service returns for a
// receipt image. Empty strings and nil numbers mean the service found
// nothing for that field.
type Result struct {
	Date          string   `json:"date,omitempty"`
	Vendor        string   `json:"vendor,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Subtotal      *float64 `json:"subtotal,omitempty"`
	Tax           *float64 `json:"tax,omitempty"`
	Tip           *float64 `json:"tip,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Items         []Item   `json:"items,omitempty"`
	Category      string   `json:"category,omitempty"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
}
