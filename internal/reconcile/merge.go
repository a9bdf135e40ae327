// Package reconcile merges OCR results, parsed-email results, and user
// edits into a single transaction draft. The policy is first writer wins,
// until the user touches it: automated population only ever fills fields
// that are still empty, so re-running a populate with any source is
// idempotent and a user edit is never clobbered.
//
// Callers must serialize merges into a given draft; the write-if-empty
// check is not atomic across concurrent sources.
package reconcile

import (
	"strconv"

	"github.com/taxdesk/receipt-engine/internal/extract"
	"github.com/taxdesk/receipt-engine/internal/models"
	"github.com/taxdesk/receipt-engine/internal/ocr"
)

// Report lists which draft fields a populate call actually wrote and which
// it left alone because a value (user-typed or earlier-source) was already
// present.
type Report struct {
	Filled    []string `json:"filled"`
	Preserved []string `json:"preserved"`
}

// PopulateFromOCR fills still-empty draft fields from an OCR result.
func PopulateFromOCR(tx *models.Transaction, r ocr.Result) Report {
	var rep Report

	fillString(&tx.Date, r.Date, "date", &rep)
	fillString(&tx.Vendor, r.Vendor, "vendor", &rep)
	fillAmount(&tx.Amount, r.Amount, "amount", &rep)
	fillAmount(&tx.Subtotal, r.Subtotal, "subtotal", &rep)
	fillAmount(&tx.Tax, r.Tax, "tax", &rep)
	fillAmount(&tx.Tip, r.Tip, "tip", &rep)
	fillString(&tx.Currency, r.Currency, "currency", &rep)
	fillCategory(tx, r.Category, &rep)
	fillString(&tx.PaymentMethod, r.PaymentMethod, "payment_method", &rep)

	if len(r.Items) > 0 {
		if len(tx.Items) == 0 {
			for _, item := range r.Items {
				tx.Items = append(tx.Items, NewItemFromOCR(tx.ID, item))
			}
			rep.Filled = append(rep.Filled, "items")
		} else {
			rep.Preserved = append(rep.Preserved, "items")
		}
	}
	return rep
}

// PopulateFromEmail fills still-empty draft fields from a heuristic email
// parse. Email-extracted items carry no pricing, so they land as qty 1,
// unit price 0.
func PopulateFromEmail(tx *models.Transaction, p extract.ParsedEmail) Report {
	var rep Report

	fillOptional(&tx.Date, p.Date, "date", &rep)
	fillOptional(&tx.Vendor, p.Vendor, "vendor", &rep)
	fillAmount(&tx.Amount, p.Total, "amount", &rep)
	fillOptional(&tx.Currency, p.Currency, "currency", &rep)
	fillOptional(&tx.OrderNumber, p.OrderNumber, "order_number", &rep)
	if p.PaymentMethod != nil {
		method := string(*p.PaymentMethod)
		fillString(&tx.PaymentMethod, method, "payment_method", &rep)
	}

	if len(p.Items) > 0 {
		if len(tx.Items) == 0 {
			for _, name := range p.Items {
				tx.Items = append(tx.Items, NewItemFromName(tx.ID, name))
			}
			rep.Filled = append(rep.Filled, "items")
		} else {
			rep.Preserved = append(rep.Preserved, "items")
		}
	}
	return rep
}

// fillString writes incoming into dst only when dst is still empty.
func fillString(dst *string, incoming, field string, rep *Report) {
	if incoming == "" {
		return
	}
	if *dst != "" {
		rep.Preserved = append(rep.Preserved, field)
		return
	}
	*dst = incoming
	rep.Filled = append(rep.Filled, field)
}

func fillOptional(dst *string, incoming *string, field string, rep *Report) {
	if incoming == nil {
		return
	}
	fillString(dst, *incoming, field, rep)
}

// fillAmount writes a numeric value pre-formatted to a fixed 2-decimal
// string. The string form is what the draft stores; it is not re-derived
// later.
func fillAmount(dst *string, incoming *float64, field string, rep *Report) {
	if incoming == nil {
		return
	}
	fillString(dst, FormatAmount(*incoming), field, rep)
}

// fillCategory treats the draft category as unset only while it still holds
// the literal default sentinel.
func fillCategory(tx *models.Transaction, incoming string, rep *Report) {
	if incoming == "" {
		return
	}
	if tx.Category != "" && tx.Category != models.CategoryDefault {
		rep.Preserved = append(rep.Preserved, "category")
		return
	}
	tx.Category = incoming
	rep.Filled = append(rep.Filled, "category")
}

// FormatAmount renders a money value as a fixed 2-decimal string.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
