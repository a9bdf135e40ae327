// Package extract implements heuristic field extraction from receipt and
// order-confirmation email text. Every extractor is best-effort: a miss is
// an absent optional field, never an error.
package extract

// Method is a canonical payment method.
type Method string

const (
	MethodCredit Method = "credit"
	MethodDebit  Method = "debit"
	MethodCash   Method = "cash"
	MethodCheck  Method = "check"
)

// ParsedEmail is the result of running the heuristic extractors over one
// piece of email or receipt text. Nil means "not found"; extractors never
// guess a default.
type ParsedEmail struct {
	Vendor        *string  `json:"vendor,omitempty"`
	Date          *string  `json:"date,omitempty"` // ISO YYYY-MM-DD
	Total         *float64 `json:"total,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	OrderNumber   *string  `json:"order_number,omitempty"`
	PaymentMethod *Method  `json:"payment_method,omitempty"`
	Items         []string `json:"items,omitempty"`
	RawText       string   `json:"raw_text"`
}

// ValidationResult scores a ParsedEmail for completeness. Confidence is a
// 0-100 heuristic, not a probability.
type ValidationResult struct {
	IsValid       bool     `json:"is_valid"`
	Confidence    int      `json:"confidence"`
	MissingFields []string `json:"missing_fields"`
}
