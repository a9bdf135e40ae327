package extract

import "regexp"

// paymentRule maps one text pattern to a canonical payment method. The
// table is evaluated in order and the first match wins, so explicit
// card-type mentions outrank wallet names and bare last-4 fallbacks.
type paymentRule struct {
	re     *regexp.Regexp
	method Method
}

var paymentRules = []paymentRule{
	{regexp.MustCompile(`(?i)\bdebit\s*card\b`), MethodDebit},
	{regexp.MustCompile(`(?i)\bcredit\s*card\b`), MethodCredit},
	{regexp.MustCompile(`(?i)\b(?:visa|mastercard|master\s*card|american\s*express|amex|discover)\b`), MethodCredit},
	{regexp.MustCompile(`(?i)\bcard\s+ending\s+in\s+\d{4}\b`), MethodCredit},
	{regexp.MustCompile(`(?i)\bpaid\s+(?:with|by|via|in)\s+cash\b`), MethodCash},
	{regexp.MustCompile(`(?i)\bpaid\s+(?:with|by|via)\s+(?:check|cheque)\b`), MethodCheck},
	{regexp.MustCompile(`(?i)\bpaid\s+(?:with|by|via)\s+debit\b`), MethodDebit},
	{regexp.MustCompile(`(?i)\bpaid\s+(?:with|by|via)\s+credit\b`), MethodCredit},
	// Digital wallets settle against a card in practice.
	{regexp.MustCompile(`(?i)\b(?:apple\s*pay|google\s*pay|samsung\s*pay|paypal)\b`), MethodCredit},
	{regexp.MustCompile(`(?i)\b(?:venmo|zelle)\b`), MethodDebit},
	{regexp.MustCompile(`(?i)\bcash\s+(?:payment|tendered)\b`), MethodCash},
	{regexp.MustCompile(`(?i)\bpaid\s+by\s+check\b`), MethodCheck},
	// A bare masked card number with no other context still implies a card.
	{regexp.MustCompile(`(?i)(?:\bending\s+in\s+|\*{4}\s*)\d{4}\b`), MethodCredit},
}

// extractPaymentMethod returns the canonical payment method, or nil when no
// rule matches. It never guesses a default.
func extractPaymentMethod(text string) *Method {
	for _, rule := range paymentRules {
		if rule.re.MatchString(text) {
			m := rule.method
			return &m
		}
	}
	return nil
}
