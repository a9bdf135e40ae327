package extract

import (
	"regexp"
	"strings"
)

// Order-number patterns, tried in order: a label or bare # followed by an
// alphanumeric/hyphen token, then a numeric-only fallback.
var orderNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:order|confirmation|invoice|reference|tracking)\s*(?:number|no\.?|id)?\s*(?:#\s*:?|:)\s*([A-Za-z0-9][A-Za-z0-9-]{4,29})\b`),
	regexp.MustCompile(`#\s?([A-Za-z0-9][A-Za-z0-9-]{4,29})\b`),
	regexp.MustCompile(`(?i)\b(?:order|confirmation)\s*(?:number|no\.?)?\s+(\d{5,30})\b`),
}

var hasDigitRe = regexp.MustCompile(`\d`)

// extractOrderNumber returns the order/confirmation number, or nil. A
// candidate must contain at least one digit so label words themselves never
// match.
func extractOrderNumber(text string) *string {
	for _, re := range orderNumberPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if !hasDigitRe.MatchString(candidate) {
			continue
		}
		return &candidate
	}
	return nil
}
