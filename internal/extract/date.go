package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const dateLabels = `(?:transaction date|order date|invoice date|placed on|purchased|date)`

const monthNames = `(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)`

// Ordered date patterns; the first that both matches and normalizes wins.
// Labeled forms outrank bare forms so "Order date: 01/06/2026" beats a
// stray shipping estimate elsewhere in the text.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b` + dateLabels + `\s*:?\s*(\d{1,4}[/-]\d{1,2}[/-]\d{1,4})`),
	regexp.MustCompile(`(?i)\b` + dateLabels + `\s*:?\s*(` + monthNames + `\.?\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
	regexp.MustCompile(`(?i)\b((?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
}

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
	"january": 1, "february": 2, "march": 3, "april": 4, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// extractDate returns the transaction date as ISO YYYY-MM-DD, or nil.
func extractDate(text string) *string {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if iso, ok := normalizeDate(m[1]); ok {
			return &iso
		}
	}
	return nil
}

// normalizeDate converts a matched date string to ISO YYYY-MM-DD. The ISO
// string is assembled by zero-padded concatenation rather than through a
// time.Time round-trip, which would shift the day across timezones.
// Rejects month > 12, day > 31, and years before 2000.
func normalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	if m := regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})$`).FindStringSubmatch(raw); m != nil {
		return buildISO(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})$`).FindStringSubmatch(raw); m != nil {
		year := atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return buildISO(year, atoi(m[1]), atoi(m[2]))
	}

	if m := regexp.MustCompile(`(?i)^(` + monthNames + `)\.?\s+(\d{1,2}),?\s+(\d{4})$`).FindStringSubmatch(raw); m != nil {
		month, ok := monthNumbers[strings.ToLower(m[1])]
		if !ok {
			return "", false
		}
		return buildISO(atoi(m[3]), month, atoi(m[2]))
	}

	return "", false
}

func buildISO(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 2000 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
