package extract

import (
	"regexp"
	"strings"
)

const (
	maxItems = 20
	// Once an earlier pattern has produced this many items, later (noisier)
	// patterns are skipped.
	itemsEnough = 3
)

// Line-oriented item patterns, tried in order of decreasing reliability:
// quantity-prefixed lines, dash-separated price lines, trailing-price lines.
var itemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,3})\s*[xX×]\s+(.+)$`),
	regexp.MustCompile(`^(.+?)\s+[-–]\s+\$?\d[\d,]*(?:\.\d{1,2})?$`),
	regexp.MustCompile(`^(.+?)\s+\$\d[\d,]*(?:\.\d{1,2})?$`),
}

// Words that mark a line as receipt furniture rather than a purchasable
// item.
var itemSkipWords = map[string]bool{
	"subtotal": true, "total": true, "tax": true, "shipping": true,
	"discount": true, "free": true, "order": true, "confirmation": true,
	"thank": true, "you": true, "your": true, "the": true,
	"item": true, "items": true, "qty": true, "quantity": true,
	"price": true, "amount": true,
}

// extractItems scans the line-structured text for candidate line items,
// deduplicated case-insensitively and capped at maxItems.
func extractItems(text string) []string {
	var items []string
	seen := map[string]bool{}
	lines := strings.Split(text, "\n")

	for _, re := range itemPatterns {
		if len(items) >= itemsEnough {
			break
		}
		for _, line := range lines {
			if len(items) >= maxItems {
				return items
			}
			m := re.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			name := strings.TrimSpace(m[len(m)-1])
			if !plausibleItem(name) {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, name)
		}
	}
	return items
}

func plausibleItem(name string) bool {
	if len(name) < 3 || len(name) > 99 {
		return false
	}
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if itemSkipWords[strings.Trim(word, ".,:;")] {
			return false
		}
	}
	return true
}
