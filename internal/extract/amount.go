package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Multi-letter symbols must come before the bare ones in the alternation or
// "HK$12" would match as "$12".
const currencySymbol = `(?:HK\$|S\$|A\$|C\$|NT\$|R\$|MX\$|[$€£¥₩₹₽฿₫])`

const numericAmount = `([0-9][0-9,]*(?:\.[0-9]{1,2})?)`

const totalLabels = `(?:order total|grand total|total amount|total charged|amount charged|you paid|transaction total|transaction amount|total|transaction|payment|charged|amount)`

var (
	// Pass 1: total-specific labels with an optional currency symbol.
	labeledAmountRe = regexp.MustCompile(`(?i)(` + currencySymbol + `)?\s*\b` + totalLabels + `\s*:?\s*(` + currencySymbol + `)?\s*` + numericAmount)

	// Pass 2: generic symbol/ISO-code patterns over the whole text.
	genericAmountRes = []*regexp.Regexp{
		regexp.MustCompile(`(` + currencySymbol + `)\s*` + numericAmount),
		regexp.MustCompile(`(?i)\b(` + isoCodeAlternation + `)\s*` + numericAmount),
		regexp.MustCompile(`(?i)` + numericAmount + `\s*(` + isoCodeAlternation + `)\b`),
	}

	looseISORe = regexp.MustCompile(`(?i)\b(` + isoCodeAlternation + `)\b`)
)

const isoCodeAlternation = `USD|EUR|GBP|JPY|CAD|AUD|CHF|CNY|INR|KRW|SGD|HKD|TWD|BRL|MXN|SEK|NOK|DKK|PLN|THB|VND|NZD`

var symbolCurrencies = map[string]string{
	"$": "USD", "€": "EUR", "£": "GBP", "¥": "JPY", "₩": "KRW",
	"₹": "INR", "₽": "RUB", "฿": "THB", "₫": "VND",
	"HK$": "HKD", "S$": "SGD", "A$": "AUD", "C$": "CAD",
	"NT$": "TWD", "R$": "BRL", "MX$": "MXN",
}

// maxPlausibleAmount rejects obviously broken captures (phone numbers,
// order IDs read as money).
const maxPlausibleAmount = 1_000_000

// extractAmount finds the transaction total and its currency. Among all
// matches the largest plausible amount wins: subtotal, tax, and total
// usually all appear, and the grand total is the largest in the common
// case. A refund line can misfire this heuristic; the draft stays editable
// so that is acceptable.
func extractAmount(text string) (*float64, *string) {
	best, symbol := scanLabeled(text)
	if best == nil {
		best, symbol = scanGeneric(text)
	}
	if best == nil {
		return nil, nil
	}

	currency := "USD"
	if symbol != "" {
		if iso, ok := symbolCurrencies[symbol]; ok {
			currency = iso
		} else if len(symbol) == 3 {
			currency = strings.ToUpper(symbol)
		}
	} else if m := looseISORe.FindStringSubmatch(text); m != nil {
		// No symbol attached to the amount: a bare ISO code anywhere in the
		// text is the last resort before defaulting to USD.
		currency = strings.ToUpper(m[1])
	}
	return best, &currency
}

func scanLabeled(text string) (*float64, string) {
	var best *float64
	var symbol string
	for _, m := range labeledAmountRe.FindAllStringSubmatch(text, -1) {
		amount, ok := parseAmount(m[3])
		if !ok {
			continue
		}
		if best == nil || amount > *best {
			v := amount
			best = &v
			symbol = m[2]
			if symbol == "" {
				symbol = m[1]
			}
		}
	}
	return best, symbol
}

func scanGeneric(text string) (*float64, string) {
	var best *float64
	var symbol string
	for i, re := range genericAmountRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			// The amount-then-code pattern captures in reverse order.
			sym, num := m[1], m[2]
			if i == 2 {
				sym, num = m[2], m[1]
			}
			amount, ok := parseAmount(num)
			if !ok {
				continue
			}
			if best == nil || amount > *best {
				v := amount
				best = &v
				symbol = sym
			}
		}
	}
	return best, symbol
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if v <= 0 || v >= maxPlausibleAmount {
		return 0, false
	}
	return v, true
}
