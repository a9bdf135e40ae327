// Package validator provides input validation and sanitization for the
// receipt engine API layer.
package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidDate     = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidAmount   = errors.New("invalid amount format")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter ISO code")
	ErrInvalidPayment  = errors.New("invalid payment method")
	ErrInputTooLong    = errors.New("input exceeds maximum length")
	ErrEmptyInput      = errors.New("input cannot be empty")
)

// Regex patterns for validation
var (
	// ISO date: zero-padded year-month-day
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// Money string as stored on a draft: plain decimal, up to 2 places
	amountRegex = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// paymentMethods lists the accepted payment method values
var paymentMethods = map[string]bool{
	"credit": true,
	"debit":  true,
	"cash":   true,
	"check":  true,
}

// ValidateDate validates an ISO YYYY-MM-DD date string.
// Empty is allowed; drafts start with no date.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if !isoDateRegex.MatchString(date) {
		return ErrInvalidDate
	}
	return nil
}

// ValidateAmount validates a money string as carried on a draft field.
// Empty is allowed.
func ValidateAmount(amount string) error {
	if amount == "" {
		return nil
	}
	if !amountRegex.MatchString(amount) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateCurrency validates a 3-letter uppercase ISO currency code.
// Empty is allowed.
func ValidateCurrency(currency string) error {
	if currency == "" {
		return nil
	}
	if !currencyRegex.MatchString(currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// ValidatePaymentMethod validates a payment method value.
// Empty is allowed.
func ValidatePaymentMethod(method string) error {
	if method == "" {
		return nil
	}
	if !paymentMethods[method] {
		return ErrInvalidPayment
	}
	return nil
}

// Pagination constants
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ValidatePagination validates and sanitizes pagination parameters.
// Returns sanitized limit and offset values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// SanitizeFilename removes dangerous characters from filename.
// Prevents path traversal and removes control characters.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")

	filename = strings.ReplaceAll(filename, "\x00", "")

	// Remove control characters (ASCII 0-31 and 127)
	filename = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, filename)

	filename = strings.TrimSpace(filename)

	// Limit length to 255 characters (common filesystem limit)
	if utf8.RuneCountInString(filename) > 255 {
		runes := []rune(filename)
		filename = string(runes[:255])
	}

	if filename == "" {
		return "unnamed"
	}

	return filename
}

// SanitizeString removes potentially dangerous characters and enforces length limits.
// Removes control characters and trims whitespace.
func SanitizeString(input string, maxLength int) string {
	// Remove control characters (ASCII 0-31 and 127)
	input = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	input = strings.TrimSpace(input)

	if maxLength > 0 && utf8.RuneCountInString(input) > maxLength {
		runes := []rune(input)
		input = string(runes[:maxLength])
	}

	return input
}
