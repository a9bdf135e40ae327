// Package engine is the boundary in front of the extraction core. Callers
// hand it raw text or EML bytes and always get a result object back; panics
// in the heuristic pipeline are converted into a zero-confidence validation
// result rather than escaping.
package engine

import (
	"fmt"

	"github.com/taxdesk/receipt-engine/internal/eml"
	"github.com/taxdesk/receipt-engine/internal/extract"
)

// EMLResult pairs the decoded envelope with the heuristic extraction run
// over its body.
type EMLResult struct {
	Envelope *eml.Envelope
	Parsed   extract.ParsedEmail
}

// ParseEmailText runs the extraction heuristics over pasted email or receipt
// text. Plain text and raw HTML are both accepted.
func ParseEmailText(text string) extract.ParsedEmail {
	return extract.Parse(text)
}

// ParseEMLFile decodes a raw EML message and extracts transaction fields
// from its body. The plain-text body is preferred; the HTML body is used
// when no plain part exists. Header lines are prepended to the parse input
// so the From/Subject fallback patterns can see them.
func ParseEMLFile(raw string) EMLResult {
	env := eml.Decode(raw)

	body := env.Body
	if body == "" {
		body = env.HTML
	}

	text := body
	if env.From != "" || env.Subject != "" {
		text = fmt.Sprintf("From: %s\nSubject: %s\n\n%s", env.From, env.Subject, body)
	}

	return EMLResult{
		Envelope: env,
		Parsed:   extract.Parse(text),
	}
}

// ValidateParsedEmail scores an extraction result for completeness.
func ValidateParsedEmail(data extract.ParsedEmail) extract.ValidationResult {
	return extract.Validate(data)
}

// ParseAndValidate parses text and scores the result in one call. An
// unexpected panic anywhere in the pipeline yields an empty parse and a
// zero-confidence result with a synthetic "parsing failed" missing field,
// so the caller always receives a result object.
func ParseAndValidate(text string) (parsed extract.ParsedEmail, result extract.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			parsed = extract.ParsedEmail{RawText: text}
			result = extract.ValidationResult{
				IsValid:       false,
				Confidence:    0,
				MissingFields: []string{"parsing failed"},
			}
		}
	}()

	parsed = ParseEmailText(text)
	result = ValidateParsedEmail(parsed)
	return parsed, result
}
