package eml

import (
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// encodedWordRe matches an RFC 2047 encoded word: =?charset?B|Q?text?=
var encodedWordRe = regexp.MustCompile(`=\?([^?]+)\?([bBqQ])\?([^?]*)\?=`)

// DecodeHeader decodes any RFC 2047 encoded words embedded in a header
// value. A word that fails to decode is left in place as raw text.
func DecodeHeader(value string) string {
	return encodedWordRe.ReplaceAllStringFunc(value, func(word string) string {
		m := encodedWordRe.FindStringSubmatch(word)
		decoded, err := decodeWord(m[1], m[2], m[3])
		if err != nil {
			return word
		}
		return decoded
	})
}

func decodeWord(charset, encoding, text string) (string, error) {
	var raw []byte
	switch strings.ToUpper(encoding) {
	case "B":
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return "", fmt.Errorf("base64 word: %w", err)
		}
		raw = b
	case "Q":
		// Q encoding is quoted-printable with underscore as space.
		raw = decodeQuotedPrintable(strings.ReplaceAll(text, "_", " "))
	default:
		return "", fmt.Errorf("unknown encoding %q", encoding)
	}
	return decodeCharset(charset, raw), nil
}

// decodeCharset converts raw bytes in the named charset to UTF-8. Unknown or
// broken charsets fall back to interpreting the bytes as UTF-8 directly, so
// non-ASCII vendor names survive rather than vanish.
func decodeCharset(charset string, raw []byte) string {
	cs := strings.ToLower(strings.TrimSpace(charset))
	if cs == "" || cs == "utf-8" || cs == "us-ascii" || cs == "ascii" {
		return string(raw)
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return string(raw)
	}
	out, err := io.ReadAll(transform.NewReader(strings.NewReader(string(raw)), enc.NewDecoder()))
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// DecodeTransfer decodes a body or attachment per its
// Content-Transfer-Encoding. Unrecognized or absent encodings pass through
// unchanged, and decode failures return the input bytes rather than erroring.
func DecodeTransfer(content, encoding string) []byte {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		// Encoded bodies carry line breaks every 76 chars; strip all
		// whitespace before decoding.
		compact := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
				return -1
			}
			return r
		}, content)
		decoded, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return []byte(content)
		}
		return decoded
	case "quoted-printable":
		return decodeQuotedPrintable(content)
	default:
		return []byte(content)
	}
}

var softBreakRe = regexp.MustCompile(`=\r?\n`)
var qpEscapeRe = regexp.MustCompile(`=([0-9A-Fa-f]{2})`)

// decodeQuotedPrintable collapses soft line breaks and expands =XX hex
// escapes. Invalid escapes are left as-is.
func decodeQuotedPrintable(s string) []byte {
	s = softBreakRe.ReplaceAllString(s, "")
	s = qpEscapeRe.ReplaceAllStringFunc(s, func(esc string) string {
		var b byte
		if _, err := fmt.Sscanf(esc[1:], "%02x", &b); err != nil {
			return esc
		}
		return string([]byte{b})
	})
	return []byte(s)
}
