package eml

import (
	"strings"
)

// maxMultipartDepth bounds recursion when flattening nested multipart
// bodies, so a pathological message cannot blow the stack.
const maxMultipartDepth = 10

// header holds unfolded header values keyed by lower-cased field name.
type header map[string]string

// part is one leaf of a (possibly nested) multipart body.
type part struct {
	headers header
	body    string
}

// Decode parses a raw EML message into an Envelope. It never fails: missing
// separators, broken boundaries, and undecodable parts all degrade to a
// simpler interpretation of the input.
func Decode(raw string) *Envelope {
	headerBlock, body, found := splitHeaderBody(raw)

	var h header
	if found {
		h = parseHeaders(headerBlock)
	} else {
		// No header/body separator: the whole content is the body.
		h = header{}
		body = raw
	}

	env := &Envelope{
		From:    DecodeHeader(h["from"]),
		To:      DecodeHeader(h["to"]),
		Subject: DecodeHeader(h["subject"]),
		Date:    h["date"],
	}

	mediaType, params := parseContentType(h["content-type"])
	boundary := params["boundary"]

	if boundary != "" {
		parts := flattenParts(body, boundary, 0)
		if len(parts) == 0 {
			// Declared boundary never appears: treat the body as plain text.
			env.Body = body
			return env
		}
		for _, p := range parts {
			classifyPart(env, p)
		}
		return env
	}

	text := decodePartBody(body, h["content-transfer-encoding"], params["charset"])
	if mediaType == "text/html" {
		env.HTML = text
	} else {
		env.Body = text
	}
	return env
}

// splitHeaderBody splits a message at the first blank line, accepting CRLF
// and LF line endings. The separator that occurs first in the input wins.
func splitHeaderBody(raw string) (headerBlock, body string, found bool) {
	iCRLF := strings.Index(raw, "\r\n\r\n")
	iLF := strings.Index(raw, "\n\n")

	switch {
	case iCRLF >= 0 && (iLF < 0 || iCRLF <= iLF):
		return raw[:iCRLF], raw[iCRLF+4:], true
	case iLF >= 0:
		return raw[:iLF], raw[iLF+2:], true
	default:
		return "", raw, false
	}
}

// parseHeaders unfolds continuation lines and splits each header at the
// first colon. Later occurrences of a repeated field overwrite earlier ones.
func parseHeaders(block string) header {
	h := header{}
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")

	var unfolded []string
	for _, line := range lines {
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(unfolded) > 0 {
			unfolded[len(unfolded)-1] += " " + strings.TrimSpace(line)
			continue
		}
		unfolded = append(unfolded, line)
	}

	for _, line := range unfolded {
		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(line[:colon]))
		h[name] = strings.TrimSpace(line[colon+1:])
	}
	return h
}

// parseContentType splits a Content-Type (or Content-Disposition) value into
// its media type and parameters. Quotes around parameter values are removed.
func parseContentType(value string) (mediaType string, params map[string]string) {
	params = map[string]string{}
	segments := strings.Split(value, ";")
	mediaType = strings.ToLower(strings.TrimSpace(segments[0]))

	for _, seg := range segments[1:] {
		eq := strings.Index(seg, "=")
		if eq <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(seg[:eq]))
		val := strings.TrimSpace(seg[eq+1:])
		val = strings.Trim(val, `"`)
		if key != "" {
			params[key] = val
		}
	}
	return mediaType, params
}

// flattenParts splits a multipart body at its boundary and recursively
// splices nested multipart parts into one flat list.
func flattenParts(body, boundary string, depth int) []part {
	if depth >= maxMultipartDepth {
		return nil
	}

	delim := "--" + boundary
	segments := strings.Split(body, delim)
	if len(segments) < 2 {
		return nil
	}

	var parts []part
	// segments[0] is the preamble; skip it.
	for _, seg := range segments[1:] {
		if strings.HasPrefix(seg, "--") {
			// Closing sentinel: --boundary-- ends the multipart body.
			break
		}
		seg = strings.TrimLeft(seg, "\r\n")
		headerBlock, partBody, found := splitHeaderBody(seg)
		if !found {
			headerBlock, partBody = "", seg
		}
		ph := parseHeaders(headerBlock)

		_, partParams := parseContentType(ph["content-type"])
		if nested := partParams["boundary"]; nested != "" {
			if inner := flattenParts(partBody, nested, depth+1); len(inner) > 0 {
				parts = append(parts, inner...)
				continue
			}
		}
		parts = append(parts, part{headers: ph, body: partBody})
	}
	return parts
}

// classifyPart routes one flat part into the envelope: attachments by
// disposition, then HTML, then the first plain-text part. Extra plain parts
// (multipart/alternative duplicates) are dropped.
func classifyPart(env *Envelope, p part) {
	mediaType, params := parseContentType(p.headers["content-type"])
	encoding := p.headers["content-transfer-encoding"]

	disposition := p.headers["content-disposition"]
	if strings.Contains(strings.ToLower(disposition), "attachment") {
		_, dispParams := parseContentType(disposition)
		filename := dispParams["filename"]
		if filename == "" {
			filename = params["name"]
		}
		env.Attachments = append(env.Attachments, Attachment{
			Filename:    DecodeHeader(filename),
			ContentType: mediaType,
			Content:     DecodeTransfer(strings.TrimRight(p.body, "\r\n"), encoding),
		})
		return
	}

	switch {
	case mediaType == "text/html":
		if env.HTML == "" {
			env.HTML = decodePartBody(p.body, encoding, params["charset"])
		}
	case mediaType == "text/plain" || mediaType == "":
		if env.Body == "" {
			env.Body = decodePartBody(p.body, encoding, params["charset"])
		}
	}
}

// decodePartBody applies the transfer encoding and charset to a textual
// body.
func decodePartBody(body, encoding, charset string) string {
	return decodeCharset(charset, DecodeTransfer(body, encoding))
}
