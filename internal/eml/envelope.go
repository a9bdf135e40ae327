// Package eml provides RFC 822 / .eml decoding: header parsing, multipart
// body flattening, transfer-encoding decoding, and attachment extraction.
// Decoding is deliberately hand-rolled and lenient; structurally broken input
// degrades to a plain-text body instead of returning an error.
package eml

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Envelope is a decoded email message. Header fields hold the decoded header
// values ("" when the header is absent). HTML is empty when the message had
// no HTML part.
type Envelope struct {
	From        string
	To          string
	Subject     string
	Date        string
	Body        string
	HTML        string
	Attachments []Attachment
}

// Attachment is a decoded attachment part. Content holds the decoded bytes,
// not the base64 wire text.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// File is a standalone, upload-ready file object materialized from an
// attachment. Ownership of the byte buffer passes to the File.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// File materializes the attachment for handoff to storage or the OCR
// pipeline.
func (a Attachment) File() *File {
	return &File{
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        int64(len(a.Content)),
		Content:     bytes.NewReader(a.Content),
	}
}

// ImageAttachments returns the attachments with an image/* content type.
func (e *Envelope) ImageAttachments() []Attachment {
	var out []Attachment
	for _, a := range e.Attachments {
		if strings.HasPrefix(strings.ToLower(a.ContentType), "image/") {
			out = append(out, a)
		}
	}
	return out
}

// PDFAttachments returns the attachments that are PDF documents.
func (e *Envelope) PDFAttachments() []Attachment {
	var out []Attachment
	for _, a := range e.Attachments {
		ct := strings.ToLower(a.ContentType)
		if ct == "application/pdf" || strings.HasPrefix(ct, "application/pdf;") {
			out = append(out, a)
		}
	}
	return out
}

// IsEMLFile reports whether a file looks like a raw email message, either by
// extension or by declared content type.
func IsEMLFile(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".eml") {
		return true
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return ct == "message/rfc822" || strings.HasPrefix(ct, "message/rfc822;")
}
