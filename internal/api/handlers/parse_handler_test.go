package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParseContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/parse/text", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newEMLUploadContext(t *testing.T, filename, contentType, contents string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/parse/eml", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestParseText_ExtractsReceiptFields(t *testing.T) {
	payload := `{"text":"From: Amazon.com\nOrder #: 112-1234567-1234567\nOrder Total: $42.99\nDate: March 15, 2024"}`
	c, rec := newParseContext(t, payload)

	handler := NewParseHandler()
	err := handler.ParseText(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Parsed struct {
				Vendor *string  `json:"vendor"`
				Total  *float64 `json:"total"`
				Date   *string  `json:"date"`
			} `json:"parsed"`
			Validation struct {
				IsValid    bool `json:"is_valid"`
				Confidence int  `json:"confidence"`
			} `json:"validation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.Parsed.Total)
	assert.Equal(t, 42.99, *resp.Data.Parsed.Total)
	require.NotNil(t, resp.Data.Parsed.Date)
	assert.Equal(t, "2024-03-15", *resp.Data.Parsed.Date)
	assert.True(t, resp.Data.Validation.IsValid)
}

func TestParseText_RequiresText(t *testing.T) {
	c, rec := newParseContext(t, `{"text":""}`)

	handler := NewParseHandler()
	err := handler.ParseText(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseText_GarbageInputStillReturnsResult(t *testing.T) {
	c, rec := newParseContext(t, `{"text":"%%%%%%%%"}`)

	handler := NewParseHandler()
	err := handler.ParseText(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"validation"`)
}

func TestParseEML_DecodesEnvelopeAndBody(t *testing.T) {
	raw := "From: orders@amazon.com\r\n" +
		"Subject: Your order has shipped\r\n" +
		"Date: Fri, 15 Mar 2024 10:00:00 +0000\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Order Total: $42.99\r\n"
	c, rec := newEMLUploadContext(t, "order.eml", "message/rfc822", raw)

	handler := NewParseHandler()
	err := handler.ParseEML(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"from":"orders@amazon.com"`)
	assert.Contains(t, rec.Body.String(), `"subject":"Your order has shipped"`)
	assert.Contains(t, rec.Body.String(), `42.99`)
}

func TestParseEML_RejectsNonEmailFile(t *testing.T) {
	c, rec := newEMLUploadContext(t, "receipt.pdf", "application/pdf", "%PDF-1.4")

	handler := NewParseHandler()
	err := handler.ParseEML(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not an email")
}

func TestParseEML_RequiresFile(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/parse/eml", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewParseHandler()
	err := handler.ParseEML(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
