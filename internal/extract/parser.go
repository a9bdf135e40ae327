package extract

// Parse runs every field extractor over the given email or receipt text and
// assembles the result. The input may be plain text or raw HTML; markup is
// stripped first. Extractors are independent: one missing its field never
// blocks the others.
func Parse(text string) ParsedEmail {
	n := Normalize(text)

	total, currency := extractAmount(n.Collapsed)

	return ParsedEmail{
		Vendor:        extractVendor(n.Text),
		Date:          extractDate(n.Collapsed),
		Total:         total,
		Currency:      currency,
		OrderNumber:   extractOrderNumber(n.Collapsed),
		PaymentMethod: extractPaymentMethod(n.Collapsed),
		Items:         extractItems(n.Text),
		RawText:       text,
	}
}
