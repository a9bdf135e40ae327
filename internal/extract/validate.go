package extract

// Confidence weights per field. The valid threshold of 55 means no single
// field is ever enough; a vendor plus one strong secondary signal crosses
// the line.
const (
	scoreVendor = 30
	scoreDate   = 25
	scoreTotal  = 30
	scoreOrder  = 10
	scoreItems  = 5

	validThreshold = 55
)

// Validate scores a ParsedEmail for completeness and reports which of the
// primary fields are missing, in the order vendor, date, total.
func Validate(data ParsedEmail) ValidationResult {
	result := ValidationResult{MissingFields: []string{}}

	if data.Vendor != nil && *data.Vendor != "" {
		result.Confidence += scoreVendor
	} else {
		result.MissingFields = append(result.MissingFields, "vendor")
	}

	if data.Date != nil && *data.Date != "" {
		result.Confidence += scoreDate
	} else {
		result.MissingFields = append(result.MissingFields, "date")
	}

	if data.Total != nil && *data.Total > 0 {
		result.Confidence += scoreTotal
	} else {
		result.MissingFields = append(result.MissingFields, "total")
	}

	if data.OrderNumber != nil && *data.OrderNumber != "" {
		result.Confidence += scoreOrder
	}
	if len(data.Items) > 0 {
		result.Confidence += scoreItems
	}

	if result.Confidence > 100 {
		result.Confidence = 100
	}
	result.IsValid = result.Confidence >= validThreshold
	return result
}
