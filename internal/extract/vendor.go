package extract

import (
	"regexp"
	"strings"
)

// knownVendor maps a brand mention to its canonical name. Explicit brand
// recognition outranks every label-based pattern below, since a known brand
// in the text is a stronger signal than "sold by:" guessing.
type knownVendor struct {
	re   *regexp.Regexp
	name string
}

var knownVendors = []knownVendor{
	{regexp.MustCompile(`(?i)\bamazon\b`), "Amazon"},
	{regexp.MustCompile(`(?i)\bwalmart\b`), "Walmart"},
	{regexp.MustCompile(`(?i)\btarget\b`), "Target"},
	{regexp.MustCompile(`(?i)\bcostco\b`), "Costco"},
	{regexp.MustCompile(`(?i)\bbest buy\b`), "Best Buy"},
	{regexp.MustCompile(`(?i)\bhome depot\b`), "Home Depot"},
	{regexp.MustCompile(`(?i)\blowe'?s\b`), "Lowe's"},
	{regexp.MustCompile(`(?i)\bstarbucks\b`), "Starbucks"},
	{regexp.MustCompile(`(?i)\bmcdonald'?s\b`), "McDonald's"},
	{regexp.MustCompile(`(?i)\bchipotle\b`), "Chipotle"},
	{regexp.MustCompile(`(?i)\buber eats\b`), "Uber Eats"},
	{regexp.MustCompile(`(?i)\buber\b`), "Uber"},
	{regexp.MustCompile(`(?i)\blyft\b`), "Lyft"},
	{regexp.MustCompile(`(?i)\bdoordash\b`), "DoorDash"},
	{regexp.MustCompile(`(?i)\bgrubhub\b`), "Grubhub"},
	{regexp.MustCompile(`(?i)\binstacart\b`), "Instacart"},
	{regexp.MustCompile(`(?i)\bwhole foods\b`), "Whole Foods"},
	{regexp.MustCompile(`(?i)\btrader joe'?s\b`), "Trader Joe's"},
	{regexp.MustCompile(`(?i)\bsafeway\b`), "Safeway"},
	{regexp.MustCompile(`(?i)\bkroger\b`), "Kroger"},
	{regexp.MustCompile(`(?i)\bwalgreens\b`), "Walgreens"},
	{regexp.MustCompile(`(?i)\bcvs\b`), "CVS"},
	{regexp.MustCompile(`(?i)\bapple\b`), "Apple"},
	{regexp.MustCompile(`(?i)\bnetflix\b`), "Netflix"},
	{regexp.MustCompile(`(?i)\bspotify\b`), "Spotify"},
	{regexp.MustCompile(`(?i)\bebay\b`), "eBay"},
	{regexp.MustCompile(`(?i)\betsy\b`), "Etsy"},
}

// Generic label patterns, tried in order after the known-vendor table. Each
// captures the candidate name in group 1.
var vendorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^(?:.*\b)?(?:seller|sold by|shipped by|merchant|store|shop|retailer)\s*:\s*(.+)$`),
	regexp.MustCompile(`(?im)^from\s*:\s*(.+)$`),
	regexp.MustCompile(`(?i)thank you for your (?:purchase|order) (?:at|from)\s+([^.!,\n]{2,99})`),
	regexp.MustCompile(`(?i)your order (?:at|from)\s+([^.!,\n]{2,99})`),
	regexp.MustCompile(`(?i)(?:order|confirmation|receipt) from\s+([^.!,\n]{2,99})`),
	regexp.MustCompile(`(?i)purchased from\s+([^.!,\n]{2,99})`),
}

var (
	emailRemnantRe = regexp.MustCompile(`\s*<[^>]*>?\s*$`)
	corpSuffixRe   = regexp.MustCompile(`(?i)[\s,]+(?:inc|llc|ltd|corp|co|company)\.?$`)
)

// extractVendor returns the vendor name, or nil when nothing plausible is
// found. It works on the line-structured view so label patterns stop at line
// ends.
func extractVendor(text string) *string {
	for _, kv := range knownVendors {
		if kv.re.MatchString(text) {
			name := kv.name
			return &name
		}
	}

	for _, re := range vendorPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if candidate := cleanVendor(m[1]); candidate != "" {
			return &candidate
		}
	}
	return nil
}

// cleanVendor strips email-address remnants and corporate suffixes, then
// enforces the 2-99 character window. Returns "" when the candidate does not
// survive cleanup.
func cleanVendor(raw string) string {
	v := strings.TrimSpace(raw)
	v = emailRemnantRe.ReplaceAllString(v, "")
	v = corpSuffixRe.ReplaceAllString(v, "")
	v = strings.Trim(v, ` "'-`)
	if len(v) < 2 || len(v) > 99 {
		return ""
	}
	return v
}
