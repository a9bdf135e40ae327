package extract

import (
	"regexp"
	"strings"
)

var (
	styleScriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(?:script|style)>`)
	lineBreakTags = regexp.MustCompile(`(?i)<(?:br\s*/?|/p|/div|/tr|/li|/h[1-6])>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)
)

// Normalized holds the two text views the extractors work from: Text keeps
// line structure for line-oriented patterns (items, labeled dates), while
// Collapsed folds all whitespace for single-line field patterns.
type Normalized struct {
	Text      string
	Collapsed string
}

// Normalize accepts plain text or raw HTML indiscriminately and produces
// extraction-ready text. HTML markup is stripped, the five standard entities
// unescaped, and whitespace cleaned up.
func Normalize(input string) Normalized {
	text := input
	if strings.Contains(text, "<") {
		text = styleScriptRe.ReplaceAllString(text, "")
		text = lineBreakTags.ReplaceAllString(text, "\n")
		text = htmlTagRe.ReplaceAllString(text, " ")
	}
	text = unescapeEntities(text)

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}

	structured := strings.Join(lines, "\n")
	return Normalized{
		Text:      structured,
		Collapsed: strings.Join(strings.Fields(structured), " "),
	}
}

// unescapeEntities decodes the five standard HTML entities. Anything more
// exotic stays as-is; receipts rarely need it.
func unescapeEntities(s string) string {
	r := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	return r.Replace(s)
}
