// internal/engine/signals/content.go
package signals

import "strings"

const (
	maxContentLength = 500_000
	charsPerPage     = 2500
	pagesPerEnd      = 3
)

// NormalizeContent joins the extracted document texts into the single
// lowercase blob the keyword scanners run over. Oversized blobs are cut to
// the first and last pages; applications front-load identity and registration
// details and close with financial summaries, so the middle is the least
// informative part.
func NormalizeContent(parts []string) string {
	content := strings.Join(parts, " ")
	if len(content) > maxContentLength {
		content = extractPages(content)
	}
	return strings.ToLower(content)
}

func extractPages(content string) string {
	keep := charsPerPage * pagesPerEnd
	if len(content) <= keep*2 {
		return content
	}
	head := content[:keep]
	tailStart := len(content) - keep
	if tailStart < keep {
		tailStart = keep
	}
	return head + " " + content[tailStart:]
}

// regionAliases maps file-name and shorthand region spellings to canonical
// display names.
var regionAliases = map[string]string{
	"homabay":         "Homa Bay",
	"muranga":         "Murang'a",
	"murang'a":        "Murang'a",
	"elgeyo marakwet": "Elgeyo Marakwet",
	"elgeyo-marakwet": "Elgeyo Marakwet",
	"west pokot":      "West Pokot",
	"taita taveta":    "Taita Taveta",
	"taita-taveta":    "Taita Taveta",
	"tharaka nithi":   "Tharaka Nithi",
	"tharaka-nithi":   "Tharaka Nithi",
	"trans nzoia":     "Trans Nzoia",
	"trans-nzoia":     "Trans Nzoia",
	"uasin gishu":     "Uasin Gishu",
}

// CanonicalRegion normalizes a region name as it appears in file names or
// free-form metadata ("Homa_Bay", "homabay") to its canonical display form.
func CanonicalRegion(name string) string {
	cleaned := strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if cleaned == "" {
		return ""
	}
	if canonical, ok := regionAliases[strings.ToLower(cleaned)]; ok {
		return canonical
	}
	words := strings.Fields(strings.ToLower(cleaned))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
