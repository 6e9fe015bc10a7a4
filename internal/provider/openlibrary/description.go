package openlibrary

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripMarkup reduces a description that carries embedded HTML to plain text,
// turning <br> variants into newlines first so paragraph breaks survive.
// Descriptions without markup pass through untouched.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	html := strings.ReplaceAll(s, "<br>", "\n")
	html = strings.ReplaceAll(html, "<br/>", "\n")
	html = strings.ReplaceAll(html, "<br />", "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
