package output

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLToText flattens CMS-authored HTML into readable terminal text. Block
// elements become lines, list items get a leading dash, and whitespace is
// collapsed. Plain text passes through untouched apart from trimming.
func HTMLToText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var lines []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, sel *goquery.Selection) {
		text := collapseSpace(sel.Text())
		if text == "" {
			return
		}
		if sel.Is("li") {
			text = "- " + text
		}
		lines = append(lines, text)
	})

	if len(lines) == 0 {
		return collapseSpace(doc.Text())
	}
	return strings.Join(lines, "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
