package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/bizintel/internal/htmltext"
)

const maxDescriptionLen = 500

// Description returns the text of the page's about block, or the meta
// description when there is none, truncated to 500 characters.
func Description(doc *goquery.Document, metaDescription string) string {
	desc := ""
	if about := aboutBlock(doc); about.Length() > 0 {
		desc = htmltext.Clean(about.Text())
	}
	if desc == "" {
		desc = htmltext.Clean(metaDescription)
	}
	return truncateRunes(desc, maxDescriptionLen)
}

func aboutBlock(doc *goquery.Document) *goquery.Selection {
	byID := doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(s.AttrOr("id", "")), "about")
	}).First()
	if byID.Length() > 0 {
		return byID
	}
	if sec := htmltext.WithClass(doc.Selection, "section", "about").First(); sec.Length() > 0 {
		return sec
	}
	return htmltext.WithClass(doc.Selection, "div", "about").First()
}

// Keywords splits the meta keywords on commas.
func Keywords(doc *goquery.Document) []string {
	out := []string{}
	raw := htmltext.Meta(doc, "keywords")
	if raw == "" {
		return out
	}
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
