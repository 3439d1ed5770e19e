package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/bizintel/internal/htmltext"
)

const (
	maxNameLen     = 100
	unknownCompany = "Unknown Company"
)

var logoAltRe = regexp.MustCompile(`(?i)logo`)

// nameSources are tried in order; each yields at most one candidate.
var nameSources = []func(*goquery.Document) string{
	func(d *goquery.Document) string {
		return d.Find("header").First().Find("h1, h2").First().Text()
	},
	func(d *goquery.Document) string {
		return d.Find("h1").First().Text()
	},
	func(d *goquery.Document) string {
		img := d.Find("img[alt]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return logoAltRe.MatchString(s.AttrOr("alt", ""))
		}).First()
		return img.AttrOr("alt", "")
	},
	func(d *goquery.Document) string {
		return d.Find("title").First().Text()
	},
}

// CompanyName picks the shortest plausible name from the page's headings,
// logo alt text, title and domain. It never returns an empty string.
func CompanyName(doc *goquery.Document, host string) string {
	var candidates []string
	add := func(s string) {
		s = htmltext.Clean(s)
		if s != "" && utf8.RuneCountInString(s) < maxNameLen {
			candidates = append(candidates, s)
		}
	}
	if doc != nil {
		for _, src := range nameSources {
			add(src(doc))
		}
	}
	add(domainLabel(host))

	if len(candidates) == 0 {
		return fallbackName(host)
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if utf8.RuneCountInString(c) < utf8.RuneCountInString(best) {
			best = c
		}
	}
	return best
}

// domainLabel turns "www.acme-corp.com" into "Acme-Corp".
func domainLabel(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}
	return cases.Title(language.Und).String(label)
}

func fallbackName(host string) string {
	if host == "" {
		return unknownCompany
	}
	return host
}
