package linkedin

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/bizintel/internal/htmltext"
)

var jsonLDLinkRe = regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/(?:company|school)/[^"'\s]+`)

// FindURL returns the LinkedIn company URL advertised by a website, or ""
// when the page links to none. Company pages are preferred; any other
// LinkedIn link found is the fallback.
func FindURL(doc *goquery.Document) string {
	var found []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href := a.AttrOr("href", ""); strings.Contains(strings.ToLower(href), "linkedin.com/company/") {
			found = append(found, href)
		}
	})

	social := htmltext.WithClass(doc.Selection, "div, ul, section", "social", "connect", "follow", "links", "footer", "contact")
	social.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href := a.AttrOr("href", ""); strings.Contains(strings.ToLower(href), "linkedin.com") {
			found = append(found, href)
		}
	})

	if c := htmltext.Meta(doc, "og:linkedin"); c != "" {
		found = append(found, c)
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		found = append(found, jsonLDLinkRe.FindAllString(s.Text(), -1)...)
	})

	for _, u := range found {
		u = strings.TrimSuffix(u, "/")
		if strings.Contains(strings.ToLower(u), "linkedin.com/company/") {
			return u
		}
	}
	if len(found) > 0 {
		return strings.TrimSuffix(found[0], "/")
	}
	return ""
}
