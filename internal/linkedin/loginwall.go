package linkedin

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IsLoginWall detects a LinkedIn sign-in page served in place of content:
// a link or redirect into uas/login, or a form posting to a login endpoint.
func IsLoginWall(raw string, doc *goquery.Document) bool {
	if strings.Contains(strings.ToLower(raw), "uas/login") {
		return true
	}
	if doc == nil {
		return false
	}
	found := false
	doc.Find("form[action]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.AttrOr("action", "")), "login") {
			found = true
		}
		return !found
	})
	return found
}
