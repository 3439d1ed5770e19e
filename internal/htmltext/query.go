package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ClassContains reports whether the class attribute of the first element in s
// contains any of subs, ignoring case.
func ClassContains(s *goquery.Selection, subs ...string) bool {
	cls, ok := s.Attr("class")
	if !ok || cls == "" {
		return false
	}
	cls = strings.ToLower(cls)
	for _, sub := range subs {
		if strings.Contains(cls, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// WithClass returns the elements under s matching selector whose class
// contains any of subs, in document order.
func WithClass(s *goquery.Selection, selector string, subs ...string) *goquery.Selection {
	return s.Find(selector).FilterFunction(func(_ int, el *goquery.Selection) bool {
		return ClassContains(el, subs...)
	})
}

// OwnString returns the text of n when n holds exactly one text node, possibly
// wrapped in single-child elements. Elements with mixed content have no own string.
func OwnString(n *html.Node) (string, bool) {
	for n != nil {
		if n.FirstChild == nil || n.FirstChild != n.LastChild {
			return "", false
		}
		c := n.FirstChild
		if c.Type == html.TextNode {
			return c.Data, true
		}
		n = c
	}
	return "", false
}

// OwnStringMatches reports whether the first element of s has an own string matching re.
func OwnStringMatches(s *goquery.Selection, re *regexp.Regexp) bool {
	if s.Length() == 0 {
		return false
	}
	str, ok := OwnString(s.Nodes[0])
	return ok && re.MatchString(str)
}

// FindOwn returns the first element under s matching selector whose own
// string matches re.
func FindOwn(s *goquery.Selection, selector string, re *regexp.Regexp) *goquery.Selection {
	return s.Find(selector).FilterFunction(func(_ int, el *goquery.Selection) bool {
		return OwnStringMatches(el, re)
	}).First()
}

// Next returns the first element after s in document order, outside s
// itself, whose tag is one of tags and for which keep returns true. A nil
// keep accepts every candidate. The result is empty when nothing matches.
func Next(s *goquery.Selection, tags []string, keep func(*goquery.Selection) bool) *goquery.Selection {
	if s.Length() == 0 {
		return s
	}
	nodes, err := htmlquery.QueryAll(s.Nodes[0], "following::*["+selfTest(tags)+"]")
	if err != nil {
		return empty()
	}
	for _, n := range nodes {
		el := selectionOf(n)
		if keep == nil || keep(el) {
			return el
		}
	}
	return empty()
}

// Prev returns the nearest element before s in document order, skipping
// ancestors of s, whose tag is one of tags and for which keep returns true.
func Prev(s *goquery.Selection, tags []string, keep func(*goquery.Selection) bool) *goquery.Selection {
	if s.Length() == 0 {
		return s
	}
	start := s.Nodes[0]
	ancestors := map[*html.Node]bool{}
	for p := start.Parent; p != nil; p = p.Parent {
		ancestors[p] = true
	}
	for n := prevInDocument(start); n != nil; n = prevInDocument(n) {
		if n.Type != html.ElementNode || ancestors[n] || !tagIn(n.Data, tags) {
			continue
		}
		el := selectionOf(n)
		if keep == nil || keep(el) {
			return el
		}
	}
	return empty()
}

func prevInDocument(n *html.Node) *html.Node {
	if n.PrevSibling == nil {
		return n.Parent
	}
	n = n.PrevSibling
	for n.LastChild != nil {
		n = n.LastChild
	}
	return n
}

func selfTest(tags []string) string {
	if len(tags) == 0 {
		return "true()"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "self::" + t
	}
	return strings.Join(parts, " or ")
}

func tagIn(tag string, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// InnerText returns the whitespace-cleaned text of the first node in s.
func InnerText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	return Clean(htmlquery.InnerText(s.Nodes[0]))
}

func selectionOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

func empty() *goquery.Selection {
	return &goquery.Selection{}
}
