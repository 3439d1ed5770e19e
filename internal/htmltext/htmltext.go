// Package htmltext turns fetched HTML into queryable documents and plain text.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	paragraphRe = regexp.MustCompile(`\n+`)
)

// Parse builds a goquery document from raw HTML.
func Parse(raw string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, eris.Wrap(err, "htmltext: parse")
	}
	return doc, nil
}

// Clean collapses whitespace runs to a single space and trims the ends.
func Clean(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Paragraphs splits text on newline runs and returns the cleaned, non-empty parts.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphRe.Split(text, -1) {
		if c := Clean(p); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Elements whose content is never part of the readable page body.
var boilerplate = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Form:     true,
	atom.Button:   true,
}

// Elements that start a new line of text.
var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Blockquote: true, atom.Br: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Hr: true,
	atom.Li: true, atom.Main: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Td: true,
	atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// MainText returns the readable body of the page, one block element per line.
// Navigation, headers, footers, forms and scripts are dropped. When the page
// marks a main region, only that region is read.
func MainText(doc *goquery.Document) string {
	var b strings.Builder
	for _, n := range mainRoot(doc).Nodes {
		walk(&b, n)
	}
	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if c := Clean(l); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, "\n")
}

func mainRoot(doc *goquery.Document) *goquery.Selection {
	main := doc.Find(`main, [role="main"]`).First()
	if main.Length() > 0 && strings.TrimSpace(main.Text()) != "" {
		return main
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

func walk(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(spaceRe.ReplaceAllString(n.Data, " "))
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if boilerplate[n.DataAtom] {
			return
		}
	}
	block := n.Type == html.ElementNode && blocks[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// Meta returns the content of the first meta tag whose name or property is key.
func Meta(doc *goquery.Document, key string) string {
	sel := doc.Find(`meta[name="` + key + `"], meta[property="` + key + `"]`).First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}
