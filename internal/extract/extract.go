// Package extract derives structured company facts from an arbitrary web page
// using layered pattern heuristics. Nothing in this package fails: a fact that
// cannot be found is simply left empty.
package extract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

// Page is a fetched HTML page prepared for extraction.
type Page struct {
	URL             string
	Raw             string
	Doc             *goquery.Document
	Text            string // readable body, one block per line
	MetaDescription string
}

// NewPage parses raw HTML fetched from pageURL.
func NewPage(raw, pageURL string) (*Page, error) {
	doc, err := htmltext.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Page{
		URL:             pageURL,
		Raw:             raw,
		Doc:             doc,
		Text:            htmltext.MainText(doc),
		MetaDescription: htmltext.Meta(doc, "description"),
	}, nil
}

// Paragraphs returns the cleaned, non-empty lines of the readable body.
func (p *Page) Paragraphs() []string {
	return htmltext.Paragraphs(p.Text)
}

// CompanyFacts extracts a CompanyRecord from html fetched from pageURL.
func CompanyFacts(html, pageURL string) model.CompanyRecord {
	page, err := NewPage(html, pageURL)
	if err != nil {
		zap.L().Debug("extract: unparseable page", zap.String("url", pageURL), zap.Error(err))
		host := hostOf(pageURL)
		rec := emptyRecord(pageURL, host)
		rec.CompanyName = fallbackName(host)
		return rec
	}
	return FromPage(page)
}

// FromPage runs every generic extractor over page.
func FromPage(page *Page) model.CompanyRecord {
	host := hostOf(page.URL)
	rec := emptyRecord(page.URL, host)
	paragraphs := page.Paragraphs()

	rec.CompanyName = CompanyName(page.Doc, host)
	rec.Contact = Contacts(page.Text + " " + page.MetaDescription + " " + page.Raw)
	rec.Services, rec.Products = Offerings(paragraphs)
	rec.History = History(paragraphs, rec.CompanyName)
	rec.Description = Description(page.Doc, page.MetaDescription)
	rec.Keywords = Keywords(page.Doc)

	zap.L().Debug("extract: company facts",
		zap.String("url", page.URL),
		zap.String("company", rec.CompanyName),
		zap.Int("emails", rec.Contact.Emails.Len()),
		zap.Int("phones", rec.Contact.Phones.Len()),
		zap.Int("services", len(rec.Services)),
		zap.Int("products", len(rec.Products)),
	)
	return rec
}

func emptyRecord(pageURL, host string) model.CompanyRecord {
	return model.CompanyRecord{
		SourceURL: pageURL,
		Domain:    host,
		Contact:   model.NewContact(),
		Services:  []string{},
		Products:  []string{},
		Keywords:  []string{},
	}
}

// hostOf returns the network location of rawURL, port included.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
