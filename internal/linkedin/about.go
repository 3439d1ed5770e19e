package linkedin

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

const unknownName = "Unknown"

var (
	titlePipeRe     = regexp.MustCompile(`\s*\|.*$`)
	titleLinkedInRe = regexp.MustCompile(`\s*LinkedIn.*$`)
)

// detailTerm maps a dt/h3 label onto an About field. Terms are checked in
// order and the first field whose terms appear in the label wins.
type detailTerm struct {
	terms []string
	set   func(a *model.About, value string)
}

var detailTerms = []detailTerm{
	{[]string{"website", "site", "homepage"}, func(a *model.About, v string) { a.Website = v }},
	{[]string{"industry", "sector"}, func(a *model.About, v string) { a.Industry = v }},
	{[]string{"company size", "employees", "organization size"}, func(a *model.About, v string) { a.CompanySize = v }},
	{[]string{"headquarters", "location", "address"}, func(a *model.About, v string) { a.Headquarters = v }},
	{[]string{"founded", "established"}, func(a *model.About, v string) { a.Founded = v }},
	{[]string{"specialties", "specialisms", "expertise"}, func(a *model.About, v string) {
		parts := strings.Split(v, ",")
		a.Specialties = make([]string, 0, len(parts))
		for _, s := range parts {
			a.Specialties = append(a.Specialties, strings.TrimSpace(s))
		}
	}},
}

// About fetches the company's /about page and reads its summary. An
// unreachable page yields a record explaining the restriction. It returns
// nil when companyURL is not a /company/ page.
func (e *Extractor) About(ctx context.Context, companyURL string) *model.About {
	if !IsCompanyURL(companyURL) {
		return nil
	}
	target := SubPageURL(companyURL, SubPageAbout)
	res, err := e.fetch.Fetch(ctx, target, e.opts)
	if err != nil || !res.Usable() {
		e.log.Warn("linkedin: about page unavailable", zap.String("url", target))
		return &model.About{
			Name:        unknownName,
			Overview:    "Could not access LinkedIn company page due to access restrictions.",
			Specialties: []string{},
		}
	}
	doc, err := htmltext.Parse(res.Body)
	if err != nil {
		e.log.Warn("linkedin: parse about page", zap.String("url", target), zap.Error(err))
		return &model.About{Name: unknownName, Specialties: []string{}}
	}
	a := ExtractAbout(doc)
	e.log.Info("linkedin: about extracted", zap.String("company", a.Name))
	return a
}

// ExtractAbout reads the summary fields of an /about page.
func ExtractAbout(doc *goquery.Document) *model.About {
	a := &model.About{Name: unknownName, Specialties: []string{}}
	titleClasses := []string{"org-top-card-summary__title", "organization-about-top-card__title"}

	for _, el := range []*goquery.Selection{
		htmltext.WithClass(doc.Selection, "h1", titleClasses...).First(),
		htmltext.WithClass(doc.Selection, "span", titleClasses...).First(),
		doc.Find("title").First(),
	} {
		name := strings.TrimSpace(el.Text())
		if name == "" {
			continue
		}
		if el.Is("title") {
			name = titleLinkedInRe.ReplaceAllString(titlePipeRe.ReplaceAllString(name, ""), "")
		}
		a.Name = name
		break
	}

	for _, el := range []*goquery.Selection{
		htmltext.WithClass(doc.Selection, "div, p", "org-about-us-organization-description__text", "organization-about__description").First(),
		doc.Find("div, p").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return htmltext.ClassContains(s, "about-us") && htmltext.ClassContains(s, "description")
		}).First(),
		htmltext.WithClass(doc.Selection, "div, p", "overview").First(),
	} {
		if t := strings.TrimSpace(el.Text()); t != "" {
			a.Overview = t
			break
		}
	}
	if a.Overview == "" {
		a.Overview = htmltext.Meta(doc, "description")
	}

	doc.Find("dt, h3").Each(func(_ int, label *goquery.Selection) {
		value := htmltext.Next(label, []string{"dd", "p"}, nil)
		if value.Length() == 0 {
			return
		}
		l := strings.ToLower(strings.TrimSpace(label.Text()))
		for _, d := range detailTerms {
			if containsAny(l, d.terms) {
				d.set(a, strings.TrimSpace(value.Text()))
				return
			}
		}
	})

	if a.Overview == "" && (a.Industry != "" || a.CompanySize != "") {
		a.Overview = synthesizeOverview(a)
	}
	return a
}

func synthesizeOverview(a *model.About) string {
	var parts []string
	if a.Name != unknownName {
		parts = append(parts, a.Name+" is a company")
	}
	if a.Industry != "" {
		parts = append(parts, "in the "+a.Industry+" industry")
	}
	if a.Headquarters != "" {
		parts = append(parts, "based in "+a.Headquarters)
	}
	if a.Founded != "" {
		parts = append(parts, "founded in "+a.Founded)
	}
	if a.CompanySize != "" {
		parts = append(parts, "with approximately "+a.CompanySize+" employees")
	}
	return strings.Join(parts, " ") + "."
}
