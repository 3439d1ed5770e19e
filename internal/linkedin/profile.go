package linkedin

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

const minOverviewLen = 50

var (
	followerUnitRe  = regexp.MustCompile(`(?i)([\d,.]+\s*(?:followers|connections|people|professionals))`)
	followerShortRe = regexp.MustCompile(`([\d,.]+[KMB]?\+?)`)
	aboutHeadingRe  = regexp.MustCompile(`About|Overview|Company`)
	overviewWordRe  = regexp.MustCompile(`Overview`)

	overviewSkip = []string{"show more", "read more", "see all", "follow"}
)

var categoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)((?:SME|B2B|B2C|Enterprise)\s+(?:Focused|Specialized|Oriented|Centric))(?:\s*[:-]\s*|\s+)([A-Za-z0-9 &]+)`),
	regexp.MustCompile(`(?i)([A-Za-z]+\s+Agency|[A-Za-z]+\s+Service|[A-Za-z]+\s+Consultancy)(?:\s*[:-]\s*|\s+)([A-Za-z0-9 &]+)`),
	regexp.MustCompile(`(?i)(Select\s+[A-Za-z]+\s+[A-Za-z]+)(?:\s*[:-]\s*|\s+)([A-Za-z0-9 &]+)`),
}

// ExtractProfile reads the company profile from a LinkedIn page. text is the
// readable body of the page. It returns nil for URLs that are not company,
// school or member pages. Behind a login wall only the text-derived fields
// are filled and AuthenticationRequired is set.
func ExtractProfile(doc *goquery.Document, pageURL, text string) *model.LinkedInProfile {
	if !IsProfileURL(pageURL) {
		return nil
	}
	log := zap.L().With(zap.String("component", "linkedin"), zap.String("url", pageURL))
	p := &model.LinkedInProfile{}

	raw, err := doc.Html()
	if err != nil {
		log.Warn("linkedin: render page html", zap.Error(err))
	}
	if IsLoginWall(raw, doc) {
		log.Warn("linkedin: login wall on profile page")
		p.AuthenticationRequired = true
		applyTextRules(p, text)
		return p
	}

	p.CompanyName = profileName(doc)
	p.FollowerCount = followerCount(doc)

	heading := doc.Find("h1, h2, h3").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return htmltext.OwnStringMatches(s, overviewWordRe)
	}).First()
	if heading.Length() > 0 {
		p.BusinessCategories = businessCategories(heading.Parent().Text())
	}

	sections := overviewCandidates(doc, heading)
	if len(sections) > 0 {
		p.Overview = longest(sections)
		if len(sections) > 1 {
			p.AllAboutSections = sections
		}
	}

	applyTextRules(p, text)
	p.Website = htmltext.WithClass(doc.Selection, "a",
		"org-about-us-company-module__website", "top-card-link", "website").First().AttrOr("href", "")
	applyCards(p, doc)

	log.Info("linkedin: profile extracted",
		zap.String("company", p.CompanyName),
		zap.Int("overview_len", utf8.RuneCountInString(p.Overview)),
	)
	return p
}

func profileName(doc *goquery.Document) string {
	h1 := htmltext.WithClass(doc.Selection, "h1",
		"org-top-card-summary__title", "top-card-layout__title", "artdeco-entity-lockup__title").First()
	if h1.Length() == 0 {
		h1 = doc.Find("h1").First()
	}
	return strings.TrimSpace(h1.Text())
}

func followerCount(doc *goquery.Document) string {
	el := htmltext.WithClass(doc.Selection, "div, span",
		"org-top-card-summary__follower-count", "top-card-layout__entity-info", "follower-count").First()
	if el.Length() == 0 {
		return ""
	}
	text := strings.TrimSpace(el.Text())
	if m := followerUnitRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := followerShortRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// businessCategories reads "<kind> - <detail>" pairs near the overview heading.
// Patterns are tried in order and the last one that matches supplies every
// category.
func businessCategories(text string) []string {
	var out []string
	for _, re := range categoryPatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		out = make([]string, 0, len(matches))
		for _, m := range matches {
			out = append(out, strings.TrimSpace(m[1]+" - "+m[2]))
		}
	}
	return out
}

// overviewCandidates gathers every block that might hold the company
// description, cleaned, deduplicated and at least 50 characters long.
func overviewCandidates(doc *goquery.Document, heading *goquery.Selection) []string {
	var pool []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			pool = append(pool, s)
		}
	}

	if heading.Length() > 0 {
		for _, s := range fromOverviewHeading(heading) {
			add(s)
		}
	}

	add(doc.Find("section").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return htmltext.ClassContains(s, "artdeco-card") && htmltext.ClassContains(s, "about-us", "about-section")
	}).First().Text())

	add(doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id := s.AttrOr("id", "")
		return strings.Contains(id, "about-us") || strings.Contains(id, "about-section") || strings.Contains(id, "overview")
	}).First().Text())

	htmltext.WithClass(doc.Selection, "div", "about-us", "description", "about-section", "overview", "company-info").
		Each(func(_ int, s *goquery.Selection) { add(s.Text()) })

	doc.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
		if !htmltext.OwnStringMatches(h, aboutHeadingRe) {
			return
		}
		parent := h
		for range 3 {
			parent = parent.Parent()
			if parent.Length() == 0 {
				return
			}
			if parent.Is("section, div") {
				add(parent.Text())
				return
			}
		}
	})

	for _, section := range append([]string(nil), pool...) {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if rest, ok := strings.CutPrefix(line, "About"); ok {
				if rest = strings.TrimSpace(rest); utf8.RuneCountInString(rest) > minOverviewLen {
					add(rest)
				}
			}
		}
	}

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(t) > 100 && strings.Count(t, ".") > 2 {
			add(t)
		}
	})

	add(htmltext.Meta(doc, "description"))

	seen := model.NewOrderedSet()
	for _, s := range pool {
		if c := htmltext.Clean(s); utf8.RuneCountInString(c) >= minOverviewLen {
			seen.Add(c)
		}
	}
	return seen.Values()
}

// fromOverviewHeading reads the blocks around an "Overview" heading: the
// enclosing section's paragraphs, the next sibling and the grandparent's
// non-heading children.
func fromOverviewHeading(heading *goquery.Selection) []string {
	var out []string

	container := heading.Parent()
	for container.Length() > 0 && !container.Is("section, div, main, article") {
		container = container.Parent()
	}
	if container.Length() > 0 {
		var paras []string
		container.Find("p, div").Each(func(_ int, s *goquery.Selection) {
			t := strings.TrimSpace(s.Text())
			if utf8.RuneCountInString(t) > 30 && !containsAny(strings.ToLower(t), overviewSkip) {
				paras = append(paras, t)
			}
		})
		if len(paras) > 0 {
			out = append(out, strings.Join(paras, "\n\n"))
		}
	}

	if sib := heading.Next(); sib.Length() > 0 {
		if t := strings.TrimSpace(sib.Text()); utf8.RuneCountInString(t) > 100 {
			out = append(out, t)
		}
		var paras []string
		sib.Find("p, div").Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); utf8.RuneCountInString(t) > 30 {
				paras = append(paras, t)
			}
		})
		if len(paras) > 0 {
			out = append(out, strings.Join(paras, "\n\n"))
		}
	}

	if gp := heading.Parent().Parent(); gp.Length() > 0 {
		var blocks []string
		gp.Children().Not("h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
			if t := strings.TrimSpace(s.Text()); utf8.RuneCountInString(t) > 50 {
				blocks = append(blocks, t)
			}
		})
		if len(blocks) > 0 {
			out = append(out, strings.Join(blocks, "\n\n"))
		}
	}
	return out
}

// applyCards reads titled profile cards: about-like cards fill an empty
// overview, highlight cards fill highlights.
func applyCards(p *model.LinkedInProfile, doc *goquery.Document) {
	htmltext.WithClass(doc.Selection, "section, div", "artdeco-card", "profile-section").
		Each(func(_ int, s *goquery.Selection) {
			title := s.Find("h2, h3").First()
			if title.Length() == 0 {
				return
			}
			t := strings.ToLower(strings.TrimSpace(title.Text()))
			content := htmltext.Clean(s.Text())
			switch {
			case containsAny(t, []string{"about", "overview", "history", "timeline"}):
				if p.Overview == "" {
					p.Overview = content
				}
			case containsAny(t, []string{"highlight", "achievement", "accomplishment"}):
				p.Highlights = content
			}
		})
}

func longest(ss []string) string {
	best := ""
	for _, s := range ss {
		if utf8.RuneCountInString(s) > utf8.RuneCountInString(best) {
			best = s
		}
	}
	return best
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
