package linkedin

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

var (
	employeeCountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+[,\d]*)\s*(?:employees?|people)`),
		regexp.MustCompile(`(?i)company size:?\s*(\d+[,\d]*)`),
		regexp.MustCompile(`(?i)team size:?\s*(\d+[,\d]*)`),
		regexp.MustCompile(`(?i)([\d,]+)\s*followers`),
	}

	sizeBands            = `(1-10|11-50|51-200|201-500|501-1000|1001-5000|5001-10000|10001\+)`
	employeeRangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + sizeBands + `\s*employees`),
		regexp.MustCompile(`(?i)company size:?\s*` + sizeBands),
		regexp.MustCompile(`(?i)employees:?\s*` + sizeBands),
	}
	companySizeHeadingRe = regexp.MustCompile(`(?i)company size`)

	leaderTitleRe  = regexp.MustCompile(`(?i)(CEO|Chief|Director|VP|Head of|President|Founder)`)
	locationWordRe = regexp.MustCompile(`(?i)\b(united states|usa|uk|canada|australia|india|germany|france)\b`)
	departmentRe   = regexp.MustCompile(`(?i)\b(engineering|sales|marketing|hr|finance|operations|product|design|research|development)\b`)
	percentageRe   = regexp.MustCompile(`\d+[.\d]*\s*%`)

	leaderTerms = []string{
		"ceo", "cto", "cfo", "chief", "director", "vp", "vice president",
		"head of", "president", "founder", "co-founder", "owner", "partner",
	}
	personCardClasses  = []string{"person-card", "profile-card", "employee-card", "people-card"}
	teamSectionClasses = []string{"leadership", "employees", "people", "staff"}
	leaderSectionClass = []string{"leadership", "key-people", "company-leaders", "executives"}
)

// ParsePeople reads an unwalled /people page.
func ParsePeople(doc *goquery.Document) *model.PeopleBlock {
	block := &model.PeopleBlock{
		EmployeeCount: employeeCount(doc),
		Leaders:       []model.Person{},
		Departments:   []model.DepartmentShare{},
		Locations:     []model.LocationShare{},
	}

	leaders := newPeople()
	employees := newPeople()

	cards := htmltext.WithClass(doc.Selection, "div, li, section", personCardClasses...)
	if cards.Length() == 0 {
		cards = htmltext.WithClass(doc.Selection, "div, section, ul", teamSectionClasses...).
			Find("div, li").FilterFunction(func(_ int, s *goquery.Selection) bool {
				return htmltext.ClassContains(s, "card", "item")
			})
	}
	cards.Each(func(_ int, card *goquery.Selection) {
		p, ok := readPerson(card)
		if !ok {
			return
		}
		if isLeader(p.Title) || isLeader(card.Text()) {
			leaders.add(p)
		} else {
			employees.add(p)
		}
	})

	if cards.Length() == 0 {
		leadersWithoutCards(doc, leaders)
	}

	block.Leaders = leaders.list
	if len(employees.list) > 0 {
		block.Employees = employees.list
	}
	block.Locations = locationShares(doc)
	block.Departments = departmentShares(doc)
	return block
}

func employeeCount(doc *goquery.Document) model.Count {
	text := htmltext.Clean(doc.Text())
	if n, ok := countFromText(text); ok {
		return model.Known(n)
	}
	for _, re := range employeeRangePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return model.Range(m[1])
		}
	}
	heading := doc.Find("h1, h2, h3, h4, dt, span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return htmltext.OwnStringMatches(s, companySizeHeadingRe)
	}).First()
	if heading.Length() > 0 {
		el := htmltext.Next(heading, []string{"p", "div", "span"}, nil)
		if t := htmltext.Clean(el.Text()); t != "" && utf8.RuneCountInString(t) < 50 {
			return model.ParseCount(t)
		}
	}
	return model.Known(0)
}

// textEmployeeCount reads a numeric headcount from the page text.
func textEmployeeCount(doc *goquery.Document) (int, bool) {
	return countFromText(htmltext.Clean(doc.Text()))
}

func countFromText(text string) (int, bool) {
	for _, re := range employeeCountPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, ok := atoiCommas(m[1]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func readPerson(card *goquery.Selection) (model.Person, bool) {
	nameEl := htmltext.WithClass(card, "h3, h4, a, span", "person-name", "name", "profile-name").First()
	if nameEl.Length() == 0 {
		nameEl = card.Find("h3, h4, h5").First()
	}
	name := htmltext.Clean(nameEl.Text())
	if name == "" {
		return model.Person{}, false
	}

	titleEl := htmltext.WithClass(card, "span, div, p", "person-title", "title", "position", "role").First()
	if titleEl.Length() == 0 {
		titleEl = htmltext.Next(nameEl, []string{"p", "span", "div"}, nil)
	}
	return model.Person{Name: name, Title: htmltext.Clean(titleEl.Text())}, true
}

// leadersWithoutCards covers pages that list leaders without person cards:
// a dedicated leadership section, else any element whose own text reads
// like an executive title.
func leadersWithoutCards(doc *goquery.Document, leaders *people) {
	section := htmltext.WithClass(doc.Selection, "div, section", leaderSectionClass...).First()
	if section.Length() > 0 {
		htmltext.WithClass(section, "h3, h4, a, span, div", "name").Each(func(_ int, el *goquery.Selection) {
			name := htmltext.Clean(el.Text())
			if name == "" {
				return
			}
			title := htmltext.Next(el, []string{"div", "span"}, func(s *goquery.Selection) bool {
				return htmltext.ClassContains(s, "title", "position", "role")
			})
			leaders.add(model.Person{Name: name, Title: htmltext.Clean(title.Text())})
		})
		if len(leaders.list) > 0 {
			return
		}
	}

	doc.Find("div, span").Each(func(_ int, el *goquery.Selection) {
		title, ok := htmltext.OwnString(el.Nodes[0])
		if !ok || !leaderTitleRe.MatchString(title) {
			return
		}
		nameEl := htmltext.Prev(el, []string{"h3", "h4", "a", "div", "span"}, func(s *goquery.Selection) bool {
			return htmltext.ClassContains(s, "name")
		})
		if name := htmltext.Clean(nameEl.Text()); name != "" {
			leaders.add(model.Person{Name: name, Title: htmltext.Clean(title)})
		}
	})
}

func isLeader(text string) bool {
	return containsAny(strings.ToLower(text), leaderTerms)
}

// people is a name-deduplicated list in first-seen order.
type people struct {
	list []model.Person
	seen map[string]bool
}

func newPeople() *people {
	return &people{list: []model.Person{}, seen: map[string]bool{}}
}

func (p *people) add(person model.Person) {
	if p.seen[person.Name] {
		return
	}
	p.seen[person.Name] = true
	p.list = append(p.list, person)
}

// shares pairs each element whose own text matches re with the percentage
// in the next span or div. Labels repeat at most once, in first-seen order.
func shares(doc *goquery.Document, re *regexp.Regexp, add func(label, pct string)) {
	seen := map[string]bool{}
	doc.Find("div, span, li, p").Each(func(_ int, el *goquery.Selection) {
		own, ok := htmltext.OwnString(el.Nodes[0])
		if !ok {
			return
		}
		m := re.FindStringSubmatch(own)
		if m == nil {
			return
		}
		label := htmltext.Clean(own)
		if seen[label] {
			return
		}
		pctEl := htmltext.Next(el, []string{"div", "span"}, func(s *goquery.Selection) bool {
			return htmltext.OwnStringMatches(s, percentageRe)
		})
		if pctEl.Length() == 0 {
			return
		}
		seen[label] = true
		own, _ = htmltext.OwnString(pctEl.Nodes[0])
		add(label, percentageRe.FindString(own))
	})
}

func locationShares(doc *goquery.Document) []model.LocationShare {
	out := []model.LocationShare{}
	shares(doc, locationWordRe, func(label, pct string) {
		out = append(out, model.LocationShare{Location: label, Percentage: pct})
	})
	return out
}

func departmentShares(doc *goquery.Document) []model.DepartmentShare {
	out := []model.DepartmentShare{}
	shares(doc, departmentRe, func(label, pct string) {
		out = append(out, model.DepartmentShare{Department: label, Percentage: pct})
	})
	return out
}

func peopleWall() *model.PeopleBlock {
	return &model.PeopleBlock{
		EmployeeCount: model.Unknown(model.SentinelLoginRequired),
		Leaders: []model.Person{{
			Name:  "LinkedIn Authentication Required",
			Title: "Login needed to view leadership team",
		}},
		Departments:            []model.DepartmentShare{},
		Locations:              []model.LocationShare{},
		AuthenticationRequired: true,
		AuthenticationStatus:   AuthStatus,
	}
}

func peopleFailure(reason string) *model.PeopleBlock {
	return &model.PeopleBlock{
		EmployeeCount: model.Failed(model.SentinelError),
		Leaders: []model.Person{{
			Name:  "Error retrieving data",
			Title: "Error: " + reason,
		}},
		Departments: []model.DepartmentShare{},
		Locations:   []model.LocationShare{},
		Error:       reason,
	}
}
