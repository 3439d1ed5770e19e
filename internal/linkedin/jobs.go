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
	jobCountRe    = regexp.MustCompile(`(?i)(\d+)\s*(?:open\s*)?jobs?`)
	jobLocationRe = regexp.MustCompile(`(?i)\b(?:remote|united states|usa|uk|canada|australia|india|germany|france)\b|\w+,\s*\w+`)
	jobDateRe     = regexp.MustCompile(`(?i)(posted|ago|day|week|month)`)
	noJobsRe      = regexp.MustCompile(`(?i)no jobs|no open positions|no current job`)
	jobMentionRe  = regexp.MustCompile(`(?i)job|position|hiring`)
	jobActionRe   = regexp.MustCompile(`(?i)apply|location`)

	jobCardClasses = []string{"job-card", "job-listing", "job-result", "jobs-job-card", "job-item"}
)

// ParseJobs reads listings from an unwalled /jobs page. The block always has
// at least one entry: an explanatory one when no listing could be read.
func ParseJobs(doc *goquery.Document) *model.JobsBlock {
	containers := htmltext.WithClass(doc.Selection, "li, div", jobCardClasses...)
	if containers.Length() == 0 {
		containers = htmltext.WithClass(doc.Selection, "h3, h4", "job-title")
	}
	if containers.Length() == 0 {
		containers = htmltext.WithClass(doc.Selection, "li, div, section", "card", "item").
			FilterFunction(func(_ int, s *goquery.Selection) bool {
				text := s.Text()
				return jobMentionRe.MatchString(text) && jobActionRe.MatchString(text)
			})
	}

	jobs := []model.Job{}
	seen := map[model.Job]bool{}
	containers.Each(func(_ int, c *goquery.Selection) {
		job, ok := readJob(c)
		if !ok || seen[job] {
			return
		}
		seen[job] = true
		jobs = append(jobs, job)
	})

	block := &model.JobsBlock{Count: model.Known(len(jobs)), Jobs: jobs}
	if n, ok := ownStringCount(doc, []*regexp.Regexp{jobCountRe}); ok {
		block.Count = model.Known(n)
	}
	if len(jobs) == 0 {
		if noJobsRe.MatchString(doc.Text()) {
			block.Jobs = []model.Job{{
				Title:      "This company has no job openings on LinkedIn at this time.",
				Location:   "N/A",
				DatePosted: "N/A",
			}}
		} else {
			block.Jobs = []model.Job{{
				Title:      "Unable to extract job listings due to LinkedIn's page structure.",
				Location:   "Unknown",
				DatePosted: "Recently",
			}}
		}
	}
	return block
}

// readJob reads one listing. Heading containers take their sub-fields from
// the elements that follow them; card containers from their descendants.
func readJob(c *goquery.Selection) (model.Job, bool) {
	heading := c.Is("h3, h4")

	var title string
	switch {
	case heading:
		title = htmltext.InnerText(c)
	default:
		el := htmltext.WithClass(c, "h3, h4, a, span", "job-title", "title", "position-title").First()
		if el.Length() == 0 {
			el = c.Find("h3, h4, h5, strong").First()
		}
		title = htmltext.InnerText(el)
	}
	if utf8.RuneCountInString(title) <= 3 {
		return model.Job{}, false
	}

	job := model.Job{Title: title}
	job.Location = jobField(c, heading, []string{"span", "div"}, jobLocationRe)
	job.DatePosted = jobField(c, heading, []string{"span", "div", "time"}, jobDateRe)
	return job, true
}

func jobField(c *goquery.Selection, heading bool, tags []string, re *regexp.Regexp) string {
	if !heading {
		if el := htmltext.FindOwn(c, strings.Join(tags, ", "), re); el.Length() > 0 {
			return htmltext.InnerText(el)
		}
	}
	el := htmltext.Next(c, tags, func(s *goquery.Selection) bool {
		return htmltext.OwnStringMatches(s, re)
	})
	return htmltext.InnerText(el)
}

func jobsWall() *model.JobsBlock {
	return &model.JobsBlock{
		Count: model.Unknown(model.SentinelLoginRequired),
		Jobs: []model.Job{{
			Title:      "Login Required to View Jobs",
			Location:   "LinkedIn authentication needed",
			DatePosted: "Unknown",
		}},
		AuthenticationRequired: true,
		AuthenticationStatus:   AuthStatus,
	}
}

func jobsFailure(reason string) *model.JobsBlock {
	return &model.JobsBlock{
		Count: model.Failed(model.SentinelError),
		Jobs: []model.Job{{
			Title:      "Error: " + reason,
			Location:   "Error retrieving jobs",
			DatePosted: "Error",
		}},
		Error: reason,
	}
}
