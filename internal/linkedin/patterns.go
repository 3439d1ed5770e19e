package linkedin

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

const (
	amount        = `(?:\$|€|£|¥)?(\d+(?:[.,]\d+)?)\s*(?:million|billion|trillion|[mbt])\b`
	maxMilestones = 5
)

// textRule fills one profile field from the page text. Patterns are tried
// in order against the whole text and the first accepted match wins.
type textRule struct {
	patterns []*regexp.Regexp
	accept   func(group string) bool
	apply    func(p *model.LinkedInProfile, text string, m []int)
}

func (r textRule) resolve(p *model.LinkedInProfile, text string) {
	for _, re := range r.patterns {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		if r.accept != nil && !r.accept(text[m[2]:m[3]]) {
			continue
		}
		r.apply(p, text, m)
		return
	}
}

func lengthBetween(lo, hi int) func(string) bool {
	return func(s string) bool {
		n := utf8.RuneCountInString(strings.TrimSpace(s))
		return n > lo && n < hi
	}
}

func group(text string, m []int) string {
	return strings.TrimSpace(text[m[2]:m[3]])
}

// surrounding returns the match widened by n characters on each side.
func surrounding(text string, m []int, n int) string {
	start, end := m[0], m[1]
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	for i := 0; i < n && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return htmltext.Clean(text[start:end])
}

var specialtySplitRe = regexp.MustCompile(`,\s*|\s+and\s+`)

var textRules = []textRule{
	{ // company size
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:company\s+size|size|employees)(?:\s*:)?\s*(\d{1,3}(?:,\d{3})*(?:\s*-\s*\d{1,3}(?:,\d{3})*|\+))`),
			regexp.MustCompile(`(?i)(?:company\s+size|size|employees)(?:\s*:)?\s*(\d+(?:,\d+)*(?:\s*to\s*\d+(?:,\d+)*|\+)?)`),
			regexp.MustCompile(`(?i)(\d+(?:,\d+)*(?:\s*-\s*\d+(?:,\d+)*|\+))\s+employees`),
		},
		apply: func(p *model.LinkedInProfile, text string, m []int) { p.CompanySize = group(text, m) },
	},
	{ // founded
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:founded|established)(?:\s*:)?\s*(\d{4})`),
			regexp.MustCompile(`(?i)(?:founded|established)(?:\s+in)?\s+(\d{4})`),
			regexp.MustCompile(`(?i)(?:since|founded|established)\s+(\d{4})`),
			regexp.MustCompile(`(?i)founded(?:\s*:)?\s*(\w+\s+\d{4})`),
		},
		apply: func(p *model.LinkedInProfile, text string, m []int) {
			p.Founded = group(text, m)
			p.FoundingContext = surrounding(text, m, 50)
		},
	},
	{ // industry
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:industry|sector)(?:\s*:)?\s*([A-Za-z0-9, &/]+)`),
			regexp.MustCompile(`(?i)(?:industry|sector)(?:\s*:)?\s*([^.\n]+)`),
			regexp.MustCompile(`(?i)in\s+the\s+([A-Za-z, &]+)(?:\s+industry|sector)`),
		},
		accept: lengthBetween(5, 100),
		apply:  func(p *model.LinkedInProfile, text string, m []int) { p.Industry = group(text, m) },
	},
	{ // headquarters
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:headquarters|location|based\s+in)(?:\s*:)?\s*([A-Za-z0-9, ]+)`),
			regexp.MustCompile(`(?i)(?:headquartered|located)\s+in\s+([A-Za-z0-9, ]+)`),
			regexp.MustCompile(`(?i)(?:HQ|main\s+office)(?:\s*:)?\s+([A-Za-z0-9, ]+)`),
		},
		accept: lengthBetween(3, 100),
		apply:  func(p *model.LinkedInProfile, text string, m []int) { p.Headquarters = group(text, m) },
	},
	{ // specialties
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)specialties(?:\s*:)?\s*([^.\n]+)`),
			regexp.MustCompile(`(?i)specializing\s+in\s+([^.\n]+)`),
			regexp.MustCompile(`(?i)expertise(?:\s+in)?(?:\s*:)?\s*([^.\n]+)`),
		},
		apply: func(p *model.LinkedInProfile, text string, m []int) {
			var out []string
			for _, s := range specialtySplitRe.Split(text[m[2]:m[3]], -1) {
				if s = strings.TrimSpace(s); utf8.RuneCountInString(s) > 3 {
					out = append(out, s)
				}
			}
			p.Specialties = out
		},
	},
	{ // funding
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:funding|raised|investment|capital|series\s+[a-z])(?:\s+\w+){0,3}\s+(?:(?:of|totaling|totalling|reaching|approximately|about|around|nearly|over)\s+)?` + amount),
			regexp.MustCompile(`(?i)(?:funding|raised|investment|capital)(?:\s+of)?\s+(?:\$|€|£|¥)(\d+(?:[.,]\d+)?)\s*(?:million|billion|trillion|[mbt])\b`),
			regexp.MustCompile(`(?i)series\s+[a-z](?:\s+funding)?\s+(?:of\s+)?` + amount),
			regexp.MustCompile(`(?i)(?:valuation|valued\s+at)\s+` + amount),
		},
		apply: func(p *model.LinkedInProfile, text string, m []int) { p.Funding = surrounding(text, m, 100) },
	},
	{ // revenue
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:revenue|sales|turnover)(?:\s+\w+){0,3}\s+(?:(?:of|is|was|reached|exceeded|approximately|about|around|nearly|over)\s+)?` + amount),
			regexp.MustCompile(`(?i)annual\s+(?:revenue|sales)\s+(?:of\s+)?` + amount),
		},
		apply: func(p *model.LinkedInProfile, text string, m []int) { p.Revenue = surrounding(text, m, 100) },
	},
}

var timelinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d{4})\s*[-–:]\s*([^.;\n]+)`),
	regexp.MustCompile(`(?i)\b(?:in|since)\s+(\d{4}),?\s+([^.;\n]+)`),
}

// applyTextRules fills every text-derived field of p from text.
func applyTextRules(p *model.LinkedInProfile, text string) {
	for _, r := range textRules {
		r.resolve(p, text)
	}
	p.Milestones = timeline(text)
}

func timeline(text string) []string {
	var out []string
	for _, re := range timelinePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			event := strings.TrimSpace(m[2])
			if utf8.RuneCountInString(event) > 10 {
				out = append(out, m[1]+": "+event)
			}
		}
	}
	if len(out) > maxMilestones {
		out = out[:maxMilestones]
	}
	return out
}
