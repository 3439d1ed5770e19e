package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

// Name shapes are matched case-sensitively inside otherwise case-insensitive
// patterns, so "founded by john and" is not read as a person.
const (
	capWord     = `(?-i:[A-Z][a-z]+)`
	personName  = capWord + ` ` + capWord
	personNames = `(` + personName + `(?:(?:,? and |, )` + personName + `)*)`
	orgName     = `(` + capWord + `(?:\s` + capWord + `)*)`

	foundingVerbs = `(?:founded|established|started|launched|created|began|incorporated)`
	months        = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`
	headcount     = `(\d{1,3}(?:,\d{3})+|\d+)`
	amount        = `(?:\$|€|£|¥)?(\d+(?:[.,]\d+)?)\s*(?:million|billion|trillion|m|b|t)\b`

	maxMilestones = 5
)

// historyRule resolves one HistoryFacts field. Patterns are tried in order
// and each pattern scans every paragraph before the next pattern is tried,
// so a high-priority pattern in a late paragraph beats a weaker pattern in
// an early one. The first accepted match is applied and the rule stops.
type historyRule struct {
	name     string
	patterns []*regexp.Regexp
	accept   func(m []string) bool
	apply    func(h *model.HistoryFacts, m []string, paragraph string)
}

func (r historyRule) resolve(h *model.HistoryFacts, paragraphs []string) bool {
	for _, re := range r.patterns {
		for _, p := range paragraphs {
			m := re.FindStringSubmatch(p)
			if m == nil || (r.accept != nil && !r.accept(m)) {
				continue
			}
			r.apply(h, m, p)
			return true
		}
	}
	return false
}

var foundingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + foundingVerbs + `(?:\s+\w+){0,3}\s+in\s+(\d{4})`),
	regexp.MustCompile(`(?i)` + foundingVerbs + `(?:\s+\w+){0,3}\s+in\s+` + months + `\s+(\d{4})`),
	// Third slot is the company-name pattern, built per call.
	regexp.MustCompile(`(?i)(?:since|established|founded)\s+in\s+(\d{4})`),
	regexp.MustCompile(`(?i)(?:founded|established|started|created|began)\s+by\s+(?:` + capWord + `\s+)+in\s+(\d{4})`),
	regexp.MustCompile(`(?i)(?:founded|established|started|created|began|incorporated):\s*(\d{4})`),
}

func foundingRule(companyName string) historyRule {
	patterns := append([]*regexp.Regexp{}, foundingPatterns[:2]...)
	if companyName != "" {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(companyName)+
			`\s+(?:(?:was|were)\s+)?`+foundingVerbs+`(?:\s+\w+){0,3}\s+in\s+(\d{4})`))
	}
	patterns = append(patterns, foundingPatterns[2:]...)
	return historyRule{
		name:     "founding_year",
		patterns: patterns,
		apply: func(h *model.HistoryFacts, m []string, p string) {
			h.FoundingYear = m[1]
			h.FoundingContext = p
		},
	}
}

var staticHistoryRules = []historyRule{
	{
		name: "financial_info",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:annual\s+revenue|revenue|sales|turnover)(?:\s+\w+){0,3}\s+(?:(?:of|is|was|reached|exceeded|approximately|about|around|nearly|over)\s+)?` + amount),
			regexp.MustCompile(`(?i)(?:funding|raised|investment|capital|series\s+[a-z])(?:\s+\w+){0,3}\s+(?:(?:of|totaling|totalling|reaching|approximately|about|around|nearly|over)\s+)?` + amount),
			regexp.MustCompile(`(?i)(?:valued|valuation|worth|market\s+cap)(?:\s+\w+){0,3}\s+(?:(?:of|at|approximately|about|around|nearly|over)\s+)?` + amount),
			regexp.MustCompile(`(?i)(?:\$|€|£|¥)(\d+(?:[.,]\d+)?)\s*(?:million|billion|trillion|m|b|t)\b`),
		},
		apply: func(h *model.HistoryFacts, _ []string, p string) { h.FinancialInfo = p },
	},
	{
		name: "employee_count",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:employs|employees|team|staff|workforce)(?:\s+\w+){0,3}\s+(?:(?:of|approximately|about|around|nearly|over|more\s+than)\s+)?` + headcount + `\s+(?:people|employees|members|professionals|individuals|staff)`),
			regexp.MustCompile(`(?i)(?:employs|employees|team|staff|workforce|headcount)(?:\s+\w+){0,3}\s+(?:(?:of|approximately|about|around|nearly|over|more\s+than)\s+)?` + headcount + `\b`),
			regexp.MustCompile(`(?i)(?:company\s+size|size|headcount)(?:\s*:)?\s*(\d{1,3}(?:,\d{3})*\s*-\s*\d{1,3}(?:,\d{3})*)`),
			regexp.MustCompile(`(?i)(?:company\s+size|size|headcount)(?:\s*:)?\s*(\d{1,3}(?:,\d{3})*\+?)`),
		},
		apply: func(h *model.HistoryFacts, m []string, p string) {
			h.EmployeeCount = m[1]
			h.EmployeeContext = p
		},
	},
	{
		name: "founders",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:founded|established|started|created|began)\s+by\s+` + personNames),
			regexp.MustCompile(`(?i)(?:co-founder|founder|creator)s?\s+(?:is|are|was|were)\s+` + personNames),
			regexp.MustCompile(`(?i)(?:co-founder|founder|creator)s?\s*[:-]?\s*` + personNames),
		},
		apply: func(h *model.HistoryFacts, m []string, p string) {
			h.Founders = strings.TrimSpace(m[1])
			h.FounderContext = p
		},
	},
	{
		name: "acquisition_info",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:acquired|purchased|bought|taken\s+over)\s+by\s+` + orgName + `(?:\s+\w+){0,5}\s+in\s+(\d{4})`),
			regexp.MustCompile(`(?i)(?:acquisition|purchase|takeover|merger)(?:\s+\w+){0,3}\s+by\s+` + orgName),
			regexp.MustCompile(`(?i)(?:acquired|purchased|bought|takeover|acquisition)\s+(?:of|by)\s+` + orgName),
		},
		apply: func(h *model.HistoryFacts, _ []string, p string) { h.AcquisitionInfo = p },
	},
	{
		name: "industry",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:industry|sector)(?:\s*:)?\s*([A-Za-z, &]+)`),
			regexp.MustCompile(`(?i)(?:specializes\s+in|specializes|focuses\s+on)(?:\s+the)?\s+([A-Za-z, &]+)\s+(?:industry|sector)`),
			regexp.MustCompile(`(?i)(?:leading|top)(?:\s+the)?\s+([A-Za-z, &]+)\s+(?:industry|sector|market)`),
		},
		accept: func(m []string) bool {
			n := utf8.RuneCountInString(strings.TrimSpace(m[1]))
			return n > 5 && n < 100
		},
		apply: func(h *model.HistoryFacts, m []string, _ string) { h.Industry = strings.TrimSpace(m[1]) },
	},
}

var milestonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b((?:1[89]|20)\d{2})\s*[-–:]\s*([^.\n]+)`),
	regexp.MustCompile(`(?i)\b(?:in|since)\s+((?:1[89]|20)\d{2}),?\s+([^.\n]+)`),
}

// History resolves every HistoryFacts field from the page paragraphs.
// companyName feeds the "<name> was founded in" pattern.
func History(paragraphs []string, companyName string) model.HistoryFacts {
	var h model.HistoryFacts
	rules := append([]historyRule{foundingRule(companyName)}, staticHistoryRules...)
	for _, r := range rules {
		if r.resolve(&h, paragraphs) {
			zap.L().Debug("extract: history field resolved", zap.String("field", r.name))
		}
	}
	h.Milestones = Milestones(paragraphs)
	return h
}

// Milestones collects every "<year>: <event>" statement across paragraphs,
// deduplicated, keeping at most five.
func Milestones(paragraphs []string) []string {
	seen := model.NewOrderedSet()
	for _, re := range milestonePatterns {
		for _, p := range paragraphs {
			for _, m := range re.FindAllStringSubmatch(p, -1) {
				event := htmltext.Clean(m[2])
				if event == "" {
					continue
				}
				seen.Add(m[1] + ": " + event)
			}
		}
	}
	out := seen.Values()
	if len(out) > maxMilestones {
		out = out[:maxMilestones]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
