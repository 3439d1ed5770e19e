package linkedin

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/fetcher"
	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

// AuthStatus is reported on every block produced behind the login wall.
const AuthStatus = "LinkedIn's anti-scraping measures are active"

// PageFetcher retrieves one page. *fetcher.Fetcher satisfies it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string, opts fetcher.Options) (*fetcher.Result, error)
}

// Extractor reads posts, jobs, people and the about page of LinkedIn
// companies. Calls are sequential; one Extractor may be shared across
// goroutines when its PageFetcher is.
type Extractor struct {
	fetch PageFetcher
	opts  fetcher.Options
	log   *zap.Logger
}

// NewExtractor returns an Extractor that fetches with opts.
func NewExtractor(f PageFetcher, opts fetcher.Options) *Extractor {
	return &Extractor{
		fetch: f,
		opts:  opts,
		log:   zap.L().With(zap.String("component", "linkedin")),
	}
}

// All extracts posts, jobs and people for a company URL. It returns nil when
// companyURL is not a /company/ page.
func (e *Extractor) All(ctx context.Context, companyURL string) *model.Engagement {
	if !IsCompanyURL(companyURL) {
		return nil
	}
	return &model.Engagement{
		Posts:  e.Posts(ctx, companyURL),
		Jobs:   e.Jobs(ctx, companyURL),
		People: e.People(ctx, companyURL),
	}
}

// Posts extracts the company's recent posts from its /posts page.
func (e *Extractor) Posts(ctx context.Context, companyURL string) (block *model.PostsBlock) {
	if !IsCompanyURL(companyURL) {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("linkedin: posts extraction panicked", zap.String("url", companyURL), zap.Any("panic", r))
			block = postsFailure(fmt.Sprint(r))
		}
	}()

	doc, state := e.subPage(ctx, companyURL, SubPagePosts)
	switch state {
	case pageUnreachable:
		return postsUnreachable()
	case pageWalled:
		block = postsWall()
		if n, found := e.parentCount(ctx, companyURL, func(d *goquery.Document) (int, bool) {
			return ownStringCount(d, postCountPatterns)
		}); found {
			block.Count = model.Known(n)
			block.Posts = []model.Post{{Text: fmt.Sprintf(postsCountKnownText, n), Date: "Recently"}}
		}
		return block
	}
	return ParsePosts(doc)
}

// Jobs extracts open positions from the company's /jobs page.
func (e *Extractor) Jobs(ctx context.Context, companyURL string) (block *model.JobsBlock) {
	if !IsCompanyURL(companyURL) {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("linkedin: jobs extraction panicked", zap.String("url", companyURL), zap.Any("panic", r))
			block = jobsFailure(fmt.Sprint(r))
		}
	}()

	doc, state := e.subPage(ctx, companyURL, SubPageJobs)
	if state != pageOK {
		block = jobsWall()
		if n, found := e.parentCount(ctx, companyURL, func(d *goquery.Document) (int, bool) {
			return ownStringCount(d, []*regexp.Regexp{jobCountRe})
		}); found {
			block.Count = model.Known(n)
			block.Jobs = []model.Job{{
				Title:      fmt.Sprintf("Company has %d job openings", n),
				Location:   "Login to LinkedIn to view details",
				DatePosted: "Recently",
			}}
		}
		return block
	}
	return ParseJobs(doc)
}

// People extracts headcount, leadership and team breakdowns from the
// company's /people page.
func (e *Extractor) People(ctx context.Context, companyURL string) (block *model.PeopleBlock) {
	if !IsCompanyURL(companyURL) {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("linkedin: people extraction panicked", zap.String("url", companyURL), zap.Any("panic", r))
			block = peopleFailure(fmt.Sprint(r))
		}
	}()

	doc, state := e.subPage(ctx, companyURL, SubPagePeople)
	if state != pageOK {
		block = peopleWall()
		if n, found := e.parentCount(ctx, companyURL, textEmployeeCount); found {
			block.EmployeeCount = model.Known(n)
		}
		return block
	}
	return ParsePeople(doc)
}

// pageState is the outcome of a sub-page fetch.
type pageState int

const (
	pageOK pageState = iota
	// pageWalled means LinkedIn answered but withheld the content.
	pageWalled
	// pageUnreachable means nothing came back at all.
	pageUnreachable
)

// subPage fetches the sub page of companyURL. The document is only set when
// the state is pageOK.
func (e *Extractor) subPage(ctx context.Context, companyURL, sub string) (*goquery.Document, pageState) {
	target := SubPageURL(companyURL, sub)
	res, err := e.fetch.Fetch(ctx, target, e.opts)
	if err != nil {
		e.log.Warn("linkedin: fetch failed", zap.String("url", target), zap.Error(err))
		return nil, pageUnreachable
	}
	if !res.HasBody() {
		e.log.Warn("linkedin: sub-page unreachable",
			zap.String("url", target),
			zap.String("reason", string(res.BlockReason)),
		)
		return nil, pageUnreachable
	}
	if !res.Usable() {
		e.log.Info("linkedin: sub-page unavailable",
			zap.String("url", target),
			zap.String("reason", string(res.BlockReason)),
		)
		return nil, pageWalled
	}
	doc, err := htmltext.Parse(res.Body)
	if err != nil {
		e.log.Warn("linkedin: parse failed", zap.String("url", target), zap.Error(err))
		return nil, pageWalled
	}
	if IsLoginWall(res.Body, doc) {
		e.log.Info("linkedin: login wall", zap.String("url", target))
		return nil, pageWalled
	}
	return doc, pageOK
}

// parentCount reads a coarse count from the company's main page with count.
func (e *Extractor) parentCount(ctx context.Context, companyURL string, count func(*goquery.Document) (int, bool)) (int, bool) {
	root := CompanyRoot(companyURL)
	res, err := e.fetch.Fetch(ctx, root, e.opts)
	if err != nil || !res.Usable() {
		e.log.Debug("linkedin: parent page unavailable", zap.String("url", root))
		return 0, false
	}
	doc, err := htmltext.Parse(res.Body)
	if err != nil {
		return 0, false
	}
	return count(doc)
}

// ownStringCount returns the first number captured by patterns, tried in
// order, from the own text of any span or div in doc.
func ownStringCount(doc *goquery.Document, patterns []*regexp.Regexp) (int, bool) {
	els := doc.Find("span, div")
	for _, re := range patterns {
		n, found := 0, false
		els.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			str, ok := htmltext.OwnString(s.Nodes[0])
			if !ok {
				return true
			}
			if m := re.FindStringSubmatch(str); m != nil {
				n, found = atoiCommas(m[1])
			}
			return !found
		})
		if found {
			return n, true
		}
	}
	return 0, false
}

func atoiCommas(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n, err == nil
}
