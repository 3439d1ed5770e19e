// Package scrape ties fetching and extraction together into the operations
// served by the CLI and the HTTP API.
package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/extract"
	"github.com/sells-group/bizintel/internal/fetcher"
	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/linkedin"
	"github.com/sells-group/bizintel/internal/model"
)

const (
	limitedName        = "LinkedIn Data Extraction Limited"
	limitedDescription = "LinkedIn restricts automated data extraction. For best results, try accessing LinkedIn company pages directly and copy the information manually."
	limitedOverview    = "LinkedIn has protection mechanisms against automated scraping. For comprehensive company data from LinkedIn, you may need to access it manually."
)

// InputError reports a URL the service refuses to process.
type InputError struct {
	URL    string
	Reason string
}

func (e *InputError) Error() string {
	if e.URL == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.URL
}

// FindResult is the outcome of locating and scraping a website's LinkedIn page.
type FindResult struct {
	Success     bool                 `json:"success" yaml:"success"`
	WebsiteURL  string               `json:"website_url" yaml:"website_url"`
	Domain      string               `json:"domain" yaml:"domain"`
	LinkedInURL string               `json:"linkedin_url" yaml:"linkedin_url"`
	Data        *model.CompanyRecord `json:"data,omitempty" yaml:"data,omitempty"`
	Message     string               `json:"message,omitempty" yaml:"message,omitempty"`
	Error       string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// Service runs extraction calls against one fetch session.
type Service struct {
	fetch    linkedin.PageFetcher
	linkedin *linkedin.Extractor
	cfg      *config.Config
	liOpts   fetcher.Options
}

// NewService builds a Service on top of f. LinkedIn fetches are tagged as
// authenticated when cfg carries LinkedIn credentials.
func NewService(f linkedin.PageFetcher, cfg *config.Config) *Service {
	liOpts := fetcher.DefaultOptions
	liOpts.SimulateAuth = cfg.LinkedIn.HasCredentials()
	return &Service{
		fetch:    f,
		linkedin: linkedin.NewExtractor(f, liOpts),
		cfg:      cfg,
		liOpts:   liOpts,
	}
}

// NormalizeURL trims raw and prefixes https:// when no scheme is present.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

// Scrape extracts company facts from rawURL. LinkedIn pages are enriched
// with profile and engagement data. It returns nil, nil when the page
// could not be retrieved; errors are reserved for malformed input.
func (s *Service) Scrape(ctx context.Context, rawURL string) (*model.CompanyRecord, error) {
	target, err := s.validate(rawURL)
	if err != nil {
		return nil, err
	}
	log := zap.L().With(zap.String("url", target.String()))
	u := target.String()
	isLinkedIn := fetcher.IsLinkedInHost(target.Hostname())

	opts := fetcher.DefaultOptions
	if isLinkedIn {
		opts = s.liOpts
	}
	res, err := s.fetch.Fetch(ctx, u, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: fetch %s", u)
	}

	if isLinkedIn && !res.Usable() {
		log.Warn("scrape: linkedin page unavailable", zap.String("reason", string(res.BlockReason)))
		rec := linkedInLimited(u, target.Host)
		return &rec, nil
	}
	if !extractable(res) {
		log.Warn("scrape: page unavailable", zap.String("reason", string(res.BlockReason)))
		return nil, nil
	}
	if res.Blocked {
		log.Info("scrape: extracting from partial page", zap.String("reason", string(res.BlockReason)))
	}

	page, err := extract.NewPage(res.Body, u)
	if err != nil {
		log.Warn("scrape: unparseable page", zap.Error(err))
		return nil, nil
	}
	rec := extract.FromPage(page)

	if isLinkedIn {
		s.enrichLinkedIn(ctx, &rec, page)
	}

	log.Info("scrape: complete",
		zap.String("company", rec.CompanyName),
		zap.Bool("linkedin", rec.LinkedIn != nil),
	)
	return &rec, nil
}

func (s *Service) enrichLinkedIn(ctx context.Context, rec *model.CompanyRecord, page *extract.Page) {
	profile := linkedin.ExtractProfile(page.Doc, page.URL, page.Text)
	if profile == nil {
		return
	}
	if linkedin.IsCompanyURL(page.URL) {
		if e := s.linkedin.All(ctx, page.URL); e != nil {
			profile.AttachEngagement(*e)
		}
	}
	if profile.CompanyName != "" {
		rec.CompanyName = profile.CompanyName
	}
	rec.History.MergeLinkedIn(profile)
	rec.LinkedIn = profile
}

// FindLinkedInURL returns the LinkedIn company page linked from a website,
// or "" when none is advertised or the site is unreachable.
func (s *Service) FindLinkedInURL(ctx context.Context, websiteURL string) (string, error) {
	target, err := s.validate(websiteURL)
	if err != nil {
		return "", err
	}
	u := target.String()
	res, err := s.fetch.Fetch(ctx, u, fetcher.DefaultOptions)
	if err != nil {
		return "", eris.Wrapf(err, "scrape: fetch %s", u)
	}
	if !res.HasBody() {
		zap.L().Warn("scrape: website unavailable", zap.String("url", u), zap.String("reason", string(res.BlockReason)))
		return "", nil
	}
	doc, err := htmltext.Parse(res.Body)
	if err != nil {
		return "", nil
	}
	found := linkedin.FindURL(doc)
	if found == "" {
		zap.L().Info("scrape: no linkedin url", zap.String("url", u))
	}
	return found, nil
}

// ExtractAllCompanyData reads the about page, posts, jobs and people of a
// LinkedIn company. Non-company URLs yield an *InputError.
func (s *Service) ExtractAllCompanyData(ctx context.Context, linkedinURL string) (*model.CompanyData, error) {
	canon, err := linkedin.CanonicalCompanyURL(linkedinURL)
	if err != nil {
		return nil, &InputError{URL: linkedinURL, Reason: linkedin.RejectReason(err)}
	}

	data := &model.CompanyData{
		CompanyURL: canon,
		About:      s.linkedin.About(ctx, canon),
	}
	if e := s.linkedin.All(ctx, canon); e != nil {
		data.Posts, data.Jobs, data.People = e.Posts, e.Jobs, e.People
	}
	zap.L().Info("scrape: linkedin company data", zap.String("url", canon))
	return data, nil
}

// FindAndExtract locates the LinkedIn page advertised by a website and
// scrapes it.
func (s *Service) FindAndExtract(ctx context.Context, websiteURL string) *FindResult {
	u := NormalizeURL(websiteURL)
	out := &FindResult{WebsiteURL: u, Domain: hostOf(u)}

	found, err := s.FindLinkedInURL(ctx, u)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	if found == "" {
		out.Message = "No LinkedIn URL found on the website"
		return out
	}
	out.LinkedInURL = found

	rec, err := s.Scrape(ctx, found)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	if rec == nil {
		out.Message = "Failed to extract company data from LinkedIn"
		return out
	}
	out.Success = true
	out.Data = rec
	return out
}

func (s *Service) validate(raw string) (*url.URL, error) {
	u := NormalizeURL(raw)
	if u == "" {
		return nil, &InputError{Reason: "URL is required"}
	}
	target, err := fetcher.ParseTarget(u)
	if err != nil {
		return nil, &InputError{URL: raw, Reason: "invalid URL"}
	}
	return target, nil
}

// extractable reports whether res carries a page worth extracting from:
// a clean fetch, or a rate-limited or forbidden response that still has a body.
func extractable(res *fetcher.Result) bool {
	if res.Usable() {
		return true
	}
	switch res.BlockReason {
	case fetcher.BlockRateLimited, fetcher.BlockForbidden:
		return res.HasBody()
	}
	return false
}

func linkedInLimited(u, host string) model.CompanyRecord {
	return model.CompanyRecord{
		CompanyName: limitedName,
		Description: limitedDescription,
		Contact:     model.NewContact(),
		Services:    []string{},
		Products:    []string{},
		Keywords:    []string{},
		SourceURL:   u,
		Domain:      host,
		LinkedIn:    &model.LinkedInProfile{Overview: limitedOverview},
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
