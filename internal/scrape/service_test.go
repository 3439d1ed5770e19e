package scrape

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/fetcher"
	"github.com/sells-group/bizintel/internal/model"
)

// mockFetcher serves canned results by URL and records every request.
// Unknown URLs fail as network errors.
type mockFetcher struct {
	mu    sync.Mutex
	pages map[string]*fetcher.Result
	calls []string
	opts  []fetcher.Options
}

func (m *mockFetcher) Fetch(_ context.Context, rawURL string, opts fetcher.Options) (*fetcher.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, rawURL)
	m.opts = append(m.opts, opts)
	if r, ok := m.pages[rawURL]; ok {
		return r, nil
	}
	return &fetcher.Result{FinalURL: rawURL, Blocked: true, BlockReason: fetcher.BlockNetworkError}, nil
}

func page(body string) *fetcher.Result {
	return &fetcher.Result{Body: body, StatusCode: 200, BlockReason: fetcher.BlockNone, Via: fetcher.ViaDirect}
}

func testConfig() *config.Config {
	return &config.Config{Batch: config.BatchConfig{MaxURLs: config.MaxBatchURLs, Concurrency: 1}}
}

func newService(pages map[string]*fetcher.Result) (*mockFetcher, *Service) {
	m := &mockFetcher{pages: pages}
	return m, NewService(m, testConfig())
}

const acmeHome = `<html><head><title>Acme</title></head><body>
<h1>Acme</h1>
<p>Acme was founded in 2004 in Detroit.</p>
<footer><a href="https://www.linkedin.com/company/acme/">LinkedIn</a></footer>
</body></html>`

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeURL("example.com"))
	assert.Equal(t, "http://example.com", NormalizeURL("  http://example.com "))
	assert.Equal(t, "", NormalizeURL("   "))
}

func TestScrape_GenericPage(t *testing.T) {
	m, s := newService(map[string]*fetcher.Result{"https://acme.example": page(acmeHome)})

	rec, err := s.Scrape(context.Background(), "acme.example")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, []string{"https://acme.example"}, m.calls)
	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Equal(t, "2004", rec.History.FoundingYear)
	assert.Equal(t, "https://acme.example", rec.SourceURL)
	assert.Nil(t, rec.LinkedIn)
	assert.False(t, m.opts[0].SimulateAuth)
}

func TestScrape_RateLimitedWithBody(t *testing.T) {
	_, s := newService(map[string]*fetcher.Result{
		"https://acme.example": {Body: acmeHome, StatusCode: 429, Blocked: true, BlockReason: fetcher.BlockRateLimited},
	})

	rec, err := s.Scrape(context.Background(), "https://acme.example")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Acme", rec.CompanyName)
}

func TestScrape_UnreachableReturnsNil(t *testing.T) {
	_, s := newService(map[string]*fetcher.Result{
		"https://forbidden.example": {StatusCode: 403, Blocked: true, BlockReason: fetcher.BlockForbidden},
	})

	rec, err := s.Scrape(context.Background(), "https://down.example")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.Scrape(context.Background(), "https://forbidden.example")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestScrape_InvalidInput(t *testing.T) {
	_, s := newService(nil)

	_, err := s.Scrape(context.Background(), "  ")
	var inErr *InputError
	require.True(t, errors.As(err, &inErr))
	assert.Equal(t, "URL is required", inErr.Reason)

	_, err = s.Scrape(context.Background(), "http://")
	require.True(t, errors.As(err, &inErr))
}

func TestScrape_LinkedInUnavailable(t *testing.T) {
	_, s := newService(nil)

	rec, err := s.Scrape(context.Background(), "https://www.linkedin.com/company/acme")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, limitedName, rec.CompanyName)
	assert.Equal(t, limitedDescription, rec.Description)
	assert.Equal(t, "www.linkedin.com", rec.Domain)
	require.NotNil(t, rec.LinkedIn)
	assert.Equal(t, limitedOverview, rec.LinkedIn.Overview)
}

func TestScrape_LinkedInCompanyPage(t *testing.T) {
	const u = "https://www.linkedin.com/company/acme"
	m := &mockFetcher{pages: map[string]*fetcher.Result{
		u: page(`<html><head><title>Acme Robotics | LinkedIn</title></head><body>
<h1 class="top-card-layout__title">Acme Robotics</h1>
<p>Founded: 2004</p>
</body></html>`),
		u + "/posts": {
			Body:        `<a href="/uas/login">Sign in</a>`,
			StatusCode:  200,
			Blocked:     true,
			BlockReason: fetcher.BlockLoginRedirect,
		},
	}}
	s := NewService(m, &config.Config{LinkedIn: config.LinkedInConfig{Email: "a@b.c", Password: "x"}})

	rec, err := s.Scrape(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Acme Robotics", rec.CompanyName)
	assert.Equal(t, "2004", rec.History.FoundingYear)
	require.NotNil(t, rec.LinkedIn)
	assert.Equal(t, "2004", rec.LinkedIn.Founded)

	require.NotNil(t, rec.LinkedIn.Posts)
	assert.True(t, rec.LinkedIn.Posts.AuthenticationRequired)
	require.NotNil(t, rec.LinkedIn.PostCount)
	assert.Equal(t, model.Unknown(model.SentinelLoginRequired), *rec.LinkedIn.PostCount)
	require.NotNil(t, rec.LinkedIn.Jobs)
	assert.NotEmpty(t, rec.LinkedIn.JobOpenings)
	assert.Equal(t, "LinkedIn Authentication Required", rec.LinkedIn.LeadershipTeam[0].Name)

	assert.Contains(t, m.calls, u+"/posts")
	assert.Contains(t, m.calls, u+"/jobs")
	assert.Contains(t, m.calls, u+"/people")
	for _, o := range m.opts {
		assert.True(t, o.SimulateAuth)
	}
}

func TestFindLinkedInURL(t *testing.T) {
	_, s := newService(map[string]*fetcher.Result{
		"https://acme.example":  page(acmeHome),
		"https://plain.example": page(`<p>no links</p>`),
	})

	got, err := s.FindLinkedInURL(context.Background(), "acme.example")
	require.NoError(t, err)
	assert.Equal(t, "https://www.linkedin.com/company/acme", got)

	got, err = s.FindLinkedInURL(context.Background(), "plain.example")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.FindLinkedInURL(context.Background(), "down.example")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractAllCompanyData(t *testing.T) {
	m, s := newService(nil)

	data, err := s.ExtractAllCompanyData(context.Background(), "linkedin.com/company/acme/jobs")
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, "https://linkedin.com/company/acme/", data.CompanyURL)
	assert.Equal(t, "Unknown", data.About.Name)
	assert.True(t, data.Posts.AuthenticationRequired)
	assert.True(t, data.Jobs.AuthenticationRequired)
	assert.True(t, data.People.AuthenticationRequired)
	assert.Equal(t, "https://linkedin.com/company/acme/about", m.calls[0])
}

func TestExtractAllCompanyData_RejectsProfiles(t *testing.T) {
	m, s := newService(nil)

	_, err := s.ExtractAllCompanyData(context.Background(), "https://www.linkedin.com/in/jdoe")
	var inErr *InputError
	require.True(t, errors.As(err, &inErr))
	assert.Equal(t, "This is a LinkedIn personal profile, not a company page", inErr.Reason)

	_, err = s.ExtractAllCompanyData(context.Background(), "https://example.com")
	require.True(t, errors.As(err, &inErr))
	assert.Equal(t, "Not a valid LinkedIn company URL", inErr.Reason)
	assert.Empty(t, m.calls)
}

func TestFindAndExtract(t *testing.T) {
	_, s := newService(map[string]*fetcher.Result{
		"https://acme.example":  page(acmeHome),
		"https://plain.example": page(`<p>no links</p>`),
	})

	r := s.FindAndExtract(context.Background(), "acme.example")
	assert.True(t, r.Success)
	assert.Equal(t, "https://acme.example", r.WebsiteURL)
	assert.Equal(t, "acme.example", r.Domain)
	assert.Equal(t, "https://www.linkedin.com/company/acme", r.LinkedInURL)
	require.NotNil(t, r.Data)
	assert.Equal(t, limitedName, r.Data.CompanyName)

	r = s.FindAndExtract(context.Background(), "plain.example")
	assert.False(t, r.Success)
	assert.Equal(t, "No LinkedIn URL found on the website", r.Message)
	assert.Nil(t, r.Data)
}
