package linkedin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizintel/internal/fetcher"
)

const aboutPage = `<html><head><title>Acme Robotics | LinkedIn</title></head><body>
<dl>
<dt>Website</dt><dd>https://acme.example</dd>
<dt>Industry</dt><dd>Industrial Automation</dd>
<dt>Company size</dt><dd>51-200</dd>
<dt>Headquarters</dt><dd>Detroit, MI</dd>
<dt>Founded</dt><dd>2004</dd>
<dt>Specialties</dt><dd>robots, automation</dd>
</dl></body></html>`

func TestExtractAbout_DefinitionList(t *testing.T) {
	a := ExtractAbout(parse(t, aboutPage))

	assert.Equal(t, "Acme Robotics", a.Name)
	assert.Equal(t, "https://acme.example", a.Website)
	assert.Equal(t, "Industrial Automation", a.Industry)
	assert.Equal(t, "51-200", a.CompanySize)
	assert.Equal(t, "Detroit, MI", a.Headquarters)
	assert.Equal(t, "2004", a.Founded)
	assert.Equal(t, []string{"robots", "automation"}, a.Specialties)
	assert.Equal(t,
		"Acme Robotics is a company in the Industrial Automation industry based in Detroit, MI founded in 2004 with approximately 51-200 employees.",
		a.Overview)
}

func TestExtractAbout_ClassesAndMeta(t *testing.T) {
	a := ExtractAbout(parse(t, `<h1 class="org-top-card-summary__title"> Acme </h1>
<p class="org-about-us-organization-description__text">We build robots.</p>`))
	assert.Equal(t, "Acme", a.Name)
	assert.Equal(t, "We build robots.", a.Overview)

	a = ExtractAbout(parse(t, `<meta name="description" content="Robots for everyone.">`))
	assert.Equal(t, unknownName, a.Name)
	assert.Equal(t, "Robots for everyone.", a.Overview)
	assert.Equal(t, []string{}, a.Specialties)
}

func TestAbout_FetchesAboutSubPage(t *testing.T) {
	f, e := newStub(map[string]*fetcher.Result{acmeURL + "/about": served(aboutPage)})

	a := e.About(context.Background(), acmeURL+"/jobs")
	require.NotNil(t, a)
	assert.Equal(t, []string{acmeURL + "/about"}, f.calls)
	assert.Equal(t, "Acme Robotics", a.Name)
}

func TestAbout_SlugStartingWithAbout(t *testing.T) {
	const aboutface = "https://www.linkedin.com/company/aboutface"
	f, e := newStub(map[string]*fetcher.Result{aboutface + "/about": served(aboutPage)})

	a := e.About(context.Background(), aboutface+"/posts/")
	require.NotNil(t, a)
	assert.Equal(t, []string{aboutface + "/about"}, f.calls)
	assert.Equal(t, "Acme Robotics", a.Name)
}

func TestAbout_Unreachable(t *testing.T) {
	_, e := newStub(nil)

	a := e.About(context.Background(), acmeURL)
	require.NotNil(t, a)
	assert.Equal(t, "Unknown", a.Name)
	assert.Equal(t, "Could not access LinkedIn company page due to access restrictions.", a.Overview)

	assert.Nil(t, e.About(context.Background(), "https://www.linkedin.com/in/jdoe"))
}

func TestFindURL(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"company link",
			`<a href="https://twitter.com/acme">t</a><a href="https://www.linkedin.com/company/acme/">in</a>`,
			"https://www.linkedin.com/company/acme",
		},
		{
			"social section fallback",
			`<div class="footer-social"><a href="https://www.linkedin.com/in/jdoe/">me</a></div>`,
			"https://www.linkedin.com/in/jdoe",
		},
		{
			"meta tag",
			`<meta property="og:linkedin" content="https://www.linkedin.com/company/acme-meta">`,
			"https://www.linkedin.com/company/acme-meta",
		},
		{
			"json-ld",
			`<script type="application/ld+json">{"sameAs":["https://www.linkedin.com/company/acme-inc/"]}</script>`,
			"https://www.linkedin.com/company/acme-inc",
		},
		{"nothing", `<a href="https://facebook.com/acme">f</a>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindURL(parse(t, tt.html)))
		})
	}
}
