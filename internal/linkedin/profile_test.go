package linkedin

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

const profilePage = `<html><head><meta name="description" content="short"></head><body>
<h1 class="top-card-layout__title">Acme Robotics</h1>
<div class="top-card-layout__entity-info">Industrial Automation · 12,345 followers</div>
<section class="artdeco-card">
<h2>Overview</h2>
<p>Acme Robotics designs and builds industrial robots for automotive and electronics manufacturers worldwide.</p>
</section>
<a class="website-link" href="https://acme.example">Website</a>
</body></html>`

func TestExtractProfile_CompanyPage(t *testing.T) {
	doc, err := htmltext.Parse(profilePage)
	require.NoError(t, err)

	p := ExtractProfile(doc, "https://www.linkedin.com/company/acme/", "")
	require.NotNil(t, p)

	assert.Equal(t, "Acme Robotics", p.CompanyName)
	assert.Equal(t, "12,345 followers", p.FollowerCount)
	assert.Contains(t, p.Overview, "designs and builds industrial robots")
	assert.Len(t, p.AllAboutSections, 2)
	assert.Equal(t, "https://acme.example", p.Website)
	assert.False(t, p.AuthenticationRequired)
}

func TestExtractProfile_NotAProfile(t *testing.T) {
	doc, err := htmltext.Parse(profilePage)
	require.NoError(t, err)
	assert.Nil(t, ExtractProfile(doc, "https://www.linkedin.com/feed/", ""))
}

func TestExtractProfile_LoginWallKeepsTextFacts(t *testing.T) {
	doc, err := htmltext.Parse(`<h1>Acme</h1><a href="https://www.linkedin.com/uas/login">Sign in</a>`)
	require.NoError(t, err)

	p := ExtractProfile(doc, "https://www.linkedin.com/company/acme", "Founded 2004. Industry: Industrial Automation")
	require.NotNil(t, p)
	assert.True(t, p.AuthenticationRequired)
	assert.Empty(t, p.CompanyName)
	assert.Equal(t, "2004", p.Founded)
	assert.Equal(t, "Industrial Automation", p.Industry)
}

func TestExtractProfile_HighlightsCard(t *testing.T) {
	doc, err := htmltext.Parse(`<h1>Acme</h1>
<div class="profile-section"><h3>Highlights</h3>
<p>Top 10 robotics startup of 2020.</p></div>`)
	require.NoError(t, err)

	p := ExtractProfile(doc, "https://www.linkedin.com/company/acme", "")
	require.NotNil(t, p)
	assert.Equal(t, "Highlights Top 10 robotics startup of 2020.", p.Highlights)
}

func TestApplyTextRules(t *testing.T) {
	text := "Company size: 51-200 employees\n" +
		"Headquarters: Detroit, Michigan\n" +
		"Founded: 2004\n" +
		"Specialties: robotics, automation and machine vision\n" +
		"The company raised $25 million in Series B funding.\n" +
		"2015: Opened the European office"

	var p model.LinkedInProfile
	applyTextRules(&p, text)

	assert.Equal(t, "51-200", p.CompanySize)
	assert.Equal(t, "Detroit, Michigan", p.Headquarters)
	assert.Equal(t, "2004", p.Founded)
	assert.Contains(t, p.FoundingContext, "Founded: 2004")
	assert.Equal(t, []string{"robotics", "automation", "machine vision"}, p.Specialties)
	assert.Contains(t, p.Funding, "$25 million")
	assert.Empty(t, p.Revenue)
	assert.Empty(t, p.Industry)
	assert.Equal(t, []string{"2015: Opened the European office"}, p.Milestones)
}

func TestApplyTextRules_IndustryTooShort(t *testing.T) {
	var p model.LinkedInProfile
	applyTextRules(&p, "Sector: IT")
	assert.Empty(t, p.Industry)
}

func TestBusinessCategories(t *testing.T) {
	got := businessCategories("Overview B2B Focused: Industrial Robots")
	assert.Equal(t, []string{"B2B Focused - Industrial Robots"}, got)
	assert.Nil(t, businessCategories("nothing to see"))
}

func TestBusinessCategories_LastMatchingPatternWins(t *testing.T) {
	got := businessCategories("Overview B2B Focused: Industrial Robots. Boutique Agency - Design Studio")
	assert.Equal(t, []string{"Boutique Agency - Design Studio"}, got)
}

func TestExtractProfile_UnrenderableDocumentLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.ErrorNode})
	doc := goquery.NewDocumentFromNode(root)

	p := ExtractProfile(doc, "https://www.linkedin.com/company/acme/", "")
	require.NotNil(t, p)
	assert.False(t, p.AuthenticationRequired)
	assert.Equal(t, 1, logs.FilterMessage("linkedin: render page html").Len())
}
