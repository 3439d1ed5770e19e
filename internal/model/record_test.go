package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLinkedIn(t *testing.T) {
	t.Parallel()

	h := HistoryFacts{FoundingYear: "1999", FoundingContext: "since 1999", Headquarters: "Ann Arbor"}
	h.MergeLinkedIn(&LinkedInProfile{
		Founded:       "2004",
		CompanySize:   "51-200",
		Industry:      "Robotics",
		Specialties:   []string{"robots"},
		Headquarters:  "Detroit, Michigan",
		FollowerCount: "12,345",
		Funding:       "Raised $25 million",
	})

	assert.Equal(t, "1999", h.FoundingYear)
	assert.Equal(t, "since 1999", h.FoundingContext)
	assert.Equal(t, "51-200", h.EmployeeCount)
	assert.Equal(t, "Company size: 51-200", h.EmployeeContext)
	assert.Equal(t, "Robotics", h.Industry)
	assert.Equal(t, []string{"robots"}, h.Specialties)
	assert.Equal(t, "Detroit, Michigan", h.Headquarters)
	assert.Equal(t, "12,345", h.LinkedInFollower)
	assert.Equal(t, "Raised $25 million", h.FinancialInfo)

	h.MergeLinkedIn(nil)
	assert.Equal(t, "1999", h.FoundingYear)
}

func TestMergeLinkedIn_FillsFounding(t *testing.T) {
	t.Parallel()

	var h HistoryFacts
	h.MergeLinkedIn(&LinkedInProfile{Founded: "2004"})
	assert.Equal(t, "2004", h.FoundingYear)
	assert.Equal(t, "Founded in 2004", h.FoundingContext)
}

func TestAttachEngagement(t *testing.T) {
	t.Parallel()

	posts := make([]Post, 7)
	for i := range posts {
		posts[i] = Post{Text: "update"}
	}
	jobs := make([]Job, 6)
	for i := range jobs {
		jobs[i] = Job{Title: "Engineer"}
	}

	var p LinkedInProfile
	p.AttachEngagement(Engagement{
		Posts: &PostsBlock{Count: Known(7), Posts: posts},
		Jobs:  &JobsBlock{Count: Known(6), Jobs: jobs},
		People: &PeopleBlock{
			EmployeeCount: Range("51-200"),
			Leaders:       []Person{{Name: "Jane Roe", Title: "CEO"}},
			Locations:     []LocationShare{{Location: "Detroit", Percentage: "100%"}},
		},
	})

	assert.Equal(t, Known(7), *p.PostCount)
	assert.Len(t, p.RecentPosts, 5)
	assert.Len(t, p.PostSummaries, 5)
	assert.Equal(t, Known(6), *p.JobOpeningCount)
	assert.Len(t, p.JobOpenings, 5)
	assert.Equal(t, Range("51-200"), *p.EmployeeCountFromPeople)
	assert.Equal(t, "Jane Roe", p.LeadershipTeam[0].Name)
	assert.Equal(t, "Detroit", p.EmployeeLocations[0].Location)
	assert.Nil(t, p.Departments)
}

func TestPostSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello (Recently, Unknown reactions)", PostSummary(Post{Text: "Hello"}))
	assert.Equal(t, "Hello (2d, 14 reactions)", PostSummary(Post{Text: "Hello", Date: "2d", Reactions: "14"}))

	long := PostSummary(Post{Text: strings.Repeat("é", 150)})
	assert.True(t, strings.HasPrefix(long, strings.Repeat("é", 100)+"..."))
}
