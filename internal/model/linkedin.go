package model

// LinkedInProfile holds facts read from a LinkedIn company, school or
// profile page. It is attached to a CompanyRecord when the source is LinkedIn.
type LinkedInProfile struct {
	CompanyName            string   `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Overview               string   `json:"overview,omitempty" yaml:"overview,omitempty"`
	AllAboutSections       []string `json:"all_about_sections,omitempty" yaml:"all_about_sections,omitempty"`
	FollowerCount          string   `json:"follower_count,omitempty" yaml:"follower_count,omitempty"`
	CompanySize            string   `json:"company_size,omitempty" yaml:"company_size,omitempty"`
	Founded                string   `json:"founded,omitempty" yaml:"founded,omitempty"`
	FoundingContext        string   `json:"founding_context,omitempty" yaml:"founding_context,omitempty"`
	Industry               string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	Headquarters           string   `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	Specialties            []string `json:"specialties,omitempty" yaml:"specialties,omitempty"`
	BusinessCategories     []string `json:"business_categories,omitempty" yaml:"business_categories,omitempty"`
	Funding                string   `json:"funding,omitempty" yaml:"funding,omitempty"`
	Revenue                string   `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	Milestones             []string `json:"milestones,omitempty" yaml:"milestones,omitempty"`
	Website                string   `json:"website,omitempty" yaml:"website,omitempty"`
	Highlights             string   `json:"highlights,omitempty" yaml:"highlights,omitempty"`
	AuthenticationRequired bool     `json:"authentication_required,omitempty" yaml:"authentication_required,omitempty"`

	Posts  *PostsBlock  `json:"posts,omitempty" yaml:"posts,omitempty"`
	Jobs   *JobsBlock   `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	People *PeopleBlock `json:"people,omitempty" yaml:"people,omitempty"`

	// Flattened views of the blocks above, kept for consumers of the older
	// response shape.
	PostCount               *Count            `json:"post_count,omitempty" yaml:"post_count,omitempty"`
	RecentPosts             []Post            `json:"recent_posts,omitempty" yaml:"recent_posts,omitempty"`
	PostSummaries           []string          `json:"post_summaries,omitempty" yaml:"post_summaries,omitempty"`
	JobOpeningCount         *Count            `json:"job_opening_count,omitempty" yaml:"job_opening_count,omitempty"`
	JobOpenings             []Job             `json:"job_openings,omitempty" yaml:"job_openings,omitempty"`
	EmployeeCountFromPeople *Count            `json:"employee_count_from_people,omitempty" yaml:"employee_count_from_people,omitempty"`
	LeadershipTeam          []Person          `json:"leadership_team,omitempty" yaml:"leadership_team,omitempty"`
	EmployeeLocations       []LocationShare   `json:"employee_locations,omitempty" yaml:"employee_locations,omitempty"`
	Departments             []DepartmentShare `json:"departments,omitempty" yaml:"departments,omitempty"`
}

// Post is a single company update.
type Post struct {
	Text      string `json:"text" yaml:"text"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Reactions string `json:"reactions,omitempty" yaml:"reactions,omitempty"`
}

// PostsBlock bundles the posts read from a company's /posts page.
type PostsBlock struct {
	Count                  Count  `json:"count" yaml:"count"`
	Posts                  []Post `json:"posts" yaml:"posts"`
	AuthenticationRequired bool   `json:"authentication_required,omitempty" yaml:"authentication_required,omitempty"`
	AuthenticationStatus   string `json:"authentication_status,omitempty" yaml:"authentication_status,omitempty"`
	Error                  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Job is a single job listing.
type Job struct {
	Title      string `json:"title" yaml:"title"`
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	DatePosted string `json:"date_posted,omitempty" yaml:"date_posted,omitempty"`
}

// JobsBlock bundles the listings read from a company's /jobs page.
type JobsBlock struct {
	Count                  Count  `json:"count" yaml:"count"`
	Jobs                   []Job  `json:"jobs" yaml:"jobs"`
	AuthenticationRequired bool   `json:"authentication_required,omitempty" yaml:"authentication_required,omitempty"`
	AuthenticationStatus   string `json:"authentication_status,omitempty" yaml:"authentication_status,omitempty"`
	Error                  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Person is a named member of the company.
type Person struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

// DepartmentShare is one department with its share of headcount.
type DepartmentShare struct {
	Department string `json:"department" yaml:"department"`
	Percentage string `json:"percentage" yaml:"percentage"`
}

// LocationShare is one location with its share of headcount.
type LocationShare struct {
	Location   string `json:"location" yaml:"location"`
	Percentage string `json:"percentage" yaml:"percentage"`
}

// PeopleBlock bundles what was read from a company's /people page.
type PeopleBlock struct {
	EmployeeCount          Count             `json:"employee_count" yaml:"employee_count"`
	Leaders                []Person          `json:"leaders" yaml:"leaders"`
	Employees              []Person          `json:"employees,omitempty" yaml:"employees,omitempty"`
	Departments            []DepartmentShare `json:"departments" yaml:"departments"`
	Locations              []LocationShare   `json:"locations" yaml:"locations"`
	AuthenticationRequired bool              `json:"authentication_required,omitempty" yaml:"authentication_required,omitempty"`
	AuthenticationStatus   string            `json:"authentication_status,omitempty" yaml:"authentication_status,omitempty"`
	Error                  string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// About is the summary read from a company's /about page.
type About struct {
	Name         string   `json:"name" yaml:"name"`
	Overview     string   `json:"overview" yaml:"overview"`
	Website      string   `json:"website" yaml:"website"`
	Industry     string   `json:"industry" yaml:"industry"`
	CompanySize  string   `json:"company_size" yaml:"company_size"`
	Headquarters string   `json:"headquarters" yaml:"headquarters"`
	Founded      string   `json:"founded" yaml:"founded"`
	Specialties  []string `json:"specialties" yaml:"specialties"`
}

// Engagement is the combined posts, jobs and people for one company.
type Engagement struct {
	Posts  *PostsBlock  `json:"posts,omitempty" yaml:"posts,omitempty"`
	Jobs   *JobsBlock   `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	People *PeopleBlock `json:"people,omitempty" yaml:"people,omitempty"`
}

// CompanyData is the full LinkedIn picture of one company.
type CompanyData struct {
	CompanyURL string       `json:"company_url" yaml:"company_url"`
	About      *About       `json:"about" yaml:"about"`
	Posts      *PostsBlock  `json:"posts" yaml:"posts"`
	Jobs       *JobsBlock   `json:"jobs" yaml:"jobs"`
	People     *PeopleBlock `json:"people" yaml:"people"`
}

// AttachEngagement stores the blocks on the profile and fills the flattened views.
func (p *LinkedInProfile) AttachEngagement(e Engagement) {
	if e.Posts != nil {
		p.Posts = e.Posts
		c := e.Posts.Count
		p.PostCount = &c
		if len(e.Posts.Posts) > 0 {
			recent := e.Posts.Posts
			if len(recent) > 5 {
				recent = recent[:5]
			}
			p.RecentPosts = recent
			p.PostSummaries = nil
			for _, post := range recent {
				p.PostSummaries = append(p.PostSummaries, PostSummary(post))
			}
		}
	}
	if e.Jobs != nil {
		p.Jobs = e.Jobs
		c := e.Jobs.Count
		p.JobOpeningCount = &c
		if len(e.Jobs.Jobs) > 0 {
			openings := e.Jobs.Jobs
			if len(openings) > 5 {
				openings = openings[:5]
			}
			p.JobOpenings = openings
		}
	}
	if e.People != nil {
		p.People = e.People
		c := e.People.EmployeeCount
		p.EmployeeCountFromPeople = &c
		p.LeadershipTeam = e.People.Leaders
		p.EmployeeLocations = e.People.Locations
		p.Departments = e.People.Departments
	}
}

// PostSummary renders a one-line digest: the first 100 characters of the
// text, then date and reactions.
func PostSummary(p Post) string {
	text := []rune(p.Text)
	summary := string(text)
	if len(text) > 100 {
		summary = string(text[:100]) + "..."
	}
	date := p.Date
	if date == "" {
		date = "Recently"
	}
	reactions := p.Reactions
	if reactions == "" {
		reactions = "Unknown"
	}
	return summary + " (" + date + ", " + reactions + " reactions)"
}
