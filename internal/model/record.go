package model

// CompanyRecord is the structured output of one extraction call.
type CompanyRecord struct {
	CompanyName string           `json:"company_name" yaml:"company_name"`
	Description string           `json:"description" yaml:"description"`
	Contact     Contact          `json:"contact_info" yaml:"contact_info"`
	Services    []string         `json:"services" yaml:"services"`
	Products    []string         `json:"products" yaml:"products"`
	Keywords    []string         `json:"keywords" yaml:"keywords"`
	History     HistoryFacts     `json:"company_history" yaml:"company_history"`
	SourceURL   string           `json:"url" yaml:"url"`
	Domain      string           `json:"domain" yaml:"domain"`
	LinkedIn    *LinkedInProfile `json:"linkedin_data,omitempty" yaml:"linkedin_data,omitempty"`
}

// Contact holds deduplicated contact data in discovery order.
type Contact struct {
	Emails    *OrderedSet  `json:"emails" yaml:"emails"`
	Phones    *OrderedSet  `json:"phones" yaml:"phones"`
	Addresses *OrderedSet  `json:"addresses" yaml:"addresses"`
	Social    *SocialLinks `json:"social_media" yaml:"social_media"`
}

// NewContact returns a Contact with empty sets.
func NewContact() Contact {
	return Contact{
		Emails:    NewOrderedSet(),
		Phones:    NewOrderedSet(),
		Addresses: NewOrderedSet(),
		Social:    NewSocialLinks(),
	}
}

// HistoryFacts is an optional-field bag; empty fields were not found.
type HistoryFacts struct {
	FoundingYear     string   `json:"founding_year,omitempty" yaml:"founding_year,omitempty"`
	FoundingContext  string   `json:"founding_context,omitempty" yaml:"founding_context,omitempty"`
	EmployeeCount    string   `json:"employee_count,omitempty" yaml:"employee_count,omitempty"`
	EmployeeContext  string   `json:"employee_context,omitempty" yaml:"employee_context,omitempty"`
	Founders         string   `json:"founders,omitempty" yaml:"founders,omitempty"`
	FounderContext   string   `json:"founder_context,omitempty" yaml:"founder_context,omitempty"`
	FinancialInfo    string   `json:"financial_info,omitempty" yaml:"financial_info,omitempty"`
	AcquisitionInfo  string   `json:"acquisition_info,omitempty" yaml:"acquisition_info,omitempty"`
	Industry         string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	Milestones       []string `json:"milestones,omitempty" yaml:"milestones,omitempty"`
	Specialties      []string `json:"specialties,omitempty" yaml:"specialties,omitempty"`
	Headquarters     string   `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	LinkedInFollower string   `json:"linkedin_followers,omitempty" yaml:"linkedin_followers,omitempty"`
}

// MergeLinkedIn back-fills empty history fields from a LinkedIn profile.
// Populated fields are never overwritten, except the LinkedIn-only fields
// (specialties, headquarters, followers) which are always taken.
func (h *HistoryFacts) MergeLinkedIn(p *LinkedInProfile) {
	if p == nil {
		return
	}
	if p.Founded != "" && h.FoundingYear == "" {
		h.FoundingYear = p.Founded
		h.FoundingContext = "Founded in " + p.Founded
	}
	if p.CompanySize != "" && h.EmployeeCount == "" {
		h.EmployeeCount = p.CompanySize
		h.EmployeeContext = "Company size: " + p.CompanySize
	}
	if p.Industry != "" && h.Industry == "" {
		h.Industry = p.Industry
	}
	if len(p.Specialties) > 0 {
		h.Specialties = p.Specialties
	}
	if p.Headquarters != "" {
		h.Headquarters = p.Headquarters
	}
	if p.FollowerCount != "" {
		h.LinkedInFollower = p.FollowerCount
	}
	if p.Funding != "" && h.FinancialInfo == "" {
		h.FinancialInfo = p.Funding
	}
}
