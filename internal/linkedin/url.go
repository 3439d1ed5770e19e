// Package linkedin reads company facts, posts, jobs and people from public
// LinkedIn pages. Every extractor degrades to placeholders when LinkedIn
// hides content behind its login wall.
package linkedin

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Sub-pages of a company profile.
const (
	SubPageAbout  = "about"
	SubPagePosts  = "posts"
	SubPageJobs   = "jobs"
	SubPagePeople = "people"
)

const (
	reasonNotLinkedIn      = "Not a valid LinkedIn company URL"
	reasonPersonalProfile  = "This is a LinkedIn personal profile, not a company page"
	reasonNotCompanyFormat = "Not a valid LinkedIn company URL format"
)

// URL classification errors returned by CanonicalCompanyURL.
var (
	ErrNotLinkedIn      = eris.New(reasonNotLinkedIn)
	ErrPersonalProfile  = eris.New(reasonPersonalProfile)
	ErrNotCompanyFormat = eris.New(reasonNotCompanyFormat)
)

// RejectReason returns the user-facing reason for a CanonicalCompanyURL error.
func RejectReason(err error) string {
	switch {
	case eris.Is(err, ErrPersonalProfile):
		return reasonPersonalProfile
	case eris.Is(err, ErrNotCompanyFormat):
		return reasonNotCompanyFormat
	case eris.Is(err, ErrNotLinkedIn):
		return reasonNotLinkedIn
	}
	return err.Error()
}

var (
	companyRootRe   = regexp.MustCompile(`(?i)^.*?/company/[^/?#]+`)
	orgPathRe       = regexp.MustCompile(`linkedin\.com/(?:school|organization)/([^/?#]+)`)
	companyPrefixRe = regexp.MustCompile(`(/company/[^/?#]+).*$`)
)

// IsCompanyURL reports whether u points at a LinkedIn company page.
func IsCompanyURL(u string) bool {
	return strings.Contains(strings.ToLower(u), "/company/")
}

// IsProfileURL reports whether u is a LinkedIn company, school or member page.
func IsProfileURL(u string) bool {
	lower := strings.ToLower(u)
	for _, p := range []string{"linkedin.com/company/", "linkedin.com/school/", "linkedin.com/in/"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CompanyRoot cuts a company URL down to …/company/<slug>, dropping any
// sub-page, query or fragment. Other URLs only lose trailing slashes.
func CompanyRoot(u string) string {
	if root := companyRootRe.FindString(u); root != "" {
		return root
	}
	return strings.TrimRight(u, "/")
}

// SubPageURL returns the company root of u followed by /sub.
func SubPageURL(u, sub string) string {
	return CompanyRoot(u) + "/" + sub
}

// CanonicalCompanyURL normalizes raw into https://…/company/<slug>/. School
// and organization pages are rewritten to the company form; member profiles
// and non-LinkedIn URLs are rejected.
func CanonicalCompanyURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	if !strings.Contains(strings.ToLower(u), "linkedin.com") {
		return "", eris.Wrapf(ErrNotLinkedIn, "linkedin: %s", raw)
	}
	if !IsCompanyURL(u) {
		if strings.Contains(u, "/in/") || strings.Contains(u, "/pub/") {
			return "", eris.Wrapf(ErrPersonalProfile, "linkedin: %s", raw)
		}
		m := orgPathRe.FindStringSubmatch(u)
		if m == nil {
			return "", eris.Wrapf(ErrNotCompanyFormat, "linkedin: %s", raw)
		}
		u = "https://www.linkedin.com/company/" + m[1] + "/"
	}
	return companyPrefixRe.ReplaceAllString(u, "$1/"), nil
}
