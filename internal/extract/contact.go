package extract

import (
	"regexp"

	"github.com/sells-group/bizintel/internal/model"
)

var (
	emailRe   = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe   = regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?(?:\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}`)
	addressRe = regexp.MustCompile(`(?i)\d+\s+(?:[A-Za-z0-9.-]+\s+){1,5}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Plaza|Plz|Square|Sq)`)
)

var socialPatterns = []struct {
	platform string
	re       *regexp.Regexp
}{
	{"facebook", regexp.MustCompile(`(?i)facebook\.com/[\w.-]+`)},
	{"twitter", regexp.MustCompile(`(?i)twitter\.com/[\w.-]+`)},
	{"linkedin", regexp.MustCompile(`(?i)linkedin\.com/(?:company|in|school)/[\w.-]+`)},
	{"instagram", regexp.MustCompile(`(?i)instagram\.com/[\w.-]+`)},
}

// Contacts collects emails, phone numbers, street addresses and social
// profile links from text. Every collection is deduplicated and keeps the
// order in which items first appear.
func Contacts(text string) model.Contact {
	c := model.NewContact()
	c.Emails.Add(emailRe.FindAllString(text, -1)...)
	c.Phones.Add(phoneRe.FindAllString(text, -1)...)
	c.Addresses.Add(addressRe.FindAllString(text, -1)...)
	for _, sp := range socialPatterns {
		c.Social.Add(sp.platform, sp.re.FindAllString(text, -1)...)
	}
	return c
}
