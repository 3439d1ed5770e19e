package extract

import (
	"regexp"
	"unicode/utf8"

	"github.com/sells-group/bizintel/internal/model"
)

const (
	maxOfferings      = 5
	minOfferingLength = 20
	maxOfferingLength = 500
)

var (
	serviceRe = regexp.MustCompile(`(?i)\b(service|solution|offering|expertise|consulting|support)\b`)
	productRe = regexp.MustCompile(`(?i)\b(product|tool|software|platform|app|application)\b`)
)

// Offerings returns up to five paragraphs describing services and up to five
// describing products, in page order. A paragraph may land in both lists.
func Offerings(paragraphs []string) (services, products []string) {
	svc, prod := model.NewOrderedSet(), model.NewOrderedSet()
	for _, p := range paragraphs {
		n := utf8.RuneCountInString(p)
		if n <= minOfferingLength || n >= maxOfferingLength {
			continue
		}
		if svc.Len() < maxOfferings && serviceRe.MatchString(p) {
			svc.Add(p)
		}
		if prod.Len() < maxOfferings && productRe.MatchString(p) {
			prod.Add(p)
		}
	}
	return svc.Values(), prod.Values()
}
