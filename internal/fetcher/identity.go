package fetcher

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/mileusna/useragent"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:114.0) Gecko/20100101 Firefox/123.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-CA,en;q=0.9,fr-CA;q=0.8",
	"en;q=0.9",
	"en-US;q=0.9,en;q=0.8",
}

var referers = []string{
	"https://www.google.com/",
	"https://www.bing.com/",
	"https://www.linkedin.com/",
	"https://www.linkedin.com/feed/",
	"https://www.linkedin.com/in/",
}

// fixedHeaders are sent on every request.
var fixedHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Encoding":           "gzip, deflate, br, zstd",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Cache-Control":             "max-age=0",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"DNT":                       "1",
	"Pragma":                    "no-cache",
}

// linkedInCookieURL scopes the baseline cookies; the jar only replays them
// to linkedin.com hosts.
var linkedInCookieURL = &url.URL{Scheme: "https", Host: "www.linkedin.com", Path: "/"}

// identity is the browser fingerprint presented by one request.
type identity struct {
	UserAgent      string
	AcceptLanguage string
	Referer        string
}

func pick(r *rand.Rand, pool []string) string {
	return pool[r.IntN(len(pool))]
}

// newIdentity draws a fingerprint. The referer is the target's own origin
// half of the time and a pooled search or LinkedIn page otherwise.
func newIdentity(r *rand.Rand, target *url.URL) identity {
	id := identity{
		UserAgent:      pick(r, userAgents),
		AcceptLanguage: pick(r, acceptLanguages),
	}
	if r.Float64() > 0.5 {
		id.Referer = target.Scheme + "://" + target.Host
	} else {
		id.Referer = pick(r, referers)
	}
	return id
}

// apply writes the identity onto req. hardened adds client hints.
func (id identity) apply(req *http.Request, hardened bool) {
	for k, v := range fixedHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("User-Agent", id.UserAgent)
	req.Header.Set("Accept-Language", id.AcceptLanguage)
	if id.Referer != "" {
		req.Header.Set("Referer", id.Referer)
	}
	if hardened {
		hints := clientHints(id.UserAgent)
		req.Header.Set("Sec-Ch-Ua", hints.Brands)
		req.Header.Set("Sec-Ch-Ua-Mobile", hints.Mobile)
		req.Header.Set("Sec-Ch-Ua-Platform", hints.Platform)
	}
}

type hints struct {
	Brands   string
	Mobile   string
	Platform string
}

// clientHints derives Sec-Ch-Ua values that agree with the user-agent string.
func clientHints(ua string) hints {
	parsed := useragent.Parse(ua)

	major := parsed.VersionNo.Major
	if major == 0 {
		major = 123
	}
	var brands string
	switch parsed.Name {
	case useragent.Chrome:
		brands = fmt.Sprintf(`"Google Chrome";v="%d", "Not:A-Brand";v="8", "Chromium";v="%d"`, major, major)
	case "":
		brands = `"Not:A-Brand";v="8"`
	default:
		brands = fmt.Sprintf(`"%s";v="%d", "Not:A-Brand";v="8"`, parsed.Name, major)
	}

	platform := parsed.OS
	switch {
	case platform == "":
		platform = "Windows"
	case strings.EqualFold(platform, useragent.MacOS):
		platform = "macOS"
	}

	mobile := "?0"
	if parsed.Mobile {
		mobile = "?1"
	}
	return hints{Brands: brands, Mobile: mobile, Platform: `"` + platform + `"`}
}

// newSessionJar returns a fresh cookie jar seeded with the LinkedIn baseline
// cookies, plus a clearance cookie once blocking has been seen.
func newSessionJar(r *rand.Rand, now time.Time, hardened bool) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	expires := now.Add(365 * 24 * time.Hour)
	cookies := []*http.Cookie{
		{Name: "lang", Value: "v=2&lang=en-us", Domain: ".linkedin.com", Path: "/", Expires: expires},
		{Name: "lidc", Value: fmt.Sprintf("b=VB%d:g=A:s=A:t=%d", 10000+r.IntN(90000), now.Unix()), Domain: ".linkedin.com", Path: "/", Expires: expires},
	}
	if hardened {
		cookies = append(cookies, &http.Cookie{
			Name: "cf_clearance",
			Value: fmt.Sprintf("%d-%d-%d-0-%d",
				10000000000+r.Int64N(90000000000), now.Unix(), 1+r.IntN(9), 1000+r.IntN(9000)),
			Domain:  ".linkedin.com",
			Path:    "/",
			Expires: expires,
		})
	}
	jar.SetCookies(linkedInCookieURL, cookies)
	return jar, nil
}
