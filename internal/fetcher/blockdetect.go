package fetcher

import (
	"net/http"
	"strings"
)

// BlockReason describes why a fetch did not yield usable content.
type BlockReason string

const (
	BlockNone          BlockReason = "none"
	BlockRateLimited   BlockReason = "rate_limited"
	BlockForbidden     BlockReason = "forbidden"
	BlockLoginRedirect BlockReason = "login_redirect"
	BlockTimeout       BlockReason = "timeout"
	BlockNetworkError  BlockReason = "network_error"
	BlockEmptyBody     BlockReason = "empty_body"
	BlockHTTPStatus    BlockReason = "http_status"
)

// StatusLinkedInBlocked is the non-standard status LinkedIn sends to
// clients it has flagged as automated.
const StatusLinkedInBlocked = 999

var loginPathMarkers = []string{"uas/login", "/authwall", "/login"}

// IsLoginURL reports whether a request for requested was redirected to a
// sign-in page at final.
func IsLoginURL(requested, final string) bool {
	if final == "" || strings.EqualFold(strings.TrimRight(requested, "/"), strings.TrimRight(final, "/")) {
		return false
	}
	lower := strings.ToLower(final)
	for _, m := range loginPathMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// DetectBlock classifies a completed response for requestedURL.
func DetectBlock(status int, requestedURL, finalURL string, body []byte) BlockReason {
	switch {
	case status == http.StatusForbidden, status == StatusLinkedInBlocked:
		return BlockForbidden
	case status == http.StatusTooManyRequests:
		return BlockRateLimited
	case status < 200 || status > 299:
		return BlockHTTPStatus
	}
	if IsLoginURL(requestedURL, finalURL) {
		return BlockLoginRedirect
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return BlockEmptyBody
	}
	return BlockNone
}

// isHardBlock reports whether the reason warrants the cache-mirror fallback.
func isHardBlock(status int) bool {
	return status == http.StatusForbidden || status == StatusLinkedInBlocked
}

// keepsBody reports whether a blocked response's partial body is retained.
func keepsBody(r BlockReason) bool {
	switch r {
	case BlockForbidden, BlockRateLimited, BlockLoginRedirect:
		return true
	}
	return false
}
