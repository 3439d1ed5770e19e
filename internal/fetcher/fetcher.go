// Package fetcher retrieves pages the way a browser session would: rotating
// identities, human-like pacing, block detection and a cache-mirror fallback.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/resilience"
)

// Via names the path that produced a result's body.
type Via string

const (
	ViaDirect        Via = "direct"
	ViaCacheFallback Via = "cache_fallback"
)

// Options tune a single Fetch call.
type Options struct {
	// UseCache consults and fills the session cache.
	UseCache bool
	// SimulateAuth tags unblocked results as authenticated. No login happens.
	SimulateAuth bool
}

// DefaultOptions uses the cache and no simulated authentication.
var DefaultOptions = Options{UseCache: true}

// Result is the outcome of one fetch. Blocked results may still carry a
// partial body (403, 429 and login redirects).
type Result struct {
	Body          string      `json:"-"`
	FinalURL      string      `json:"final_url"`
	StatusCode    int         `json:"status_code"`
	Blocked       bool        `json:"blocked"`
	BlockReason   BlockReason `json:"block_reason"`
	Via           Via         `json:"fetched_via"`
	FromCache     bool        `json:"from_cache"`
	Authenticated bool        `json:"authenticated"`
}

// HasBody reports whether any content was retrieved.
func (r *Result) HasBody() bool {
	return r != nil && r.Body != ""
}

// Usable reports whether the result holds content fit for extraction.
func (r *Result) Usable() bool {
	return r != nil && !r.Blocked && r.Body != ""
}

// Fetcher is one browsing session. Its cache and blocking latch are shared
// by all calls and safe for concurrent use.
type Fetcher struct {
	cfg       config.FetchConfig
	transport http.RoundTripper
	cache     *resultCache
	limiters  *hostLimiters
	blocking  atomic.Bool

	rngMu sync.Mutex
	rng   *rand.Rand

	// sleep waits out the human-like delay. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
	log   *zap.Logger
}

// New creates a Fetcher from cfg.
func New(cfg config.FetchConfig) (*Fetcher, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 5 * 1024 * 1024
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	cache, err := newResultCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		cfg: cfg,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
		cache:    cache,
		limiters: newHostLimiters(cfg.RatePerSecond),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x62697a)),
		sleep:    sleepCtx,
		now:      time.Now,
		log:      zap.L().With(zap.String("component", "fetch")),
	}, nil
}

// Blocking reports whether any blocking status has been seen this session.
func (f *Fetcher) Blocking() bool { return f.blocking.Load() }

// Reset starts a new session: the cache is cleared and the latch released.
func (f *Fetcher) Reset() {
	f.cache.purge()
	f.blocking.Store(false)
}

// Fetch retrieves rawURL. Network failures and blocks come back as a
// Result with Blocked set; only an unusable URL is an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	target, err := ParseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	if opts.UseCache {
		if r, ok := f.cache.get(rawURL); ok {
			f.log.Debug("fetch: cache hit", zap.String("url", rawURL))
			return r, nil
		}
	}

	hardened := f.blocking.Load()
	if err := f.sleep(ctx, f.delay(hardened)); err != nil {
		return blockedResult(rawURL, 0, BlockTimeout), nil
	}

	lim := f.limiters.get(target.Host)
	if err := lim.Wait(ctx); err != nil {
		return blockedResult(rawURL, 0, BlockTimeout), nil
	}

	f.log.Info("fetch: requesting page", zap.String("url", rawURL))
	id := f.identity(target)
	timeout := time.Duration(f.cfg.TimeoutSecs) * time.Second
	resp, err := f.get(ctx, target, id, hardened, timeout)
	if err != nil {
		reason := BlockNetworkError
		if resilience.IsTimeout(err) || ctx.Err() != nil {
			reason = BlockTimeout
		}
		f.log.Warn("fetch: request failed",
			zap.String("url", rawURL),
			zap.String("reason", string(reason)),
			zap.Error(err),
		)
		return blockedResult(rawURL, 0, reason), nil
	}

	result := f.classify(rawURL, resp)
	switch result.BlockReason {
	case BlockNone:
		lim.OnSuccess()
	case BlockRateLimited:
		lim.OnRateLimit()
	}
	if result.StatusCode == http.StatusTooManyRequests || isHardBlock(result.StatusCode) {
		if !f.blocking.Swap(true) {
			f.log.Warn("fetch: blocking detected, hardening session",
				zap.String("url", rawURL),
				zap.Int("status", result.StatusCode),
			)
		}
	}

	if isHardBlock(result.StatusCode) {
		if mirrored := f.fetchMirror(ctx, target); mirrored != nil {
			result = mirrored
		}
	}

	if !result.Blocked {
		result.Authenticated = opts.SimulateAuth
		if opts.UseCache {
			f.cache.put(rawURL, result)
		}
	} else {
		f.log.Warn("fetch: blocked",
			zap.String("url", rawURL),
			zap.Int("status", result.StatusCode),
			zap.String("reason", string(result.BlockReason)),
		)
	}
	return result, nil
}

// get performs the GET with a fresh cookie jar, retrying transient
// connection failures and 5xx answers. When every attempt ends in a 5xx the
// last response is returned without error.
func (f *Fetcher) get(ctx context.Context, target *url.URL, id identity, hardened bool, timeout time.Duration) (*fetched, error) {
	rc := resilience.FetchRetryConfig(f.cfg.RetryAttempts, time.Duration(f.cfg.RetryBackoffMs)*time.Millisecond)
	rc.OnRetry = resilience.RetryLogger("fetch", target.String())

	resp, err := resilience.DoVal(ctx, rc, func(ctx context.Context) (*fetched, error) {
		f.rngMu.Lock()
		jar, err := newSessionJar(f.rng, f.now(), hardened)
		f.rngMu.Unlock()
		if err != nil {
			return nil, eris.Wrap(err, "fetch: cookie jar")
		}
		client := &http.Client{Transport: f.transport, Jar: jar, Timeout: timeout}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return nil, eris.Wrap(err, "fetch: create request")
		}
		id.apply(req, hardened)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := readBody(resp, f.cfg.MaxBodyBytes)
		if err != nil {
			return nil, err
		}
		out := &fetched{status: resp.StatusCode, finalURL: resp.Request.URL.String(), body: body}
		if isServerError(out.status) {
			return nil, resilience.NewTransientError(&serverError{resp: out})
		}
		return out, nil
	})
	var se *serverError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	return resp, err
}

type fetched struct {
	status   int
	finalURL string
	body     []byte
}

// serverError carries a 5xx response through the retry loop.
type serverError struct {
	resp *fetched
}

func (e *serverError) Error() string {
	return fmt.Sprintf("fetch: server answered %d", e.resp.status)
}

func isServerError(status int) bool {
	return status >= http.StatusInternalServerError && status < 600
}

func (f *Fetcher) classify(rawURL string, resp *fetched) *Result {
	reason := DetectBlock(resp.status, rawURL, resp.finalURL, resp.body)
	r := &Result{
		FinalURL:    resp.finalURL,
		StatusCode:  resp.status,
		Blocked:     reason != BlockNone,
		BlockReason: reason,
		Via:         ViaDirect,
	}
	if r.FinalURL == "" {
		r.FinalURL = rawURL
	}
	if !r.Blocked || keepsBody(reason) {
		r.Body = string(resp.body)
	}
	return r
}

// fetchMirror tries the public cache mirror once. It returns nil unless the
// mirror answered 200 with content.
func (f *Fetcher) fetchMirror(ctx context.Context, target *url.URL) *Result {
	if f.cfg.CacheMirrorURL == "" {
		return nil
	}
	mt, err := MirrorTarget(target)
	if err != nil {
		f.log.Warn("fetch: no cache mirror target", zap.String("url", target.String()), zap.Error(err))
		return nil
	}
	mirror, err := url.Parse(f.cfg.CacheMirrorURL + mt)
	if err != nil {
		f.log.Error("fetch: bad cache mirror url", zap.Error(err))
		return nil
	}
	f.log.Info("fetch: trying cache mirror", zap.String("url", mirror.String()))

	id := f.identity(target)
	id.Referer = "https://www.google.com/search"
	timeout := time.Duration(f.cfg.FallbackTimeoutSecs) * time.Second
	resp, err := f.get(ctx, mirror, id, true, timeout)
	if err != nil {
		f.log.Warn("fetch: cache mirror failed", zap.Error(err))
		return nil
	}
	if resp.status != http.StatusOK || len(resp.body) == 0 {
		f.log.Warn("fetch: cache mirror unavailable", zap.Int("status", resp.status))
		return nil
	}
	return &Result{
		Body:        string(resp.body),
		FinalURL:    resp.finalURL,
		StatusCode:  resp.status,
		BlockReason: BlockNone,
		Via:         ViaCacheFallback,
	}
}

// ErrNoMirrorSlug is returned for LinkedIn URLs that name no page.
var ErrNoMirrorSlug = eris.New("fetch: linkedin url has no company slug")

// MirrorTarget is the URL handed to the cache mirror. LinkedIn pages map to
// the canonical page of their company slug.
func MirrorTarget(target *url.URL) (string, error) {
	if !IsLinkedInHost(target.Host) {
		return target.String(), nil
	}
	parts := strings.Split(strings.Trim(target.Path, "/"), "/")
	slug := parts[len(parts)-1]
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "company" || parts[i] == "school" {
			slug = parts[i+1]
			break
		}
	}
	if slug == "" {
		return "", eris.Wrapf(ErrNoMirrorSlug, "fetch: mirror %s", target)
	}
	return "https://www.linkedin.com/company/" + slug + "/", nil
}

// IsLinkedInHost reports whether host belongs to linkedin.com.
func IsLinkedInHost(host string) bool {
	host = strings.ToLower(host)
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}

// ParseTarget validates rawURL as an absolute http(s) URL.
func ParseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: parse url %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, eris.Errorf("fetch: unsupported scheme in %q", rawURL)
	}
	if u.Host == "" {
		return nil, eris.Errorf("fetch: missing host in %q", rawURL)
	}
	return u, nil
}

func (f *Fetcher) identity(target *url.URL) identity {
	f.rngMu.Lock()
	defer f.rngMu.Unlock()
	return newIdentity(f.rng, target)
}

// delay returns the pause before a request: 1-3s normally, 0.2-0.5s once
// blocking has been seen.
func (f *Fetcher) delay(hardened bool) time.Duration {
	lo, hi := f.cfg.MinDelayMs, f.cfg.MaxDelayMs
	if hardened {
		lo, hi = f.cfg.BlockedMinDelayMs, f.cfg.BlockedMaxDelayMs
	}
	if hi <= lo {
		return time.Duration(lo) * time.Millisecond
	}
	f.rngMu.Lock()
	defer f.rngMu.Unlock()
	return time.Duration(lo+f.rng.IntN(hi-lo+1)) * time.Millisecond
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func blockedResult(rawURL string, status int, reason BlockReason) *Result {
	return &Result{
		FinalURL:    rawURL,
		StatusCode:  status,
		Blocked:     true,
		BlockReason: reason,
		Via:         ViaDirect,
	}
}
