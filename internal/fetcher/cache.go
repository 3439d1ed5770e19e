package fetcher

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rotisserie/eris"
)

// resultCache holds unblocked results keyed on the exact URL string.
type resultCache struct {
	lru *lru.Cache[string, Result]
}

func newResultCache(size int) (*resultCache, error) {
	c, err := lru.New[string, Result](size)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: create cache")
	}
	return &resultCache{lru: c}, nil
}

func (c *resultCache) get(url string) (*Result, bool) {
	r, ok := c.lru.Get(url)
	if !ok {
		return nil, false
	}
	r.FromCache = true
	return &r, true
}

func (c *resultCache) put(url string, r *Result) {
	if r == nil || r.Blocked {
		return
	}
	c.lru.Add(url, *r)
}

func (c *resultCache) purge() { c.lru.Purge() }

func (c *resultCache) len() int { return c.lru.Len() }
