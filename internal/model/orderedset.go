package model

import (
	"encoding/json"

	om "github.com/wk8/go-ordered-map/v2"
)

// OrderedSet is a string set that remembers insertion order, so extracted
// contact data serializes identically across runs.
type OrderedSet struct {
	m *om.OrderedMap[string, struct{}]
}

// NewOrderedSet returns a set holding items in first-seen order.
func NewOrderedSet(items ...string) *OrderedSet {
	s := &OrderedSet{m: om.New[string, struct{}]()}
	s.Add(items...)
	return s
}

// Add inserts items that are not yet present.
func (s *OrderedSet) Add(items ...string) {
	if s.m == nil {
		s.m = om.New[string, struct{}]()
	}
	for _, it := range items {
		if _, ok := s.m.Get(it); !ok {
			s.m.Set(it, struct{}{})
		}
	}
}

// Has reports membership.
func (s *OrderedSet) Has(item string) bool {
	if s == nil || s.m == nil {
		return false
	}
	_, ok := s.m.Get(item)
	return ok
}

// Len returns the number of items.
func (s *OrderedSet) Len() int {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Values returns the items in insertion order. Never nil.
func (s *OrderedSet) Values() []string {
	out := make([]string, 0, s.Len())
	if s.Len() == 0 {
		return out
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (s *OrderedSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *OrderedSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = *NewOrderedSet(items...)
	return nil
}

func (s *OrderedSet) MarshalYAML() (any, error) {
	return s.Values(), nil
}

// SocialLinks groups profile links by platform, keeping both platforms and
// links in discovery order.
type SocialLinks struct {
	m *om.OrderedMap[string, *OrderedSet]
}

// NewSocialLinks returns an empty SocialLinks.
func NewSocialLinks() *SocialLinks {
	return &SocialLinks{m: om.New[string, *OrderedSet]()}
}

// Add records link under platform.
func (l *SocialLinks) Add(platform string, links ...string) {
	if len(links) == 0 {
		return
	}
	if l.m == nil {
		l.m = om.New[string, *OrderedSet]()
	}
	set, ok := l.m.Get(platform)
	if !ok {
		set = NewOrderedSet()
		l.m.Set(platform, set)
	}
	set.Add(links...)
}

// Get returns the links for platform, or nil.
func (l *SocialLinks) Get(platform string) []string {
	if l == nil || l.m == nil {
		return nil
	}
	set, ok := l.m.Get(platform)
	if !ok {
		return nil
	}
	return set.Values()
}

// Platforms returns platform names in discovery order.
func (l *SocialLinks) Platforms() []string {
	var out []string
	if l == nil || l.m == nil {
		return out
	}
	for pair := l.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Len returns the number of platforms with at least one link.
func (l *SocialLinks) Len() int {
	if l == nil || l.m == nil {
		return 0
	}
	return l.m.Len()
}

func (l *SocialLinks) MarshalJSON() ([]byte, error) {
	if l == nil || l.m == nil {
		return []byte("{}"), nil
	}
	return l.m.MarshalJSON()
}

func (l *SocialLinks) UnmarshalJSON(data []byte) error {
	m := om.New[string, *OrderedSet]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	l.m = m
	return nil
}

func (l *SocialLinks) MarshalYAML() (any, error) {
	if l == nil || l.m == nil {
		return map[string][]string{}, nil
	}
	return l.m.MarshalYAML()
}
