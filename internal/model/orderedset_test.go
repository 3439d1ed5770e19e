package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOrderedSet(t *testing.T) {
	t.Parallel()

	s := NewOrderedSet("b", "a")
	s.Add("b", "c")

	assert.Equal(t, []string{"b", "a", "c"}, s.Values())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("z"))

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `["b","a","c"]`, string(b))

	var empty *OrderedSet
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Has("a"))
}

func TestOrderedSet_EmptyMarshalsAsArray(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewContact())
	require.NoError(t, err)
	assert.JSONEq(t, `{"emails":[],"phones":[],"addresses":[],"social_media":{}}`, string(b))
}

func TestSocialLinks(t *testing.T) {
	t.Parallel()

	l := NewSocialLinks()
	l.Add("twitter", "https://twitter.com/acme")
	l.Add("linkedin", "https://www.linkedin.com/company/acme")
	l.Add("twitter", "https://twitter.com/acme", "https://x.com/acme")
	l.Add("facebook")

	assert.Equal(t, []string{"twitter", "linkedin"}, l.Platforms())
	assert.Equal(t, []string{"https://twitter.com/acme", "https://x.com/acme"}, l.Get("twitter"))
	assert.Nil(t, l.Get("facebook"))

	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Equal(t,
		`{"twitter":["https://twitter.com/acme","https://x.com/acme"],"linkedin":["https://www.linkedin.com/company/acme"]}`,
		string(b))

	var back SocialLinks
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 2, back.Len())
	assert.Equal(t, []string{"twitter", "linkedin"}, back.Platforms())
	assert.Equal(t, []string{"https://twitter.com/acme", "https://x.com/acme"}, back.Get("twitter"))
}

func TestSocialLinks_OrderSurvivesJSONAndYAML(t *testing.T) {
	t.Parallel()

	l := NewSocialLinks()
	for _, p := range []string{"zeta", "alpha", "mid"} {
		l.Add(p, "https://"+p+".example/acme")
	}

	b, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zeta":["https://zeta.example/acme"],"alpha":["https://alpha.example/acme"],"mid":["https://mid.example/acme"]}`,
		string(b))

	y, err := yaml.Marshal(l)
	require.NoError(t, err)
	assert.Equal(t, "zeta:\n    - https://zeta.example/acme\nalpha:\n    - https://alpha.example/acme\nmid:\n    - https://mid.example/acme\n", string(y))

	var zero SocialLinks
	b, err = json.Marshal(&zero)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}
