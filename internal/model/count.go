package model

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Sentinel strings that stand in for a count that could not be read.
const (
	SentinelLoginRequired = "Unknown (login required)"
	SentinelFetchError    = "Error fetching page"
	SentinelError         = "Error"
)

// CountKind discriminates the variants of Count.
type CountKind int

const (
	CountKnown CountKind = iota
	CountRange
	CountUnknown
	CountError
)

// Count is an aggregate count that is either a number, a size range such as
// "51-200", or a sentinel explaining why no number is available. The zero
// value is Known(0).
type Count struct {
	Kind CountKind
	N    int
	Text string
}

// Known returns a numeric count.
func Known(n int) Count { return Count{Kind: CountKnown, N: n} }

// Range returns a textual size range, e.g. "11-50" or "10001+".
func Range(s string) Count { return Count{Kind: CountRange, Text: s} }

// Unknown returns a count that could not be determined, e.g. behind a login wall.
func Unknown(reason string) Count { return Count{Kind: CountUnknown, Text: reason} }

// Failed returns a count that could not be read because extraction failed.
func Failed(reason string) Count { return Count{Kind: CountError, Text: reason} }

// IsKnown reports whether c carries a number.
func (c Count) IsKnown() bool { return c.Kind == CountKnown }

// IsZero reports whether c is Known(0), the "nothing found yet" state.
func (c Count) IsZero() bool { return c.Kind == CountKnown && c.N == 0 }

// Int returns the numeric value when c is Known.
func (c Count) Int() (int, bool) {
	if c.Kind != CountKnown {
		return 0, false
	}
	return c.N, true
}

func (c Count) String() string {
	if c.Kind == CountKnown {
		return strconv.Itoa(c.N)
	}
	return c.Text
}

// MarshalJSON encodes Known counts as numbers and everything else as strings.
func (c Count) MarshalJSON() ([]byte, error) {
	if c.Kind == CountKnown {
		return []byte(strconv.Itoa(c.N)), nil
	}
	return json.Marshal(c.Text)
}

var sizeRangeRe = regexp.MustCompile(`^\d[\d,]*\s*(?:-\s*\d[\d,]*|\+)$`)

// UnmarshalJSON accepts a number or one of the string forms produced by MarshalJSON.
func (c *Count) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Known(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return eris.Wrap(err, "model: decode count")
	}
	*c = ParseCount(s)
	return nil
}

// MarshalYAML mirrors MarshalJSON for yaml.v3 encoders.
func (c Count) MarshalYAML() (any, error) {
	if c.Kind == CountKnown {
		return c.N, nil
	}
	return c.Text, nil
}

// ParseCount classifies a raw string into the matching Count variant.
func ParseCount(s string) Count {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(strings.ReplaceAll(s, ",", "")); err == nil {
		return Known(n)
	}
	switch {
	case strings.HasPrefix(s, SentinelError):
		return Failed(s)
	case sizeRangeRe.MatchString(s):
		return Range(s)
	default:
		return Unknown(s)
	}
}
