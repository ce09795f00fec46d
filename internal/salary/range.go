// Package salary normalizes free-form scraped salary text into comparable
// numeric bounds, and turns structurally similar filter expressions into
// range-overlap predicates. Everything here is a pure function over its
// input string and safe for concurrent use.
package salary

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyInput means the input was empty or all whitespace.
	ErrEmptyInput = errors.New("empty salary input")
	// ErrMissingMinimum means a bare "+" with nothing before it.
	ErrMissingMinimum = errors.New("missing minimum before +")
	// ErrIncompleteRange means a "-" with an empty side.
	ErrIncompleteRange = errors.New("incomplete salary range")
)

// Range is a normalized salary: optional bounds in whole currency units
// plus the currency tag detected on the raw text. A single tag applies to
// the whole range, never per side. Min > Max is accepted as-is; the parser
// never reorders or validates bound ordering.
type Range struct {
	Min      *int64
	Max      *int64
	Currency Currency
}

// ParseRange classifies raw salary text as an open-ended minimum ("100k+"),
// a two-sided range ("80k-120000", each side parsed independently so mixed
// suffixes work), or an exact value ("95000" gives Min == Max).
//
// Callers on the query path must substitute literal spaces with '+' before
// calling: the web transport mangles the two interchangeably in query
// parameters, and ParseRange performs no URL decoding of its own.
func ParseRange(raw string) (Range, error) {
	currency := DetectCurrency(raw)

	s := collapseWhitespace(raw)
	switch {
	case s == "":
		return Range{}, ErrEmptyInput

	case strings.HasSuffix(s, "+"):
		rest := strings.TrimSuffix(s, "+")
		if rest == "" {
			return Range{}, ErrMissingMinimum
		}
		min, err := ParseAmount(rest)
		if err != nil {
			return Range{}, err
		}
		return Range{Min: &min, Currency: currency}, nil

	case strings.Count(s, "-") == 1:
		lo, hi, _ := strings.Cut(s, "-")
		if lo == "" || hi == "" {
			return Range{}, ErrIncompleteRange
		}
		min, err := ParseAmount(lo)
		if err != nil {
			return Range{}, err
		}
		max, err := ParseAmount(hi)
		if err != nil {
			return Range{}, err
		}
		return Range{Min: &min, Max: &max, Currency: currency}, nil
	}

	v, err := ParseAmount(s)
	if err != nil {
		return Range{}, err
	}
	return Range{Min: &v, Max: &v, Currency: currency}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
