package salary

import "log/slog"

// Predicate is a numeric overlap test against a record's stored bounds.
// Currency is intentionally not part of the test: a £100k record matches a
// $100k filter purely numerically, because cross-currency comparison is not
// normalized anywhere in the system.
type Predicate struct {
	Min int64
	Max *int64 // nil for open-ended filters
}

// BuildPredicate parses query-time filter text into an overlap predicate.
// On any parse failure it logs a warning and returns nil, and the query
// runs unfiltered; a bad filter expression must not fail the whole query.
func BuildPredicate(filterText string) *Predicate {
	r, err := ParseRange(filterText)
	if err != nil {
		slog.Warn("rejecting salary filter", "filter", filterText, "error", err)
		return nil
	}

	p := &Predicate{Max: r.Max}
	if r.Min != nil {
		p.Min = *r.Min
	}
	return p
}

// Matches reports whether a stored salary overlaps the filter window.
// Intervals only need to intersect, not contain one another: a job whose
// range partially overlaps the requested window still qualifies. Records
// without a stored upper bound never match.
func (p *Predicate) Matches(min, max *int64) bool {
	if max == nil || *max < p.Min {
		return false
	}
	if p.Max != nil {
		if min == nil || *min > *p.Max {
			return false
		}
	}
	return true
}
