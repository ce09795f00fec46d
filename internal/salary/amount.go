package salary

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Magnitude multipliers implied by a trailing k/m suffix.
const (
	thousand = 1_000
	million  = 1_000_000
)

// InvalidAmountError reports a token that is not a valid salary amount,
// carrying the offending token for diagnostics.
type InvalidAmountError struct {
	Token string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid salary amount %q", e.Token)
}

// ParseAmount parses a single salary token ("100", "1,500", "$80k", "1.5m")
// into whole currency units. Currency symbols carry no information at this
// level and are stripped; detection happens separately on the untouched
// input. The k/m suffix is case-insensitive, and fractional suffixed
// amounts ("1.5k") truncate toward zero.
func ParseAmount(token string) (int64, error) {
	t := strings.TrimSpace(token)

	s := currencySymbols.Replace(t)
	s = strings.ReplaceAll(s, ",", "")

	multiplier := int64(1)
	if len(s) > 0 {
		switch s[len(s)-1] {
		case 'k', 'K':
			multiplier = thousand
			s = s[:len(s)-1]
		case 'm', 'M':
			multiplier = million
			s = s[:len(s)-1]
		}
	}

	if s == "" {
		return 0, &InvalidAmountError{Token: t}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InvalidAmountError{Token: t}
	}

	// float64(math.MaxInt64) is exactly 2^63; any product at or above it
	// would wrap negative on conversion.
	product := v * float64(multiplier)
	if product >= math.MaxInt64 {
		return 0, &InvalidAmountError{Token: t}
	}
	return int64(product), nil
}
