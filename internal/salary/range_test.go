package salary

import (
	"errors"
	"testing"
)

func i64(v int64) *int64 { return &v }

func eqBound(got, want *int64) bool {
	if got == nil || want == nil {
		return got == want
	}
	return *got == *want
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max *int64
		currency Currency
	}{
		{"100k-200k", i64(100000), i64(200000), CurrencyUnknown},
		{"80k-120000", i64(80000), i64(120000), CurrencyUnknown}, // mixed per-side suffixes
		{"100000-150k", i64(100000), i64(150000), CurrencyUnknown},
		{"75K-90000", i64(75000), i64(90000), CurrencyUnknown},
		{"500k-1m", i64(500000), i64(1000000), CurrencyUnknown},
		{"1m-1500k", i64(1000000), i64(1500000), CurrencyUnknown},
		{"800k-1.2m", i64(800000), i64(1200000), CurrencyUnknown},
		{"100k+", i64(100000), nil, CurrencyUnknown},
		{"500k+", i64(500000), nil, CurrencyUnknown},
		{"$1m+", i64(1000000), nil, CurrencyUSD},
		{"100k", i64(100000), i64(100000), CurrencyUnknown},
		{"95000", i64(95000), i64(95000), CurrencyUnknown},
		{"$1.5m", i64(1500000), i64(1500000), CurrencyUSD},
		{"€80k-€100k", i64(80000), i64(100000), CurrencyEUR},
		{"£60,000-£80,000", i64(60000), i64(80000), CurrencyGBP},
		{" 100k - 200k ", i64(100000), i64(200000), CurrencyUnknown},
		{"200k-100k", i64(200000), i64(100000), CurrencyUnknown}, // no reordering
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if err != nil {
			t.Errorf("ParseRange(%q) returned error: %v", tt.in, err)
			continue
		}
		if !eqBound(got.Min, tt.min) || !eqBound(got.Max, tt.max) {
			t.Errorf("ParseRange(%q) bounds = (%v, %v), want (%v, %v)",
				tt.in, deref(got.Min), deref(got.Max), deref(tt.min), deref(tt.max))
		}
		if got.Currency != tt.currency {
			t.Errorf("ParseRange(%q) currency = %v, want %v", tt.in, got.Currency, tt.currency)
		}
	}
}

func deref(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestParseRange_Errors(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{"", ErrEmptyInput},
		{"   ", ErrEmptyInput},
		{"+", ErrMissingMinimum},
		{"100k-", ErrIncompleteRange},
		{"-200k", ErrIncompleteRange},
	}

	for _, tt := range tests {
		_, err := ParseRange(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseRange(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestParseRange_InvalidAmounts(t *testing.T) {
	tests := []string{
		"invalid",
		"1x",
		"abc-def",
		"100k-abc",
		"abc-200k",
		"1x+",
		"100-200-300", // two dashes fall through to the exact form and fail there
	}

	for _, in := range tests {
		_, err := ParseRange(in)
		var amountErr *InvalidAmountError
		if !errors.As(err, &amountErr) {
			t.Errorf("ParseRange(%q) error = %v, want *InvalidAmountError", in, err)
		}
	}
}

// TestParseRange_CurrencyOnExactValue: the tag is detected on the original
// raw string, even when the symbol sits mid-token.
func TestParseRange_CurrencyDetectedFromRaw(t *testing.T) {
	got, err := ParseRange("$100k-$150k")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if got.Currency != CurrencyUSD {
		t.Errorf("currency = %v, want CurrencyUSD", got.Currency)
	}
	if *got.Min != 100000 || *got.Max != 150000 {
		t.Errorf("bounds = (%d, %d), want (100000, 150000)", *got.Min, *got.Max)
	}
}
