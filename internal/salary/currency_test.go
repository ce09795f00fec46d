package salary

import "testing"

func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want Currency
	}{
		{"$100k", CurrencyUSD},
		{"€80k-€100k", CurrencyEUR},
		{"£60,000", CurrencyGBP},
		{"100k-200k", CurrencyUnknown},
		{"", CurrencyUnknown},
		{"80,000 - 120,000 USD", CurrencyUnknown}, // textual codes not recognized
		{"salary: $120k", CurrencyUSD},
		{"£50k or $60k", CurrencyUSD}, // $ wins on priority, not position
	}

	for _, tt := range tests {
		if got := DetectCurrency(tt.in); got != tt.want {
			t.Errorf("DetectCurrency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCurrencyCodeRoundTrip(t *testing.T) {
	for _, c := range []Currency{CurrencyUnknown, CurrencyUSD, CurrencyEUR, CurrencyGBP} {
		if got := CurrencyFromCode(c.String()); got != c {
			t.Errorf("CurrencyFromCode(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if got := CurrencyFromCode("JPY"); got != CurrencyUnknown {
		t.Errorf("CurrencyFromCode(JPY) = %v, want CurrencyUnknown", got)
	}
}
