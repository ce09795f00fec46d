package salary

import "strings"

// Currency is the tag inferred from a literal symbol in raw salary text.
// Only single-character symbols are recognized; textual codes like "USD"
// are deliberately not.
type Currency int

const (
	CurrencyUnknown Currency = iota
	CurrencyUSD
	CurrencyEUR
	CurrencyGBP
)

// String returns the ISO code for the tag, or "" when unknown.
func (c Currency) String() string {
	switch c {
	case CurrencyUSD:
		return "USD"
	case CurrencyEUR:
		return "EUR"
	case CurrencyGBP:
		return "GBP"
	}
	return ""
}

// CurrencyFromCode maps a persisted ISO code back to the enum. Anything
// unrecognized (including "") is CurrencyUnknown.
func CurrencyFromCode(code string) Currency {
	switch code {
	case "USD":
		return CurrencyUSD
	case "EUR":
		return CurrencyEUR
	case "GBP":
		return CurrencyGBP
	}
	return CurrencyUnknown
}

var currencySymbols = strings.NewReplacer("$", "", "€", "", "£", "")

// DetectCurrency scans the original, unstripped string for a currency
// symbol. Priority order is $, €, £; the first symbol found wins.
func DetectCurrency(raw string) Currency {
	switch {
	case strings.ContainsRune(raw, '$'):
		return CurrencyUSD
	case strings.ContainsRune(raw, '€'):
		return CurrencyEUR
	case strings.ContainsRune(raw, '£'):
		return CurrencyGBP
	}
	return CurrencyUnknown
}
