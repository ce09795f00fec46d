package salary

// ForStorage normalizes raw salary text for persistence. It never fails:
// unparseable text (common for postings with no salary listed) degrades to
// empty bounds, keeping whatever currency symbol was present in the raw
// string. A malformed salary must not block storing the rest of the record.
func ForStorage(raw string) Range {
	r, err := ParseRange(raw)
	if err != nil {
		return Range{Currency: DetectCurrency(raw)}
	}
	return r
}
