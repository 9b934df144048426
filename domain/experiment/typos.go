package experiment

// TypoReport maps a raw cell value to suggested corrections and the cell
// addresses where that suggestion applies.
type TypoReport map[string]map[string][]string

// Add records that the cell at address holding original may mean suggestion.
func (r TypoReport) Add(original, suggestion, address string) {
	bySuggestion, ok := r[original]
	if !ok {
		bySuggestion = make(map[string][]string)
		r[original] = bySuggestion
	}
	bySuggestion[suggestion] = append(bySuggestion[suggestion], address)
}

// Locations returns the addresses recorded for original/suggestion.
func (r TypoReport) Locations(original, suggestion string) []string {
	return r[original][suggestion]
}

// Clone returns a deep copy.
func (r TypoReport) Clone() TypoReport {
	out := make(TypoReport, len(r))
	for orig, bySuggestion := range r {
		c := make(map[string][]string, len(bySuggestion))
		for s, addrs := range bySuggestion {
			c[s] = append([]string(nil), addrs...)
		}
		out[orig] = c
	}
	return out
}
