package ports

// Corrector returns the most likely dictionary spelling of a lowercase word,
// or "" when it has no candidate.
type Corrector interface {
	Correct(word string) string
}

// TypoSuggester proposes a corrected rendition of a raw cell value. ok is
// false when no token of the value needs revising.
type TypoSuggester interface {
	Suggest(raw string) (suggestion string, ok bool)
}
