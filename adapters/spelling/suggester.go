package spelling

import (
	"regexp"
	"strings"

	"samplemeta/ports"
)

// DefaultTechTerms are instrument abbreviations that are never flagged.
var DefaultTechTerms = []string{"MS1", "MS2", "AGC", "RF", "LCM"}

var nonWord = regexp.MustCompile(`[^A-Za-z0-9 ]+`)

// Suggester flags cell values whose tokens the corrector would spell
// differently. It never modifies the value it is given.
type Suggester struct {
	corrector ports.Corrector
	techTerms map[string]bool
}

// NewSuggester wraps a corrector; extra terms join DefaultTechTerms.
func NewSuggester(corrector ports.Corrector, extraTerms ...string) *Suggester {
	terms := make(map[string]bool, len(DefaultTechTerms)+len(extraTerms))
	for _, t := range DefaultTechTerms {
		terms[t] = true
	}
	for _, t := range extraTerms {
		terms[t] = true
	}
	return &Suggester{corrector: corrector, techTerms: terms}
}

// Suggest returns the corrections of every token that needs one, joined
// by single spaces. Numbers and technical terms (matched case-sensitively)
// are skipped, as are tokens the corrector has no candidate for.
func (s *Suggester) Suggest(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	var corrected []string
	for _, token := range strings.Fields(nonWord.ReplaceAllString(raw, " ")) {
		if isNumeric(token) || s.techTerms[token] {
			continue
		}
		fix := s.corrector.Correct(strings.ToLower(token))
		if fix == "" || strings.EqualFold(fix, token) {
			continue
		}
		corrected = append(corrected, fix)
	}
	if len(corrected) == 0 {
		return "", false
	}
	return strings.Join(corrected, " "), true
}

func isNumeric(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return token != ""
}
