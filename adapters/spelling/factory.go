package spelling

import (
	"fmt"
	"log"

	"samplemeta/internal/config"
)

// NewFromConfig loads the configured dictionary and builds the suggester the
// importer uses. It is meant to run once at startup.
func NewFromConfig(cfg config.SpellingConfig) (*Suggester, error) {
	dict, err := LoadDictionaryFile(cfg.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("spelling dictionary: %w", err)
	}
	depth := cfg.Depth
	if depth < 1 {
		depth = 2
	}
	log.Printf("[Spelling] loaded %d dictionary words (depth=%d, extra terms=%v)", len(dict), depth, cfg.TechTerms)
	return NewSuggester(NewFuzzyCorrector(dict, depth), cfg.TechTerms...), nil
}
