package spelling

import (
	"strings"

	"github.com/sajari/fuzzy"
)

// inflections are stripped to recognise regular plurals and verb forms of
// dictionary words ("kidneys", "fasted").
var inflections = []string{"s", "es", "ed", "ing"}

// minStem keeps short words from being read as inflections ("is", "red").
const minStem = 3

// FuzzyCorrector answers Correct from a sajari/fuzzy model trained once on a
// dictionary. It is read-only after construction and safe to share.
type FuzzyCorrector struct {
	model *fuzzy.Model
	dict  Dictionary
	depth int
}

// NewFuzzyCorrector trains a model on dict; depth is the maximum edit
// distance considered for candidates.
func NewFuzzyCorrector(dict Dictionary, depth int) *FuzzyCorrector {
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(depth)
	model.SetUseAutocomplete(false)

	for word, count := range dict {
		model.SetCount(word, count, true)
	}
	return &FuzzyCorrector{model: model, dict: dict, depth: depth}
}

// Correct returns word itself when it is a dictionary word or a regular
// inflection of one, the best candidate otherwise, or "" when nothing is
// close enough. Candidates are ranked by edit distance (a transposition
// counts as one edit), then frequency, then alphabetically.
func (c *FuzzyCorrector) Correct(word string) string {
	word = strings.ToLower(word)
	if c.known(word) {
		return word
	}

	best, bestDist, bestCount := "", c.depth+1, 0
	for term := range c.model.Potentials(word, true) {
		dist := editDistance(word, term)
		if dist > c.depth {
			continue
		}
		count := c.dict[term]
		if dist < bestDist ||
			(dist == bestDist && count > bestCount) ||
			(dist == bestDist && count == bestCount && term < best) {
			best, bestDist, bestCount = term, dist, count
		}
	}
	return best
}

func (c *FuzzyCorrector) known(word string) bool {
	if _, ok := c.dict[word]; ok {
		return true
	}
	for _, suffix := range inflections {
		stem, ok := strings.CutSuffix(word, suffix)
		if !ok || len(stem) < minStem {
			continue
		}
		if _, ok := c.dict[stem]; ok {
			return true
		}
	}
	return false
}

// editDistance is the optimal string alignment distance: insertions,
// deletions, substitutions and adjacent transpositions each cost one.
func editDistance(a, b string) int {
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(b)]
}
