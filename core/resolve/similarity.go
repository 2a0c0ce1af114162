package resolve

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Scorer computes pairwise string similarity on a 0-1 scale
type Scorer struct {
	normalizer *Normalizer
}

// NewScorer creates a Scorer using the given normalizer for text preparation
func NewScorer(normalizer *Normalizer) *Scorer {
	return &Scorer{normalizer: normalizer}
}

// Score returns the similarity of two names after normalization:
// 1.0 for equal normalized forms, 0.85 when one form contains the other as a
// substring or as a word set ("Finance Department" inside "Dept of Finance"),
// otherwise the character-level longest-matching-block ratio.
func (s *Scorer) Score(a string, b string) float64 {
	aNorm := s.normalizer.NormalizeText(a)
	bNorm := s.normalizer.NormalizeText(b)

	if aNorm == bNorm {
		return 1.0
	}
	if strings.Contains(aNorm, bNorm) || strings.Contains(bNorm, aNorm) {
		return 0.85
	}
	if wordsContained(aNorm, bNorm) || wordsContained(bNorm, aNorm) {
		return 0.85
	}

	return sequenceRatio(aNorm, bNorm)
}

// wordsContained reports whether every word of inner occurs in outer
func wordsContained(inner string, outer string) bool {
	outerWords := make(map[string]bool)
	for _, word := range strings.Fields(outer) {
		outerWords[word] = true
	}
	for _, word := range strings.Fields(inner) {
		if !outerWords[word] {
			return false
		}
	}
	return true
}

// sequenceRatio is the SequenceMatcher ratio over the characters of both
// strings: 2*M/T where M is the total size of the matching blocks and T the
// total number of characters
func sequenceRatio(a string, b string) float64 {
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}
