package resolve

import (
	"regexp"
	"strings"
)

// IdentifierRule pairs a structural pattern with the function that rebuilds
// its canonical form from the submatches
type IdentifierRule struct {
	Pattern      *regexp.Regexp
	Canonicalize func(matches []string) string
}

// Normalizer canonicalizes structured identifiers (bill codes) through an
// ordered list of pattern rules and prepares free text for fuzzy comparison.
// It is a pure function of its rules, holds no state and never fails on
// malformed input.
type Normalizer struct {
	prefixes      *regexp.Regexp
	rules         []IdentifierRule
	abbreviations map[string]string
}

// NewNormalizer creates a Normalizer with the default bill identifier rules
// and the municipal abbreviation table
func NewNormalizer() *Normalizer {
	return &Normalizer{
		prefixes: regexp.MustCompile(`(?i)^(bill|ordinance|resolution|legislation)\s*`),
		rules: []IdentifierRule{
			{
				// 25-O-1271, 25 O 1271, 25O1271 -> 25-O-1271
				Pattern: regexp.MustCompile(`^(\d{2})[-\s]?([OR])[-\s]?(\d+)`),
				Canonicalize: func(matches []string) string {
					return matches[1] + "-" + matches[2] + "-" + matches[3]
				},
			},
		},
		abbreviations: map[string]string{
			"dept": "department",
			"div":  "division",
			"comm": "committee",
			"atl":  "atlanta",
			"dev":  "development",
			"mgmt": "management",
			"fin":  "finance",
			"hr":   "human resources",
			"it":   "information technology",
			"apd":  "atlanta police department",
			"afd":  "atlanta fire department",
			"dot":  "department of transportation",
		},
	}
}

// NormalizeIdentifier returns the canonical form of a structured identifier
// and whether any rule matched. Input that matches no rule is returned
// uppercased and trimmed with ok=false, never an error, since transcripts
// are noisy.
func (n *Normalizer) NormalizeIdentifier(raw string) (string, bool) {
	id := n.prefixes.ReplaceAllString(raw, "")
	id = strings.ToUpper(strings.TrimSpace(id))

	for _, rule := range n.rules {
		matches := rule.Pattern.FindStringSubmatch(id)
		if matches != nil {
			return rule.Canonicalize(matches), true
		}
	}

	return id, false
}

// NormalizeText lowercases, trims and expands known abbreviations so that
// fuzzy comparison sees "Dept of Finance" and "Department of Finance" as the
// same words
func (n *Normalizer) NormalizeText(text string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	for i, word := range words {
		if expanded, ok := n.abbreviations[word]; ok {
			words[i] = expanded
		}
	}
	return strings.Join(words, " ")
}
