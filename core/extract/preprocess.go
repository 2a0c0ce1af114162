package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Preprocessor reduces a raw meeting transcript to the sentences worth
// sending to the extraction model: speaker labels and procedural chatter are
// dropped, bill-related sentences are kept with top priority.
type Preprocessor struct {
	speakerLabel    *regexp.Regexp
	sentenceSplit   *regexp.Regexp
	billPatterns    []*regexp.Regexp
	noisePatterns   []*regexp.Regexp
	contextKeywords map[string]bool
}

// NewPreprocessor creates a Preprocessor with the default municipal patterns
func NewPreprocessor() *Preprocessor {
	billPatterns := []string{
		`\b\d{2}[-\s]?[A-Z]-?\d{3,4}\b`, // e.g. 25-O-1271
		`(?i)\bbill\b`,
		`(?i)\bordinance\b`,
		`(?i)\bresolution\b`,
		`(?i)\bmotion\b`,
	}
	noisePatterns := []string{
		`(?i)\b(seconded?|moved?)\b`,
		`(?i)\bvote is (open|closed)\b`,
		`(?i)\b(all|everyone) (in favor|against)\b`,
		`(?i)\bprint that screen\b`,
		`(?i)\bthank you\b`,
		`(?i)\bgood (afternoon|morning|evening)\b`,
		`(?i)\bplease (take your seats|come forward)\b`,
		`(?i)\bany discussion\b`,
		`(?i)\b(public comment|hearing)\b`,
	}
	contextKeywords := []string{
		"approve", "approved", "pass", "vote", "rejected", "held", "amendment",
		"funding", "budget", "project", "development", "zoning", "property",
		"contract", "department", "finance", "council", "committee",
	}

	p := &Preprocessor{
		speakerLabel:    regexp.MustCompile(`(?m)^[A-Z][A-Z\s\.\-']{2,20}:\s*`),
		sentenceSplit:   regexp.MustCompile(`[.!?]\s+`),
		contextKeywords: make(map[string]bool, len(contextKeywords)),
	}
	for _, pattern := range billPatterns {
		p.billPatterns = append(p.billPatterns, regexp.MustCompile(pattern))
	}
	for _, pattern := range noisePatterns {
		p.noisePatterns = append(p.noisePatterns, regexp.MustCompile(pattern))
	}
	for _, keyword := range contextKeywords {
		p.contextKeywords[keyword] = true
	}

	return p
}

// Clean removes speaker labels, short fragments and procedural noise
func (p *Preprocessor) Clean(text string) string {
	text = p.speakerLabel.ReplaceAllString(text, "")

	var cleaned []string
	for _, sentence := range p.splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if len(strings.Fields(sentence)) < 3 {
			continue
		}
		if p.isNoise(sentence) {
			continue
		}
		cleaned = append(cleaned, sentence)
	}

	return strings.Join(cleaned, " ")
}

// HasBillSignal reports whether a sentence references legislation
func (p *Preprocessor) HasBillSignal(sentence string) bool {
	for _, pattern := range p.billPatterns {
		if pattern.MatchString(sentence) {
			return true
		}
	}
	return false
}

// ScoreSentence scores a sentence between 0 and 100. Bill-related sentences
// get 100 outright, others score by context keyword density.
func (p *Preprocessor) ScoreSentence(sentence string) float64 {
	if p.HasBillSignal(sentence) {
		return 100.0
	}

	words := strings.Fields(strings.ToLower(sentence))
	if len(words) == 0 {
		return 0.0
	}

	score := 0.0
	for _, word := range words {
		word = strings.Trim(word, ".,;:!?\"'")
		if p.contextKeywords[word] {
			score += 10.0
		}
	}
	if score > 99.0 {
		score = 99.0
	}

	return score
}

// Summarize cleans the transcript and keeps the highest-scoring sentences, in
// original order, up to maxChars characters
func (p *Preprocessor) Summarize(text string, maxChars int) string {
	cleaned := p.Clean(text)
	if maxChars <= 0 || len(cleaned) <= maxChars {
		return cleaned
	}

	sentences := p.splitSentences(cleaned)

	type scored struct {
		index    int
		sentence string
		score    float64
	}
	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		ranked = append(ranked, scored{index: i, sentence: sentence, score: p.ScoreSentence(sentence)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	budget := 0
	kept := make([]scored, 0, len(ranked))
	for _, s := range ranked {
		if budget+len(s.sentence)+1 > maxChars {
			continue
		}
		kept = append(kept, s)
		budget += len(s.sentence) + 1
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].index < kept[j].index
	})

	parts := make([]string, len(kept))
	for i, s := range kept {
		parts[i] = s.sentence
	}

	return strings.Join(parts, " ")
}

func (p *Preprocessor) splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range p.sentenceSplit.FindAllStringIndex(text, -1) {
		// Keep the terminating punctuation with the sentence
		sentences = append(sentences, text[last:loc[0]+1])
		last = loc[1]
	}
	if last < len(text) {
		sentences = append(sentences, text[last:])
	}
	return sentences
}

func (p *Preprocessor) isNoise(sentence string) bool {
	for _, pattern := range p.noisePatterns {
		if pattern.MatchString(sentence) {
			return true
		}
	}
	return false
}
