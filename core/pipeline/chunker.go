package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var speakerLabelPattern = regexp.MustCompile(`(?m)^([A-Z][A-Z\s\.\-']{2,40}):\s*`)

// SpeakerTurnChunker creates a chunker that splits a meeting transcript into
// speaker turns. Turns longer than maxChars are split further at sentence
// boundaries. Text before the first speaker label becomes an unattributed
// passage.
func SpeakerTurnChunker(maxChars int) ChunkFunc {
	return func(text string) ([]PassageChunk, error) {
		if maxChars <= 0 {
			return nil, fmt.Errorf("max chars per passage must be positive")
		}

		if strings.TrimSpace(text) == "" {
			return []PassageChunk{}, nil
		}

		matches := speakerLabelPattern.FindAllStringSubmatchIndex(text, -1)

		type turn struct {
			speaker string
			content string
		}
		var turns []turn

		if len(matches) == 0 {
			turns = append(turns, turn{content: text})
		} else {
			if lead := strings.TrimSpace(text[:matches[0][0]]); lead != "" {
				turns = append(turns, turn{content: lead})
			}
			for i, match := range matches {
				speaker := text[match[2]:match[3]]
				end := len(text)
				if i+1 < len(matches) {
					end = matches[i+1][0]
				}
				content := strings.TrimSpace(text[match[1]:end])
				if content == "" {
					continue
				}
				turns = append(turns, turn{speaker: strings.TrimSpace(speaker), content: content})
			}
		}

		var chunks []PassageChunk
		position := 0
		for _, t := range turns {
			for _, part := range splitByLength(t.content, maxChars) {
				chunks = append(chunks, PassageChunk{
					Content:  part,
					Speaker:  t.speaker,
					Position: position,
					Metadata: make(map[string]interface{}),
				})
				position++
			}
		}

		return chunks, nil
	}
}

// SentenceChunker creates a chunker that groups sentences into passages of at
// most maxSentencesPerChunk sentences, with no speaker attribution
func SentenceChunker(maxSentencesPerChunk int) ChunkFunc {
	return func(text string) ([]PassageChunk, error) {
		if maxSentencesPerChunk <= 0 {
			return nil, fmt.Errorf("max sentences per chunk must be positive")
		}

		if strings.TrimSpace(text) == "" {
			return []PassageChunk{}, nil
		}

		sentences := splitSentences(text)

		var chunks []PassageChunk
		var current []string
		position := 0

		flush := func() {
			if len(current) == 0 {
				return
			}
			chunks = append(chunks, PassageChunk{
				Content:  strings.Join(current, " "),
				Position: position,
				Metadata: make(map[string]interface{}),
			})
			position++
			current = nil
		}

		for _, sentence := range sentences {
			current = append(current, sentence)
			if len(current) >= maxSentencesPerChunk {
				flush()
			}
		}
		flush()

		return chunks, nil
	}
}

func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "! ", "!|")
	text = strings.ReplaceAll(text, "? ", "?|")
	text = strings.ReplaceAll(text, ". ", ".|")

	var sentences []string
	for _, s := range strings.Split(text, "|") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// splitByLength splits text at sentence boundaries into parts of at most
// maxChars characters. A single sentence longer than maxChars is kept whole.
func splitByLength(text string, maxChars int) []string {
	if len(text) <= maxChars {
		return []string{text}
	}

	var parts []string
	var current []string
	currentLen := 0

	for _, sentence := range splitSentences(text) {
		if currentLen > 0 && currentLen+len(sentence)+1 > maxChars {
			parts = append(parts, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
		current = append(current, sentence)
		currentLen += len(sentence) + 1
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, " "))
	}

	return parts
}
