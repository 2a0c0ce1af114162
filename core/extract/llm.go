package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
)

const (
	defaultModel       = "claude-3-5-haiku-20241022"
	defaultMaxTokens   = 4096
	defaultTemperature = 0.1
	maxTranscriptChars = 2500
)

const extractionSystemPrompt = "You are a precise entity extraction assistant specializing in municipal government transcripts."

// LLMExtractor extracts structured entities from transcripts through the
// Anthropic messages API
type LLMExtractor struct {
	client       anthropic.Client
	modelName    anthropic.Model
	preprocessor *Preprocessor
	log          *slog.Logger
}

// NewLLMExtractor creates an extractor. The API key is read from the
// ANTHROPIC_API_KEY environment variable when apiKey is empty.
func NewLLMExtractor(apiKey string, logger *slog.Logger) (*LLMExtractor, error) {
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, helper.NewError("create llm extractor", fmt.Errorf("ANTHROPIC_API_KEY not set"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LLMExtractor{
		client:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		modelName:    defaultModel,
		preprocessor: NewPreprocessor(),
		log:          logger,
	}, nil
}

// ExtractFunc returns the extractor as a pipeline stage
func (e *LLMExtractor) ExtractFunc() ExtractFunc {
	return e.Extract
}

// Extract reduces the transcript text, queries the model and decodes the
// response into a validated TranscriptExtraction
func (e *LLMExtractor) Extract(ctx context.Context, transcript *model.Transcript, text string) (*model.TranscriptExtraction, error) {
	reduced := e.preprocessor.Summarize(text, maxTranscriptChars)
	e.log.Info("Preprocessed transcript",
		slog.String("title", transcript.Title),
		slog.Int("raw_chars", len(text)),
		slog.Int("reduced_chars", len(reduced)),
	)

	prompt := BuildExtractionPrompt(transcript, reduced)

	var raw string
	operation := func() error {
		message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       e.modelName,
			MaxTokens:   defaultMaxTokens,
			Temperature: anthropic.Float(defaultTemperature),
			System: []anthropic.TextBlockParam{
				{Text: extractionSystemPrompt},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return err
		}
		if len(message.Content) == 0 || message.Content[0].Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected response format: no text block"))
		}
		raw = message.Content[0].Text
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, helper.NewError("query extraction model", err)
	}

	extraction, err := DecodeExtraction(raw)
	if err != nil {
		return nil, helper.NewError("decode extraction response", err)
	}
	extraction.SourceFile = transcript.Source
	extraction.Meeting = transcript.Metadata

	return extraction, nil
}

// BuildExtractionPrompt renders the extraction instructions for one
// transcript. The model answers with a single JSON object matching
// TranscriptExtraction.
func BuildExtractionPrompt(transcript *model.Transcript, reduced string) string {
	var b strings.Builder

	b.WriteString("You will be given a summary of a city council meeting transcript.\n\n")
	b.WriteString("MEETING INFO:\n")
	fmt.Fprintf(&b, "Date: %s\n", orUnknown(transcript.MeetingDate))
	fmt.Fprintf(&b, "Title: %s\n\n", orUnknown(transcript.Title))
	b.WriteString(`Extract the following entities from the summary of the transcript:

1. Bills/Legislation: ordinances, resolutions, or legislation.
   - "id" (e.g. "25-O-1271", "25-R-3450"), "title", "type"
   - "prediction": APPROVED / REJECTED / UNCERTAIN
   - "confidence": HIGH / MEDIUM / LOW
   - "reasoning": based on recorded votes, discussion sentiment, holds or amendments

2. People: council members, speakers, officials.
   - "name" (full formal name, e.g. "Howard Shook" not "Mr. Shook"), "role", "organization"

3. Organizations: departments, companies, agencies.
   - "name" (full official name, e.g. "Department of Finance" not "DOF"), "type"

4. Projects (real estate / infrastructure).
   - "name", "type", "location", "amount"

5. Votes: explicit votes on bills.
   - "bill_id", "person", "vote" (yes/no/abstain/held)

GUIDELINES:
- Bill IDs: normalize format (e.g. "25-O-1271" not "25-o-1271" or "Ordinance 25-O-1271")
- If a bill is explicitly approved/passed, predict APPROVED with HIGH confidence
- If a bill is held or tabled, predict UNCERTAIN with MEDIUM confidence
- Look for phrases like "vote is closed", "motion passes", "hold", "substitute"

Respond with a single JSON object with keys "bills", "people", "organizations", "projects" and "votes". No prose, no markdown fences.

TRANSCRIPT:
`)
	b.WriteString(reduced)

	return b.String()
}

// DecodeExtraction parses the model response into a validated extraction.
// Markdown code fences around the JSON are tolerated.
func DecodeExtraction(raw string) (*model.TranscriptExtraction, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	extraction := &model.TranscriptExtraction{}
	if err := json.Unmarshal([]byte(trimmed), extraction); err != nil {
		return nil, fmt.Errorf("invalid extraction JSON: %w", err)
	}
	if err := extraction.Validate(); err != nil {
		return nil, fmt.Errorf("extraction failed validation: %w", err)
	}

	return extraction, nil
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}
