package extract

import (
	"context"

	"github.com/jayeshbankoti007/civicgraph/model"
)

// ExtractFunc produces a structured extraction from a preprocessed transcript
type ExtractFunc func(ctx context.Context, transcript *model.Transcript, text string) (*model.TranscriptExtraction, error)

// MentionCollectFunc collects typed entity mentions from raw text without the
// full extraction stage, used for offline mention collection
type MentionCollectFunc func(text string) ([]model.Mention, error)
