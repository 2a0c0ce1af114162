package pipeline

import (
	"log/slog"

	"github.com/jayeshbankoti007/civicgraph/model"
)

// ChunkFunc is a function that splits a transcript into passage chunks,
// ordered by position within the document
type ChunkFunc func(text string) ([]PassageChunk, error)

// EmbedFunc is a function that generates an embedding for text
type EmbedFunc func(text string) ([]float32, error)

// MentionCollectFunc collects raw entity mentions from a passage of text
type MentionCollectFunc func(text string) ([]model.Mention, error)

// PassageChunk represents a chunk of transcript text before embedding
type PassageChunk struct {
	Content  string
	Speaker  string
	Position int
	Metadata map[string]interface{}
}

// Pipeline combines chunking and embedding into passage processing
type Pipeline struct {
	Chunker          ChunkFunc
	Embedder         EmbedFunc
	MentionCollector MentionCollectFunc // Optional
	log              *slog.Logger
}

// NewPipeline creates a new passage processing pipeline
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
		log:      slog.Default(),
	}
}

// SetLogger replaces the pipeline logger
func (p *Pipeline) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.log = logger
	}
}

// SetMentionCollector sets an optional mention collector that runs over every
// passage during processing
func (p *Pipeline) SetMentionCollector(collector MentionCollectFunc) {
	p.MentionCollector = collector
}

// ProcessingResult contains embedded passages and optionally collected mentions
type ProcessingResult struct {
	Passages []*model.Passage
	Mentions []model.Mention
}

// Process chunks and embeds a transcript, returning passages ready for storage
func (p *Pipeline) Process(text string) ([]*model.Passage, error) {
	result, err := p.ProcessWithMentions(text)
	if err != nil {
		return nil, err
	}
	return result.Passages, nil
}

// ProcessWithMentions chunks and embeds a transcript and, when a mention
// collector is set, collects entity mentions per passage
func (p *Pipeline) ProcessWithMentions(text string) (*ProcessingResult, error) {
	chunks, err := p.Chunker(text)
	if err != nil {
		return nil, err
	}

	passages := make([]*model.Passage, 0, len(chunks))
	var allMentions []model.Mention

	for _, chunk := range chunks {
		embedding, err := p.Embedder(chunk.Content)
		if err != nil {
			return nil, err
		}

		passage := &model.Passage{
			Content:   chunk.Content,
			Speaker:   chunk.Speaker,
			Position:  chunk.Position,
			Embedding: embedding,
			Metadata:  chunk.Metadata,
		}
		passages = append(passages, passage)

		if p.MentionCollector != nil {
			mentions, err := p.MentionCollector(chunk.Content)
			if err != nil {
				p.log.Warn(
					"Mention collection failed for passage",
					slog.Int("position", chunk.Position),
					slog.String("error", err.Error()),
				)
			} else if mentions != nil {
				allMentions = append(allMentions, mentions...)
			}
		}
	}

	return &ProcessingResult{
		Passages: passages,
		Mentions: allMentions,
	}, nil
}
