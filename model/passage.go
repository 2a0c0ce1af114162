package model

import (
	"time"

	"github.com/google/uuid"
)

// Passage represents an embedded span of a transcript, stored so that the
// resolution and graph stages can be audited against source evidence
type Passage struct {
	ID            int64     `json:"id"`
	TranscriptID  int64     `json:"transcript_id"`
	TranscriptRID uuid.UUID `json:"transcript_rid"`
	Content       string    `json:"content"`
	Speaker       string    `json:"speaker,omitempty"`
	Position      int       `json:"position"`
	Embedding     []float32 `json:"embedding,omitempty"`
	Metadata      Metadata  `json:"metadata,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	// Result fields, populated by similarity search
	Similarity float64 `json:"similarity,omitempty"`
}
