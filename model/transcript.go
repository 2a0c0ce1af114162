package model

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Transcript represents a source meeting transcript
type Transcript struct {
	ID          int64     `json:"id"`
	RID         uuid.UUID `json:"rid"`
	Title       string    `json:"title"`
	Source      string    `json:"source,omitempty"`
	MeetingDate string    `json:"meeting_date,omitempty"`
	Content     string    `json:"content,omitempty" db:"-"` // Temporary field for processing, not stored in DB
	Metadata    Metadata  `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTranscriptFromFile reads a file and creates a Transcript with the file
// content. The title defaults to the filename, the source to the file path.
func NewTranscriptFromFile(filePath string, metadata Metadata) (*Transcript, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(filePath)
	title := filename[:len(filename)-len(filepath.Ext(filename))]
	if title == "" {
		title = filename
	}

	return &Transcript{
		Title:    title,
		Source:   filePath,
		Content:  string(content),
		Metadata: metadata,
	}, nil
}
