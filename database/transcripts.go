package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
	"github.com/jayeshbankoti007/civicgraph/sql"
)

// TranscriptsDBHandlerFunctions defines the interface for Transcripts database operations.
type TranscriptsDBHandlerFunctions interface {
	InsertTranscript(transcript *model.Transcript) error
	SelectTranscript(rid uuid.UUID) (*model.Transcript, error)
	SelectAllTranscripts(lastCreatedAt *time.Time, limit int) ([]*model.Transcript, error)
	SelectTranscriptsBySearch(searchTerm string, limit int) ([]*model.Transcript, error)
	UpdateTranscript(transcript *model.Transcript) error
	DeleteTranscript(rid uuid.UUID) error
}

// TranscriptsDBHandler handles transcript-related database operations
type TranscriptsDBHandler struct {
	db *helper.Database
}

// NewTranscriptsDBHandler creates a new transcripts database handler.
// It initializes the database connection and loads transcript-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewTranscriptsDBHandler(db *helper.Database, force bool) (*TranscriptsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	transcriptsDbHandler := &TranscriptsDBHandler{
		db: db,
	}

	err := sql.LoadTranscriptsSql(transcriptsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load transcripts sql", err)
	}

	err = transcriptsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized TranscriptsDBHandler")

	return transcriptsDbHandler, nil
}

// CreateTable creates the 'transcripts' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes and triggers.
func (h *TranscriptsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_transcripts();`)
	if err != nil {
		log.Panicf("error initializing transcripts table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table transcripts")

	return nil
}

// InsertTranscript inserts a new transcript
func (h *TranscriptsDBHandler) InsertTranscript(transcript *model.Transcript) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_transcript($1, $2, $3, $4)`,
		transcript.Title,
		transcript.Source,
		transcript.MeetingDate,
		transcript.Metadata,
	)

	err := row.Scan(
		&transcript.ID,
		&transcript.RID,
		&transcript.Title,
		&transcript.Source,
		&transcript.MeetingDate,
		&transcript.Metadata,
		&transcript.CreatedAt,
		&transcript.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectTranscript retrieves a transcript by RID
func (h *TranscriptsDBHandler) SelectTranscript(rid uuid.UUID) (*model.Transcript, error) {
	transcript := &model.Transcript{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_transcript($1)`,
		rid,
	)

	err := row.Scan(
		&transcript.ID,
		&transcript.RID,
		&transcript.Title,
		&transcript.Source,
		&transcript.MeetingDate,
		&transcript.Metadata,
		&transcript.CreatedAt,
		&transcript.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return transcript, nil
}

// SelectAllTranscripts retrieves transcripts with pagination.
// Pass nil for lastCreatedAt to start from the newest transcript.
func (h *TranscriptsDBHandler) SelectAllTranscripts(lastCreatedAt *time.Time, limit int) ([]*model.Transcript, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_transcripts($1, $2)`,
		lastCreatedAt,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var transcripts []*model.Transcript
	for rows.Next() {
		transcript := &model.Transcript{}
		err := rows.Scan(
			&transcript.ID,
			&transcript.RID,
			&transcript.Title,
			&transcript.Source,
			&transcript.MeetingDate,
			&transcript.Metadata,
			&transcript.CreatedAt,
			&transcript.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		transcripts = append(transcripts, transcript)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return transcripts, nil
}

// SelectTranscriptsBySearch retrieves transcripts matching a search term in
// title, source or meeting date
func (h *TranscriptsDBHandler) SelectTranscriptsBySearch(searchTerm string, limit int) ([]*model.Transcript, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM search_transcripts($1, $2)`,
		searchTerm,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var transcripts []*model.Transcript
	for rows.Next() {
		transcript := &model.Transcript{}
		err := rows.Scan(
			&transcript.ID,
			&transcript.RID,
			&transcript.Title,
			&transcript.Source,
			&transcript.MeetingDate,
			&transcript.Metadata,
			&transcript.CreatedAt,
			&transcript.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		transcripts = append(transcripts, transcript)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return transcripts, nil
}

// UpdateTranscript updates title, source, meeting date and metadata of a transcript
func (h *TranscriptsDBHandler) UpdateTranscript(transcript *model.Transcript) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_transcript($1, $2, $3, $4, $5)`,
		transcript.RID,
		transcript.Title,
		transcript.Source,
		transcript.MeetingDate,
		transcript.Metadata,
	)

	err := row.Scan(
		&transcript.ID,
		&transcript.RID,
		&transcript.Title,
		&transcript.Source,
		&transcript.MeetingDate,
		&transcript.Metadata,
		&transcript.CreatedAt,
		&transcript.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteTranscript deletes a transcript by RID, cascading to its passages
func (h *TranscriptsDBHandler) DeleteTranscript(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_transcript($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
