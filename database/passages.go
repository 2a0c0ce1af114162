package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
	loadSql "github.com/jayeshbankoti007/civicgraph/sql"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PassagesDBHandlerFunctions defines the interface for Passages database operations.
type PassagesDBHandlerFunctions interface {
	InsertPassage(passage *model.Passage) error
	UpdatePassageEmbedding(passage *model.Passage) error
	DeletePassage(id int64) error
	SelectPassage(id int64) (*model.Passage, error)
	SelectPassagesByTranscript(transcriptRID uuid.UUID) ([]*model.Passage, error)
	SelectPassagesBySimilarity(embedding []float32, limit int, threshold float64, transcriptRIDs []uuid.UUID) ([]*model.Passage, error)
	SelectPassagesByEntity(entityID int64, limit int) ([]*model.Passage, error)
}

// PassagesDBHandler handles passage-related database operations
type PassagesDBHandler struct {
	db *helper.Database
}

// NewPassagesDBHandler creates a new passages database handler.
// It initializes the database connection and loads passage-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewPassagesDBHandler(db *helper.Database, embeddingDim int, force bool) (*PassagesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	passagesDbHandler := &PassagesDBHandler{
		db: db,
	}

	err := loadSql.LoadPassagesSql(passagesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load passages sql", err)
	}

	err = passagesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized PassagesDBHandler")

	return passagesDbHandler, nil
}

// CreateTable creates the 'passages' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary extensions and indexes.
func (h *PassagesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_passages($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing passages table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table passages")

	return nil
}

// InsertPassage inserts a new passage
func (h *PassagesDBHandler) InsertPassage(passage *model.Passage) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_passage($1, $2, $3, $4, $5, $6)`,
		passage.TranscriptID,
		passage.Content,
		passage.Speaker,
		passage.Position,
		pq.Array(passage.Embedding),
		passage.Metadata,
	)

	err := row.Scan(
		&passage.ID,
		&passage.TranscriptID,
		&passage.TranscriptRID,
		&passage.Content,
		&passage.Speaker,
		&passage.Position,
		pq.Array(&passage.Embedding),
		&passage.Metadata,
		&passage.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// UpdatePassageEmbedding updates the embedding of a passage
func (h *PassagesDBHandler) UpdatePassageEmbedding(passage *model.Passage) error {
	embeddingVector := pgvector.NewVector(passage.Embedding)
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_passage_embedding($1, $2)`,
		passage.ID,
		embeddingVector,
	)

	err := row.Scan(
		&passage.ID,
		&passage.TranscriptID,
		&passage.TranscriptRID,
		&passage.Content,
		&passage.Speaker,
		&passage.Position,
		pq.Array(&passage.Embedding),
		&passage.Metadata,
		&passage.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeletePassage deletes a passage by ID
func (h *PassagesDBHandler) DeletePassage(id int64) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_passage($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectPassage retrieves a passage by ID
func (h *PassagesDBHandler) SelectPassage(id int64) (*model.Passage, error) {
	passage := &model.Passage{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_passage($1)`,
		id,
	)

	err := row.Scan(
		&passage.ID,
		&passage.TranscriptID,
		&passage.TranscriptRID,
		&passage.Content,
		&passage.Speaker,
		&passage.Position,
		pq.Array(&passage.Embedding),
		&passage.Metadata,
		&passage.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return passage, nil
}

// SelectPassagesByTranscript retrieves all passages of a transcript in
// document order
func (h *PassagesDBHandler) SelectPassagesByTranscript(transcriptRID uuid.UUID) ([]*model.Passage, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_passages_by_transcript($1)`,
		transcriptRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var passages []*model.Passage
	for rows.Next() {
		passage := &model.Passage{}
		err := rows.Scan(
			&passage.ID,
			&passage.TranscriptID,
			&passage.TranscriptRID,
			&passage.Content,
			&passage.Speaker,
			&passage.Position,
			pq.Array(&passage.Embedding),
			&passage.Metadata,
			&passage.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		passages = append(passages, passage)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return passages, nil
}

// SelectPassagesBySimilarity performs vector similarity search.
// If transcriptRIDs is nil or empty, searches across all transcripts.
func (h *PassagesDBHandler) SelectPassagesBySimilarity(embedding []float32, limit int, threshold float64, transcriptRIDs []uuid.UUID) ([]*model.Passage, error) {
	embeddingVector := pgvector.NewVector(embedding)

	var transcriptRIDsParam interface{}
	if len(transcriptRIDs) > 0 {
		transcriptRIDsParam = pq.Array(transcriptRIDs)
	} else {
		transcriptRIDsParam = nil
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_passages_by_similarity($1, $2, $3, $4)`,
		embeddingVector,
		limit,
		threshold,
		transcriptRIDsParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var passages []*model.Passage
	for rows.Next() {
		passage := &model.Passage{}
		err := rows.Scan(
			&passage.ID,
			&passage.TranscriptID,
			&passage.TranscriptRID,
			&passage.Content,
			&passage.Speaker,
			&passage.Position,
			&passage.Metadata,
			&passage.CreatedAt,
			&passage.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		passages = append(passages, passage)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return passages, nil
}

// SelectPassagesByEntity retrieves passages mentioning any alias of an entity
func (h *PassagesDBHandler) SelectPassagesByEntity(entityID int64, limit int) ([]*model.Passage, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_passages_by_entity($1, $2)`,
		entityID,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var passages []*model.Passage
	for rows.Next() {
		passage := &model.Passage{}
		err := rows.Scan(
			&passage.ID,
			&passage.TranscriptID,
			&passage.TranscriptRID,
			&passage.Content,
			&passage.Speaker,
			&passage.Position,
			&passage.Metadata,
			&passage.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		passages = append(passages, passage)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return passages, nil
}
