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
	"github.com/lib/pq"
)

// EdgesDBHandlerFunctions defines the interface for Edges database operations.
type EdgesDBHandlerFunctions interface {
	InsertEdge(edge *model.Edge) error
	DeleteEdge(id int64) error
	DeleteEdgesOfEntity(rid uuid.UUID) error
	SelectEdge(id int64) (*model.Edge, error)
	SelectEdgesOfEntity(rid uuid.UUID, relations []model.RelationType) ([]*model.Edge, error)
	SelectEdgesBetween(sourceRID uuid.UUID, targetRID uuid.UUID) ([]*model.Edge, error)
	SelectEdgesConnectedToEntity(rid uuid.UUID, relation *model.RelationType) ([]*model.EdgeConnection, error)
	TraverseBFSFromEntity(startRID uuid.UUID, maxDepth int, relation *model.RelationType) ([]*model.TraversalNode, error)
}

// EdgesDBHandler handles edge-related database operations
type EdgesDBHandler struct {
	db *helper.Database
}

// NewEdgesDBHandler creates a new edges database handler.
// It initializes the database connection and loads edge-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEdgesDBHandler(db *helper.Database, force bool) (*EdgesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	edgesDbHandler := &EdgesDBHandler{
		db: db,
	}

	err := sql.LoadEdgesSql(edgesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load edges sql", err)
	}

	err = edgesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EdgesDBHandler")

	return edgesDbHandler, nil
}

// CreateTable creates the 'edges' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *EdgesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_edges();`)
	if err != nil {
		log.Panicf("error initializing edges table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table edges")

	return nil
}

// InsertEdge inserts a new edge or updates the metadata of an existing one
func (h *EdgesDBHandler) InsertEdge(edge *model.Edge) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_edge($1, $2, $3, $4)`,
		edge.SourceRID,
		edge.TargetRID,
		edge.Relation,
		edge.Metadata,
	)

	err := row.Scan(
		&edge.ID,
		&edge.SourceRID,
		&edge.TargetRID,
		&edge.Relation,
		&edge.Metadata,
		&edge.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteEdge deletes an edge by ID
func (h *EdgesDBHandler) DeleteEdge(id int64) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_edge($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// DeleteEdgesOfEntity deletes all edges touching an entity
func (h *EdgesDBHandler) DeleteEdgesOfEntity(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_edges_of_entity($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectEdge retrieves an edge by ID
func (h *EdgesDBHandler) SelectEdge(id int64) (*model.Edge, error) {
	edge := &model.Edge{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_edge($1)`,
		id,
	)

	err := row.Scan(
		&edge.ID,
		&edge.SourceRID,
		&edge.TargetRID,
		&edge.Relation,
		&edge.Metadata,
		&edge.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return edge, nil
}

// SelectEdgesOfEntity retrieves all edges touching an entity, in either
// direction. Pass nil for relations to get all relation types.
func (h *EdgesDBHandler) SelectEdgesOfEntity(rid uuid.UUID, relations []model.RelationType) ([]*model.Edge, error) {
	var relationsParam interface{}
	if len(relations) > 0 {
		relationStrings := make([]string, 0, len(relations))
		for _, relation := range relations {
			relationStrings = append(relationStrings, string(relation))
		}
		relationsParam = pq.Array(relationStrings)
	} else {
		relationsParam = nil
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_edges_of_entity($1, $2)`,
		rid,
		relationsParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var edges []*model.Edge
	for rows.Next() {
		edge := &model.Edge{}
		err := rows.Scan(
			&edge.ID,
			&edge.SourceRID,
			&edge.TargetRID,
			&edge.Relation,
			&edge.Metadata,
			&edge.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		edges = append(edges, edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}

// SelectEdgesConnectedToEntity retrieves all edges touching an entity with
// direction information relative to it. Pass nil for relation to get all
// relation types.
func (h *EdgesDBHandler) SelectEdgesConnectedToEntity(rid uuid.UUID, relation *model.RelationType) ([]*model.EdgeConnection, error) {
	var relationParam interface{}
	if relation != nil {
		relationParam = string(*relation)
	} else {
		relationParam = nil
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_edges_connected_to_entity($1, $2)`,
		rid,
		relationParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var connections []*model.EdgeConnection
	for rows.Next() {
		edge := &model.Edge{}
		var isOutgoing bool
		err := rows.Scan(
			&edge.ID,
			&edge.SourceRID,
			&edge.TargetRID,
			&edge.Relation,
			&edge.Metadata,
			&edge.CreatedAt,
			&isOutgoing,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		connections = append(connections, &model.EdgeConnection{
			Edge:       edge,
			IsOutgoing: isOutgoing,
		})
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return connections, nil
}

// TraverseBFSFromEntity performs breadth-first search from a starting entity
// inside the database with a recursive query. Each reachable entity is
// returned once at its minimum depth, with the path of entity RIDs from the
// start. Pass nil for relation to follow all relation types.
func (h *EdgesDBHandler) TraverseBFSFromEntity(startRID uuid.UUID, maxDepth int, relation *model.RelationType) ([]*model.TraversalNode, error) {
	var relationParam interface{}
	if relation != nil {
		relationParam = string(*relation)
	} else {
		relationParam = nil
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM traverse_bfs_from_entity($1, $2, $3)`,
		startRID,
		maxDepth,
		relationParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*model.TraversalNode
	for rows.Next() {
		node := &model.TraversalNode{}
		err := rows.Scan(
			&node.EntityRID,
			&node.Depth,
			pq.Array(&node.Path),
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// SelectEdgesBetween retrieves all edges from one entity to another
func (h *EdgesDBHandler) SelectEdgesBetween(sourceRID uuid.UUID, targetRID uuid.UUID) ([]*model.Edge, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_edges_between($1, $2)`,
		sourceRID,
		targetRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var edges []*model.Edge
	for rows.Next() {
		edge := &model.Edge{}
		err := rows.Scan(
			&edge.ID,
			&edge.SourceRID,
			&edge.TargetRID,
			&edge.Relation,
			&edge.Metadata,
			&edge.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		edges = append(edges, edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}
