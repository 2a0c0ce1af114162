package graph

import (
	"context"

	"github.com/google/uuid"
	"github.com/jayeshbankoti007/civicgraph/model"
)

// GraphDB defines the persistence interface for graph traversal
type GraphDB interface {
	GetEntity(ctx context.Context, rid string) (*model.Entity, error)
	GetEdgesOfEntity(ctx context.Context, rid string, relations []model.RelationType) ([]*model.Edge, error)
}

// TraversalResult contains an entity and its distance from the source
type TraversalResult struct {
	Entity   *model.Entity
	Distance int
	Path     []uuid.UUID // Path from source to this entity
}

// BFS performs breadth-first search from a source entity. Edges are followed
// in both directions, a vote on a bill connects the person and the bill for
// traversal purposes either way.
func BFS(ctx context.Context, db GraphDB, sourceRID uuid.UUID, maxHops int, relations []model.RelationType) ([]*TraversalResult, error) {
	sourceEntity, err := db.GetEntity(ctx, sourceRID.String())
	if err != nil {
		return nil, err
	}

	visited := map[uuid.UUID]bool{sourceRID: true}
	queue := []TraversalResult{{
		Entity:   sourceEntity,
		Distance: 0,
		Path:     []uuid.UUID{sourceRID},
	}}

	var results []*TraversalResult

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		if current.Distance >= maxHops {
			continue
		}

		edges, err := db.GetEdgesOfEntity(ctx, current.Entity.RID.String(), relations)
		if err != nil {
			return nil, err
		}

		for _, edge := range edges {
			targetRID := neighborRID(edge, current.Entity.RID)
			if visited[targetRID] {
				continue
			}

			targetEntity, err := db.GetEntity(ctx, targetRID.String())
			if err != nil {
				continue // Skip dangling edges
			}

			visited[targetRID] = true

			newPath := make([]uuid.UUID, len(current.Path))
			copy(newPath, current.Path)
			newPath = append(newPath, targetRID)

			queue = append(queue, TraversalResult{
				Entity:   targetEntity,
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results, nil
}

// DFS performs depth-first search from a source entity
func DFS(ctx context.Context, db GraphDB, sourceRID uuid.UUID, maxHops int, relations []model.RelationType) ([]*TraversalResult, error) {
	sourceEntity, err := db.GetEntity(ctx, sourceRID.String())
	if err != nil {
		return nil, err
	}

	visited := make(map[uuid.UUID]bool)
	var results []*TraversalResult

	dfsRecursive(ctx, db, sourceEntity, 0, maxHops, []uuid.UUID{sourceRID}, relations, visited, &results)

	return results, nil
}

func dfsRecursive(
	ctx context.Context,
	db GraphDB,
	current *model.Entity,
	distance int,
	maxHops int,
	path []uuid.UUID,
	relations []model.RelationType,
	visited map[uuid.UUID]bool,
	results *[]*TraversalResult,
) {
	visited[current.RID] = true

	pathCopy := make([]uuid.UUID, len(path))
	copy(pathCopy, path)
	*results = append(*results, &TraversalResult{
		Entity:   current,
		Distance: distance,
		Path:     pathCopy,
	})

	if distance >= maxHops {
		return
	}

	edges, err := db.GetEdgesOfEntity(ctx, current.RID.String(), relations)
	if err != nil {
		return
	}

	for _, edge := range edges {
		targetRID := neighborRID(edge, current.RID)
		if visited[targetRID] {
			continue
		}

		targetEntity, err := db.GetEntity(ctx, targetRID.String())
		if err != nil {
			continue // Skip dangling edges
		}

		newPath := make([]uuid.UUID, len(path))
		copy(newPath, path)
		newPath = append(newPath, targetRID)

		dfsRecursive(ctx, db, targetEntity, distance+1, maxHops, newPath, relations, visited, results)
	}
}

// GetNeighbors retrieves immediate neighbors (1-hop) of an entity
func GetNeighbors(ctx context.Context, db GraphDB, entityRID uuid.UUID, relations []model.RelationType) ([]*model.Entity, error) {
	results, err := BFS(ctx, db, entityRID, 1, relations)
	if err != nil {
		return nil, err
	}

	// Skip the source entity itself (first result)
	neighbors := make([]*model.Entity, 0, len(results)-1)
	for i := 1; i < len(results); i++ {
		neighbors = append(neighbors, results[i].Entity)
	}

	return neighbors, nil
}

// neighborRID returns the RID on the far side of an edge relative to from
func neighborRID(edge *model.Edge, from uuid.UUID) uuid.UUID {
	if edge.SourceRID == from {
		return edge.TargetRID
	}
	return edge.SourceRID
}
