package model

import (
	"time"

	"github.com/google/uuid"
)

// RelationType is the type of relationship between two canonical entities
type RelationType string

const (
	RelationVotedOn     RelationType = "voted_on"     // person -> bill
	RelationMemberOf    RelationType = "member_of"    // person -> organization
	RelationMentionedIn RelationType = "mentioned_in" // person -> bill
	RelationAuthorizes  RelationType = "authorizes"   // bill -> project
	RelationRelatesTo   RelationType = "relates_to"   // bill -> organization
)

// RelationTypes lists all known relation types
var RelationTypes = []RelationType{
	RelationVotedOn,
	RelationMemberOf,
	RelationMentionedIn,
	RelationAuthorizes,
	RelationRelatesTo,
}

// Edge represents a typed relationship between two canonical entities.
// Relation-specific detail (vote value, role) lives in Metadata.
type Edge struct {
	ID        int64        `json:"id"`
	SourceRID uuid.UUID    `json:"source_rid"`
	TargetRID uuid.UUID    `json:"target_rid"`
	Relation  RelationType `json:"relation"`
	Metadata  Metadata     `json:"metadata,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// EdgeConnection represents an edge with directional information relative to
// the entity it was queried from
type EdgeConnection struct {
	Edge       *Edge `json:"edge"`
	IsOutgoing bool  `json:"is_outgoing"`
}

// TraversalNode represents an entity reached during a graph traversal
type TraversalNode struct {
	EntityRID uuid.UUID   `json:"entity_rid"`
	Depth     int         `json:"depth"`
	Path      []uuid.UUID `json:"path"`
}
