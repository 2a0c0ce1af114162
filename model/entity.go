package model

import (
	"time"

	"github.com/google/uuid"
)

// EntityType classifies a mention or a canonical entity
type EntityType string

const (
	EntityTypePerson       EntityType = "person"
	EntityTypeBill         EntityType = "bill"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeProject      EntityType = "project"
)

// EntityTypes lists all known entity types in routing order
var EntityTypes = []EntityType{
	EntityTypePerson,
	EntityTypeBill,
	EntityTypeOrganization,
	EntityTypeProject,
}

// Valid reports whether t is a known entity type
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypePerson, EntityTypeBill, EntityTypeOrganization, EntityTypeProject:
		return true
	}
	return false
}

// Mention is a raw entity string as it appears in a transcript.
// Mentions are ephemeral, produced per transcript by the extraction stage.
type Mention struct {
	Type EntityType `json:"entity_type"`
	Text string     `json:"text"`
}

// Entity represents a canonical entity node in the knowledge graph.
// Name is the representative chosen for a cluster of equivalent mentions,
// Aliases holds every raw form observed in the corpus.
type Entity struct {
	ID        int64      `json:"id"`
	RID       uuid.UUID  `json:"rid"`
	Name      string     `json:"name"`
	Type      EntityType `json:"entity_type"`
	Aliases   []string   `json:"aliases,omitempty"`
	Metadata  Metadata   `json:"metadata,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
