package graph

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jayeshbankoti007/civicgraph/model"
)

// Node is a canonical entity node of the in-memory knowledge graph
type Node struct {
	Key      string           `json:"key"`
	Name     string           `json:"name"`
	Type     model.EntityType `json:"entity_type"`
	Aliases  []string         `json:"aliases,omitempty"`
	Metadata model.Metadata   `json:"metadata,omitempty"`
}

// Edge is a typed relation between two nodes, referenced by node key
type Edge struct {
	Source   string             `json:"source"`
	Target   string             `json:"target"`
	Relation model.RelationType `json:"relation"`
	Metadata model.Metadata     `json:"metadata,omitempty"`
}

// Graph is the in-memory knowledge graph built from resolved extractions
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []*Edge          `json:"edges"`
}

// NodeKey builds the stable node identifier for an entity type and canonical name
func NodeKey(entityType model.EntityType, name string) string {
	return string(entityType) + ":" + name
}

// SortedNodes returns the graph nodes sorted by key
func (g *Graph) SortedNodes() []*Node {
	nodes := make([]*Node, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Key < nodes[j].Key
	})
	return nodes
}

// Stats counts nodes per entity type and edges per relation type
func (g *Graph) Stats() (map[model.EntityType]int, map[model.RelationType]int) {
	nodeCounts := make(map[model.EntityType]int)
	for _, node := range g.Nodes {
		nodeCounts[node.Type]++
	}
	edgeCounts := make(map[model.RelationType]int)
	for _, edge := range g.Edges {
		edgeCounts[edge.Relation]++
	}
	return nodeCounts, edgeCounts
}

// Builder assembles a knowledge graph from per-transcript extractions and a
// resolution artifact. Every mention is mapped to its canonical entity before
// nodes and edges are created, so transcript-level name variants collapse
// into single nodes.
type Builder struct {
	resolution *model.Resolution
	log        *slog.Logger
}

// NewBuilder creates a Builder for one resolution artifact
func NewBuilder(resolution *model.Resolution, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{resolution: resolution, log: logger}
}

// Build creates the graph from all extractions. Nodes carry the union of
// observed aliases and the latest extraction attributes, edges are
// deduplicated by (source, target, relation).
func (b *Builder) Build(extractions []*model.TranscriptExtraction) *Graph {
	g := &Graph{Nodes: make(map[string]*Node)}
	seenEdges := make(map[string]bool)

	for _, extraction := range extractions {
		b.addBills(g, extraction)
		b.addPeople(g, extraction)
		b.addOrganizations(g, extraction)
		b.addProjects(g, extraction)
	}

	for _, extraction := range extractions {
		b.addVoteEdges(g, seenEdges, extraction)
		b.addMembershipEdges(g, seenEdges, extraction)
		b.addAuthorizationEdges(g, seenEdges, extraction)
		b.addRelationEdges(g, seenEdges, extraction)
		b.addMentionEdges(g, seenEdges, extraction)
	}

	nodeCounts, edgeCounts := g.Stats()
	b.log.Info("Built knowledge graph",
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)),
		slog.Any("node_counts", nodeCounts),
		slog.Any("edge_counts", edgeCounts),
	)

	return g
}

func (b *Builder) canonical(entityType model.EntityType, raw string) string {
	return b.resolution.Aliases.Canonical(entityType, raw)
}

// node returns the graph node for a canonical name, creating it on first use
func (b *Builder) node(g *Graph, entityType model.EntityType, name string) *Node {
	key := NodeKey(entityType, name)
	if existing, ok := g.Nodes[key]; ok {
		return existing
	}

	node := &Node{
		Key:      key,
		Name:     name,
		Type:     entityType,
		Metadata: model.Metadata{},
	}
	if segment, ok := b.resolution.Canonical[entityType]; ok {
		node.Aliases = segment[name]
	}
	g.Nodes[key] = node

	return node
}

func (b *Builder) addEdge(g *Graph, seen map[string]bool, source, target string, relation model.RelationType, metadata model.Metadata) {
	id := fmt.Sprintf("%s|%s|%s", source, target, relation)
	if seen[id] {
		return
	}
	seen[id] = true

	g.Edges = append(g.Edges, &Edge{
		Source:   source,
		Target:   target,
		Relation: relation,
		Metadata: metadata,
	})
}

func (b *Builder) addBills(g *Graph, extraction *model.TranscriptExtraction) {
	for _, bill := range extraction.Bills {
		name := b.canonical(model.EntityTypeBill, bill.ID)
		node := b.node(g, model.EntityTypeBill, name)
		node.Metadata["title"] = bill.Title
		node.Metadata["prediction"] = string(bill.Prediction)
		node.Metadata["confidence"] = string(bill.Confidence)
		if bill.Type != "" {
			node.Metadata["bill_type"] = bill.Type
		}
		if bill.Reasoning != "" {
			node.Metadata["reasoning"] = bill.Reasoning
		}
	}
}

func (b *Builder) addPeople(g *Graph, extraction *model.TranscriptExtraction) {
	for _, person := range extraction.People {
		name := b.canonical(model.EntityTypePerson, person.Name)
		node := b.node(g, model.EntityTypePerson, name)
		if person.Role != "" {
			node.Metadata["role"] = person.Role
		}
		if person.Organization != "" {
			node.Metadata["organization"] = b.canonical(model.EntityTypeOrganization, person.Organization)
		}
	}
}

func (b *Builder) addOrganizations(g *Graph, extraction *model.TranscriptExtraction) {
	for _, org := range extraction.Organizations {
		name := b.canonical(model.EntityTypeOrganization, org.Name)
		node := b.node(g, model.EntityTypeOrganization, name)
		if org.Type != "" {
			node.Metadata["org_type"] = org.Type
		}
	}
	// Affiliations introduce organizations that never appear standalone
	for _, person := range extraction.People {
		if person.Organization != "" {
			b.node(g, model.EntityTypeOrganization, b.canonical(model.EntityTypeOrganization, person.Organization))
		}
	}
}

func (b *Builder) addProjects(g *Graph, extraction *model.TranscriptExtraction) {
	for _, project := range extraction.Projects {
		name := b.canonical(model.EntityTypeProject, project.Name)
		node := b.node(g, model.EntityTypeProject, name)
		if project.Type != "" {
			node.Metadata["project_type"] = project.Type
		}
		if project.Location != "" {
			node.Metadata["location"] = project.Location
		}
		if project.Amount != "" {
			node.Metadata["amount"] = project.Amount
		}
	}
}

// addVoteEdges adds person -> bill voted_on edges for every recorded vote
func (b *Builder) addVoteEdges(g *Graph, seen map[string]bool, extraction *model.TranscriptExtraction) {
	for _, vote := range extraction.Votes {
		person := b.canonical(model.EntityTypePerson, vote.Person)
		bill := b.canonical(model.EntityTypeBill, vote.BillID)
		b.node(g, model.EntityTypePerson, person)
		b.node(g, model.EntityTypeBill, bill)

		b.addEdge(g, seen,
			NodeKey(model.EntityTypePerson, person),
			NodeKey(model.EntityTypeBill, bill),
			model.RelationVotedOn,
			model.Metadata{"vote": string(vote.Value), "source_file": extraction.SourceFile},
		)
	}
}

// addMembershipEdges adds person -> organization member_of edges from
// affiliations
func (b *Builder) addMembershipEdges(g *Graph, seen map[string]bool, extraction *model.TranscriptExtraction) {
	for _, person := range extraction.People {
		if person.Organization == "" {
			continue
		}
		personName := b.canonical(model.EntityTypePerson, person.Name)
		orgName := b.canonical(model.EntityTypeOrganization, person.Organization)

		metadata := model.Metadata{}
		if person.Role != "" {
			metadata["role"] = person.Role
		}
		b.addEdge(g, seen,
			NodeKey(model.EntityTypePerson, personName),
			NodeKey(model.EntityTypeOrganization, orgName),
			model.RelationMemberOf,
			metadata,
		)
	}
}

// addAuthorizationEdges adds bill -> project authorizes edges when a project
// name appears in a bill title from the same transcript
func (b *Builder) addAuthorizationEdges(g *Graph, seen map[string]bool, extraction *model.TranscriptExtraction) {
	for _, bill := range extraction.Bills {
		title := strings.ToLower(bill.Title)
		for _, project := range extraction.Projects {
			if !strings.Contains(title, strings.ToLower(project.Name)) {
				continue
			}
			billName := b.canonical(model.EntityTypeBill, bill.ID)
			projectName := b.canonical(model.EntityTypeProject, project.Name)
			b.addEdge(g, seen,
				NodeKey(model.EntityTypeBill, billName),
				NodeKey(model.EntityTypeProject, projectName),
				model.RelationAuthorizes,
				model.Metadata{"source_file": extraction.SourceFile},
			)
		}
	}
}

// addRelationEdges adds bill -> organization relates_to edges when an
// organization is named in a bill title or reasoning
func (b *Builder) addRelationEdges(g *Graph, seen map[string]bool, extraction *model.TranscriptExtraction) {
	for _, bill := range extraction.Bills {
		text := strings.ToLower(bill.Title + " " + bill.Reasoning)
		for _, org := range extraction.Organizations {
			if !strings.Contains(text, strings.ToLower(org.Name)) {
				continue
			}
			billName := b.canonical(model.EntityTypeBill, bill.ID)
			orgName := b.canonical(model.EntityTypeOrganization, org.Name)
			b.addEdge(g, seen,
				NodeKey(model.EntityTypeBill, billName),
				NodeKey(model.EntityTypeOrganization, orgName),
				model.RelationRelatesTo,
				model.Metadata{"source_file": extraction.SourceFile},
			)
		}
	}
}

// addMentionEdges adds person -> bill mentioned_in edges for co-occurrence in
// one transcript, unless the pair is already connected by a vote
func (b *Builder) addMentionEdges(g *Graph, seen map[string]bool, extraction *model.TranscriptExtraction) {
	for _, person := range extraction.People {
		personName := b.canonical(model.EntityTypePerson, person.Name)
		for _, bill := range extraction.Bills {
			billName := b.canonical(model.EntityTypeBill, bill.ID)

			voteID := fmt.Sprintf("%s|%s|%s",
				NodeKey(model.EntityTypePerson, personName),
				NodeKey(model.EntityTypeBill, billName),
				model.RelationVotedOn,
			)
			if seen[voteID] {
				continue
			}

			b.addEdge(g, seen,
				NodeKey(model.EntityTypePerson, personName),
				NodeKey(model.EntityTypeBill, billName),
				model.RelationMentionedIn,
				model.Metadata{"source_file": extraction.SourceFile},
			)
		}
	}
}
