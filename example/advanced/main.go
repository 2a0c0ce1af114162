package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/jayeshbankoti007/civicgraph"
	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
)

// Extractions from two council meetings, the kind an LLM extraction run
// produces. Note the bill id and organization name variants across meetings.
func sampleExtractions() []*model.TranscriptExtraction {
	return []*model.TranscriptExtraction{
		{
			Bills: []model.Bill{
				{
					ID:         "25-O-1271",
					Title:      "An ordinance to authorize funding for the Beltline Expansion project",
					Type:       "ordinance",
					Prediction: model.PredictionApproved,
					Confidence: model.ConfidenceHigh,
					Reasoning:  "Unanimous committee recommendation and no public opposition.",
				},
			},
			People: []model.Person{
				{Name: "Howard Shook", Role: "councilmember", Organization: "Finance Committee"},
				{Name: "Antonio Lewis", Role: "councilmember"},
			},
			Organizations: []model.Organization{
				{Name: "Department of Transportation", Type: "department"},
			},
			Projects: []model.Project{
				{Name: "Beltline Expansion", Type: "infrastructure", Amount: "2.4 million"},
			},
			Votes: []model.Vote{
				{BillID: "25-O-1271", Person: "Howard Shook", Value: model.VoteYes},
				{BillID: "25-O-1271", Person: "Antonio Lewis", Value: model.VoteYes},
			},
			SourceFile: "council_march_03.json",
		},
		{
			Bills: []model.Bill{
				{
					ID:         "25-o-1271",
					Title:      "Funding for the Beltline Expansion",
					Type:       "ordinance",
					Prediction: model.PredictionApproved,
					Confidence: model.ConfidenceMedium,
					Reasoning:  "Second reading, carried over from the previous session.",
				},
			},
			People: []model.Person{
				{Name: "Councilmember Shook", Role: "councilmember", Organization: "Committee on Finance"},
			},
			Votes: []model.Vote{
				{BillID: "25-o-1271", Person: "Councilmember Shook", Value: model.VoteYes},
			},
			SourceFile: "council_march_17.json",
		},
	}
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		User:     "postgres",
		Password: "postgres",
		Name:     "civicgraph",
		SSLMode:  "disable",
	}

	c, err := civicgraph.NewCivicgraph(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create civicgraph: %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	extractions := sampleExtractions()

	// With an API key set, extractions can be produced from raw transcripts
	// instead of the canned fixtures above
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		if err := c.UseLLMExtractor(""); err != nil {
			log.Fatalf("Failed to set up extractor: %v", err)
		}
		fmt.Println("LLM extractor configured, call c.ExtractEntities(ctx, transcript) to extract from raw text")
	}

	// Resolve mention variants to canonical names
	fmt.Println("=== Resolving Entities ===")
	resolution, err := c.ResolveEntities(extractions)
	if err != nil {
		log.Fatalf("Failed to resolve entities: %v", err)
	}

	for _, entityType := range model.EntityTypes {
		names := resolution.CanonicalNames(entityType)
		fmt.Printf("%s: %d canonical entities\n", entityType, len(names))
		for _, name := range names {
			fmt.Printf("  %s <- %v\n", name, resolution.Canonical[entityType][name])
		}
	}

	// Build the knowledge graph from the resolved extractions
	fmt.Println("\n=== Building Graph ===")
	g := c.BuildGraph(extractions, resolution)

	nodeCounts, edgeCounts := g.Stats()
	fmt.Printf("Nodes: %v\n", nodeCounts)
	fmt.Printf("Edges: %v\n", edgeCounts)

	// Persist the graph to the entities and edges tables
	fmt.Println("\n=== Persisting Graph ===")
	numEntities, numEdges, err := c.PersistGraph(g)
	if err != nil {
		log.Fatalf("Failed to persist graph: %v", err)
	}
	fmt.Printf("Persisted %d entities and %d edges\n", numEntities, numEdges)

	// Export the graph for external visualization
	graphmlPath := filepath.Join(os.TempDir(), "civicgraph.graphml")
	if err := c.ExportGraphML(graphmlPath, g); err != nil {
		log.Fatalf("Failed to export GraphML: %v", err)
	}
	fmt.Printf("Exported GraphML to %s\n", graphmlPath)

	// Traverse the graph from a council member
	fmt.Println("\n=== Traversing Graph ===")
	shookName := resolution.Aliases.Canonical(model.EntityTypePerson, "Howard Shook")
	shook, err := c.Entities.SelectEntityByName(shookName, model.EntityTypePerson)
	if err != nil {
		log.Fatalf("Failed to look up entity: %v", err)
	}

	results, err := c.BFSTraversal(ctx, shook.RID, 2, nil)
	if err != nil {
		log.Fatalf("Failed to traverse graph: %v", err)
	}

	fmt.Printf("Entities within 2 hops of %s:\n", shook.Name)
	for _, result := range results {
		fmt.Printf("  distance %d: %s (%s)\n", result.Distance, result.Entity.Name, result.Entity.Type)
	}

	// List who voted on the bill
	billName := resolution.Aliases.Canonical(model.EntityTypeBill, "25-O-1271")
	bill, err := c.Entities.SelectEntityByName(billName, model.EntityTypeBill)
	if err != nil {
		log.Fatalf("Failed to look up bill: %v", err)
	}

	voters, err := c.Neighbors(ctx, bill.RID, []model.RelationType{model.RelationVotedOn})
	if err != nil {
		log.Fatalf("Failed to get voters: %v", err)
	}

	fmt.Printf("\nVoters on %s:\n", bill.Name)
	for _, voter := range voters {
		fmt.Printf("  %s (aliases: %v)\n", voter.Name, voter.Aliases)
	}

	fmt.Println("\nAdvanced example completed successfully!")
}
