package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jayeshbankoti007/civicgraph"
	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
)

const sampleTranscript = `MAYOR DICKENS: I call this meeting of the city council to order. The first item on the agenda is ordinance 25-O-1271, an ordinance to authorize funding for the sidewalk repair program in District 7.

COUNCILMEMBER SHOOK: Thank you, Mayor. The finance committee reviewed this ordinance last week and recommends approval. The program allocates 2.4 million dollars for repairs along the Peachtree corridor.

COUNCILMEMBER LEWIS: I want to note that the Department of Transportation has confirmed the work can begin this summer. I move to adopt.

MAYOR DICKENS: There is a motion and a second. All in favor? The ordinance is adopted unanimously.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
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

	// Set up the default pipeline (speaker turn chunking + embeddings)
	if err := c.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Create transcript with content
	transcript := &model.Transcript{
		Title:       "City Council Meeting",
		Source:      "basic_example",
		MeetingDate: "2025-03-03",
		Content:     sampleTranscript,
		Metadata: model.Metadata{
			"body": "city council",
		},
	}

	// Chunk, embed and insert the transcript in one call
	fmt.Println("Ingesting transcript...")
	numPassages, err := c.IngestTranscript(transcript)
	if err != nil {
		log.Fatalf("Failed to ingest transcript: %v", err)
	}
	fmt.Printf("Transcript inserted with ID: %s\n", transcript.RID)
	fmt.Printf("Inserted %d passages\n", numPassages)

	// Perform a vector search over the stored passages
	queryText := "Who funded the sidewalk repair program?"

	fmt.Printf("\nQuerying: %s\n", queryText)

	results, err := c.SearchPassages(queryText, 5, 0.0, nil)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	// Display results
	fmt.Printf("\nFound %d results:\n", len(results))
	for i, result := range results {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Similarity: %.4f\n", result.Similarity)
		fmt.Printf("Speaker: %s\n", result.Speaker)
		fmt.Printf("Content: %s\n", result.Content)
	}

	fmt.Println("\nBasic example completed successfully!")
}
