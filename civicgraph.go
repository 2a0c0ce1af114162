package civicgraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jayeshbankoti007/civicgraph/core/extract"
	"github.com/jayeshbankoti007/civicgraph/core/graph"
	"github.com/jayeshbankoti007/civicgraph/core/pipeline"
	"github.com/jayeshbankoti007/civicgraph/core/resolve"
	"github.com/jayeshbankoti007/civicgraph/database"
	"github.com/jayeshbankoti007/civicgraph/helper"
	"github.com/jayeshbankoti007/civicgraph/model"
	loadSql "github.com/jayeshbankoti007/civicgraph/sql"
)

// Civicgraph provides a unified interface to all database handlers and
// processing stages
type Civicgraph struct {
	DB          *helper.Database
	Transcripts *database.TranscriptsDBHandler
	Passages    *database.PassagesDBHandler
	Entities    *database.EntitiesDBHandler
	Edges       *database.EdgesDBHandler
	Pipeline    *pipeline.Pipeline // Optional chunking and embedding pipeline
	Resolver    *resolve.Resolver
	Extractor   extract.ExtractFunc // Optional entity extraction stage
	Store       *extract.Store      // Optional extraction artifact store
	// Logging
	log *slog.Logger
}

// NewCivicgraph creates a new Civicgraph instance with all handlers initialized
func NewCivicgraph(config *helper.DatabaseConfiguration, embeddingDim int) (*Civicgraph, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("civicgraph", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers in the correct order (transcripts before passages,
	// entities before edges). force=false to not reload if functions already exist
	transcripts, err := database.NewTranscriptsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create transcripts handler", err)
	}

	passages, err := database.NewPassagesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create passages handler", err)
	}

	entities, err := database.NewEntitiesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	edges, err := database.NewEdgesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create edges handler", err)
	}

	resolver, err := resolve.NewResolver(model.DefaultResolverConfig(), logger)
	if err != nil {
		return nil, helper.NewError("create resolver", err)
	}

	return &Civicgraph{
		DB:          db,
		Transcripts: transcripts,
		Passages:    passages,
		Entities:    entities,
		Edges:       edges,
		Resolver:    resolver,
		log:         logger,
	}, nil
}

// Close closes the database connection
func (c *Civicgraph) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the chunking pipeline for transcript processing
func (c *Civicgraph) SetPipeline(pipeline *pipeline.Pipeline) {
	c.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default speaker turn chunking and embedding
// pipeline. This uses SpeakerTurnChunker with 800 char max passages and
// DefaultEmbedder with the all-MiniLM-L6-v2 model (384 dimensions)
func (c *Civicgraph) UseDefaultPipeline() error {
	chunker := pipeline.SpeakerTurnChunker(800)
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	c.Pipeline = pipeline.NewPipeline(chunker, embedder)
	return nil
}

// UseNERCollector attaches the token classification model as mention collector
// to the pipeline, so passages carry raw entity mentions during ingestion
func (c *Civicgraph) UseNERCollector() error {
	if c.Pipeline == nil {
		return helper.NewError("attach mention collector", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	collector, err := extract.DefaultMentionCollector()
	if err != nil {
		return helper.NewError("create mention collector", err)
	}

	c.Pipeline.SetMentionCollector(pipeline.MentionCollectFunc(collector))
	return nil
}

// SetExtractor sets the entity extraction stage
func (c *Civicgraph) SetExtractor(extractor extract.ExtractFunc) {
	c.Extractor = extractor
}

// UseLLMExtractor sets up the default language model extraction stage.
// The API key falls back to the ANTHROPIC_API_KEY environment variable
func (c *Civicgraph) UseLLMExtractor(apiKey string) error {
	extractor, err := extract.NewLLMExtractor(apiKey, c.log)
	if err != nil {
		return helper.NewError("create llm extractor", err)
	}

	c.Extractor = extractor.ExtractFunc()
	return nil
}

// SetExtractionStore sets the directory extraction artifacts are written to
// and loaded from
func (c *Civicgraph) SetExtractionStore(dir string) error {
	store, err := extract.NewStore(dir, c.log)
	if err != nil {
		return helper.NewError("create extraction store", err)
	}

	c.Store = store
	return nil
}

// IngestTranscript processes a transcript by:
// 1. Inserting the transcript metadata (without content)
// 2. Chunking the content into speaker passages using the pipeline
// 3. Embedding and inserting all passages with the transcript ID
// The transcript's Content field is used for processing but not stored in the
// database. Returns the number of passages inserted and any error encountered.
func (c *Civicgraph) IngestTranscript(transcript *model.Transcript) (int, error) {
	if c.Pipeline == nil {
		return 0, helper.NewError("ingest transcript", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if transcript.Content == "" {
		return 0, helper.NewError("ingest transcript", fmt.Errorf("transcript content is empty"))
	}

	// Store content temporarily and clear it before DB insert
	content := transcript.Content
	transcript.Content = ""

	// Insert transcript metadata
	if err := c.Transcripts.InsertTranscript(transcript); err != nil {
		return 0, helper.NewError("insert transcript", err)
	}

	c.log.Info("Inserted transcript", slog.String("transcript_id", transcript.RID.String()), slog.String("title", transcript.Title))

	// Process content into passages
	passages, err := c.Pipeline.Process(content)
	if err != nil {
		return 0, helper.NewError("process passages", err)
	}

	c.log.Info("Processed transcript into passages", slog.Int("num_passages", len(passages)), slog.String("transcript_id", transcript.RID.String()))

	// Insert all passages
	for i, passage := range passages {
		passage.TranscriptID = transcript.ID
		if err := c.Passages.InsertPassage(passage); err != nil {
			return i, helper.NewError(fmt.Sprintf("insert passage %d", i), err)
		}
	}

	return len(passages), nil
}

// ExtractEntities runs the extraction stage on a transcript's content and
// returns the typed extraction. When an extraction store is set, the result is
// also written there under the transcript title.
func (c *Civicgraph) ExtractEntities(ctx context.Context, transcript *model.Transcript) (*model.TranscriptExtraction, error) {
	if c.Extractor == nil {
		return nil, helper.NewError("extract entities", fmt.Errorf("extractor not set, use SetExtractor() first"))
	}

	if transcript.Content == "" {
		return nil, helper.NewError("extract entities", fmt.Errorf("transcript content is empty"))
	}

	extraction, err := c.Extractor(ctx, transcript, transcript.Content)
	if err != nil {
		return nil, helper.NewError("extract entities", err)
	}

	c.log.Info("Extracted entities",
		slog.String("title", transcript.Title),
		slog.Int("bills", len(extraction.Bills)),
		slog.Int("people", len(extraction.People)),
		slog.Int("votes", len(extraction.Votes)))

	if c.Store != nil {
		if err := c.Store.Save(transcript.Title, extraction); err != nil {
			return nil, helper.NewError("save extraction", err)
		}
	}

	return extraction, nil
}

// ResolveEntities groups equivalent mentions across the given extractions and
// returns the alias to canonical name mapping
func (c *Civicgraph) ResolveEntities(extractions []*model.TranscriptExtraction) (*model.Resolution, error) {
	corpus := extract.Aggregate(extractions)
	return c.Resolver.Resolve(corpus)
}

// ResolveStored loads all extractions from the extraction store and resolves
// their mentions. Returns the extractions alongside the resolution so callers
// can feed both into graph construction.
func (c *Civicgraph) ResolveStored() ([]*model.TranscriptExtraction, *model.Resolution, error) {
	if c.Store == nil {
		return nil, nil, helper.NewError("resolve stored extractions", fmt.Errorf("extraction store not set, use SetExtractionStore() first"))
	}

	extractions, err := c.Store.LoadAll()
	if err != nil {
		return nil, nil, helper.NewError("load extractions", err)
	}

	resolution, err := c.ResolveEntities(extractions)
	if err != nil {
		return nil, nil, helper.NewError("resolve mentions", err)
	}

	return extractions, resolution, nil
}

// SaveResolution writes the resolution artifact as JSON, so resolved aliases
// can be audited and reused without rerunning resolution
func (c *Civicgraph) SaveResolution(path string, resolution *model.Resolution) error {
	if err := resolution.Save(path); err != nil {
		return helper.NewError("save resolution", err)
	}

	c.log.Info("Saved resolution artifact", slog.String("path", path))
	return nil
}

// BuildGraph constructs the in-memory knowledge graph from extractions using
// the given resolution for canonical names
func (c *Civicgraph) BuildGraph(extractions []*model.TranscriptExtraction, resolution *model.Resolution) *graph.Graph {
	builder := graph.NewBuilder(resolution, c.log)
	return builder.Build(extractions)
}

// PersistGraph writes the graph into the entities and edges tables. Nodes are
// upserted by canonical name and type, so persisting the same graph twice does
// not duplicate entities. Returns the number of entities and edges written.
func (c *Civicgraph) PersistGraph(g *graph.Graph) (int, int, error) {
	rids := make(map[string]uuid.UUID, len(g.Nodes))

	for _, node := range g.SortedNodes() {
		entity := &model.Entity{
			Name:     node.Name,
			Type:     node.Type,
			Aliases:  node.Aliases,
			Metadata: node.Metadata,
		}
		if err := c.Entities.InsertEntity(entity); err != nil {
			return 0, 0, helper.NewError(fmt.Sprintf("insert entity %s", node.Key), err)
		}
		rids[node.Key] = entity.RID
	}

	inserted := 0
	for _, edge := range g.Edges {
		sourceRID, ok := rids[edge.Source]
		if !ok {
			return len(rids), inserted, helper.NewError("persist graph", fmt.Errorf("unknown source node %s", edge.Source))
		}
		targetRID, ok := rids[edge.Target]
		if !ok {
			return len(rids), inserted, helper.NewError("persist graph", fmt.Errorf("unknown target node %s", edge.Target))
		}

		dbEdge := &model.Edge{
			SourceRID: sourceRID,
			TargetRID: targetRID,
			Relation:  edge.Relation,
			Metadata:  edge.Metadata,
		}
		if err := c.Edges.InsertEdge(dbEdge); err != nil {
			return len(rids), inserted, helper.NewError(fmt.Sprintf("insert edge %s -> %s", edge.Source, edge.Target), err)
		}
		inserted++
	}

	c.log.Info("Persisted graph", slog.Int("entities", len(rids)), slog.Int("edges", inserted))
	return len(rids), inserted, nil
}

// ExportGraphML writes the graph to a GraphML file at the given path
func (c *Civicgraph) ExportGraphML(path string, g *graph.Graph) error {
	return graph.ExportGraphML(path, g)
}

// SearchPassages performs vector similarity search over stored passages.
// Passing transcript RIDs scopes the search to those transcripts.
func (c *Civicgraph) SearchPassages(query string, limit int, threshold float64, transcriptRIDs []uuid.UUID) ([]*model.Passage, error) {
	if c.Pipeline == nil || c.Pipeline.Embedder == nil {
		return nil, helper.NewError("passage search", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	// Generate embedding from query
	embedding, err := c.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return c.Passages.SelectPassagesBySimilarity(embedding, limit, threshold, transcriptRIDs)
}

// PassagesForEntity returns stored passages that mention the entity by name or
// by any of its aliases, as source evidence for graph relations
func (c *Civicgraph) PassagesForEntity(entityID int64, limit int) ([]*model.Passage, error) {
	return c.Passages.SelectPassagesByEntity(entityID, limit)
}

// BFSTraversal performs breadth-first search from an entity
func (c *Civicgraph) BFSTraversal(ctx context.Context, sourceRID uuid.UUID, maxHops int, relations []model.RelationType) ([]*graph.TraversalResult, error) {
	return graph.BFS(ctx, c.graphDB(), sourceRID, maxHops, relations)
}

// DFSTraversal performs depth-first search from an entity
func (c *Civicgraph) DFSTraversal(ctx context.Context, sourceRID uuid.UUID, maxHops int, relations []model.RelationType) ([]*graph.TraversalResult, error) {
	return graph.DFS(ctx, c.graphDB(), sourceRID, maxHops, relations)
}

// TraverseBFSFromEntity performs breadth-first search from an entity inside
// the database with a recursive query, returning reached entity RIDs with
// their depth and path. Unlike BFSTraversal it does not load the entities,
// making it the cheaper choice when only the reachable set is needed.
func (c *Civicgraph) TraverseBFSFromEntity(startRID uuid.UUID, maxDepth int, relation *model.RelationType) ([]*model.TraversalNode, error) {
	return c.Edges.TraverseBFSFromEntity(startRID, maxDepth, relation)
}

// ConnectedEdges returns all edges touching an entity with direction
// information relative to it
func (c *Civicgraph) ConnectedEdges(entityRID uuid.UUID, relation *model.RelationType) ([]*model.EdgeConnection, error) {
	return c.Edges.SelectEdgesConnectedToEntity(entityRID, relation)
}

// Neighbors returns the entities directly connected to an entity, optionally
// filtered by relation type
func (c *Civicgraph) Neighbors(ctx context.Context, entityRID uuid.UUID, relations []model.RelationType) ([]*model.Entity, error) {
	return graph.GetNeighbors(ctx, c.graphDB(), entityRID, relations)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (c *Civicgraph) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return c.Passages.ChangeIndexType(ctx, indexType, params)
}

func (c *Civicgraph) graphDB() graph.GraphDB {
	return &entityGraphDB{entities: c.Entities, edges: c.Edges}
}

// entityGraphDB adapts the entities and edges handlers to the traversal
// interface
type entityGraphDB struct {
	entities *database.EntitiesDBHandler
	edges    *database.EdgesDBHandler
}

func (d *entityGraphDB) GetEntity(ctx context.Context, rid string) (*model.Entity, error) {
	id, err := uuid.Parse(rid)
	if err != nil {
		return nil, helper.NewError("parse entity rid", err)
	}
	return d.entities.SelectEntityByRID(id)
}

func (d *entityGraphDB) GetEdgesOfEntity(ctx context.Context, rid string, relations []model.RelationType) ([]*model.Edge, error) {
	id, err := uuid.Parse(rid)
	if err != nil {
		return nil, helper.NewError("parse entity rid", err)
	}
	return d.edges.SelectEdgesOfEntity(id, relations)
}
