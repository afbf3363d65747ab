package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/config"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/http"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/llm"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/rag"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	chunkRepo := storage.NewChunkRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector index
	vectorIndex, err := vectorstore.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantCollection, cfg.VectorSize)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := vectorIndex.EnsureCollection(ctx); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	testEmbedding, err := embedder.Embed(ctx, "test")
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbedding) != cfg.VectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbedding))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create ingestion pipeline
	pipeline := ingest.NewPipeline(
		chunkRepo,
		vectorIndex,
		embedder,
		ingest.NewTextExtractor(),
		ingest.NewVisionExtractor(llmClient),
		ingest.Options{
			TargetSize: cfg.ChunkTargetSize,
			Overlap:    cfg.ChunkOverlap,
			Delay:      cfg.IngestDelay,
		},
	)

	// Create RAG engine
	ragEngine := rag.NewEngine(embedder, vectorIndex, chunkRepo, llmClient, cfg.MatchCount)
	slog.Info("RAG engine initialized", "match_count", cfg.MatchCount)

	// Create router with dependencies
	deps := &http.Deps{
		RAGEngine:  ragEngine,
		Pipeline:   pipeline,
		ChunkStore: chunkRepo,
		DocsDir:    cfg.DocsDir,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
