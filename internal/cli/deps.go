package cli

import (
	"context"
	"fmt"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/llm"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore"
)

// buildPipeline wires the ingestion pipeline from the loaded config. The
// returned cleanup closes the database.
func buildPipeline(ctx context.Context) (*ingest.Pipeline, storage.ChunkStore, func(), error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	cleanup := func() {
		_ = db.Close()
	}

	if err := storage.Migrate(db); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	vectorIndex, err := vectorstore.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantCollection, cfg.VectorSize)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	if err := vectorIndex.EnsureCollection(ctx); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	chunkRepo := storage.NewChunkRepo(db)
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
	return pipeline, chunkRepo, cleanup, nil
}
