package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore"
)

// minExtractedChars is the threshold under which an extraction is treated
// as failed: below it the document is almost certainly scanned or broken.
const minExtractedChars = 100

// chunksPerPage approximates page numbers from chunk positions when the
// extraction path does not preserve pagination.
const chunksPerPage = 3

// Embedder is the embedding service boundary.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Document is a source document handed to the pipeline.
type Document struct {
	Name string
	Data []byte
}

// Options configures chunking and pacing for a pipeline.
type Options struct {
	TargetSize int           // Chunk size bound in runes
	Overlap    int           // Overlap prefix length in runes
	Delay      time.Duration // Pause between consecutive embedding calls
}

// Pipeline turns source documents into embedded chunks persisted in the
// chunk store and the vector index.
type Pipeline struct {
	store           storage.ChunkStore
	index           vectorstore.VectorIndex
	embedder        Embedder
	textExtractor   Extractor
	visionExtractor Extractor
	opts            Options
	logger          *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store storage.ChunkStore,
	index vectorstore.VectorIndex,
	embedder Embedder,
	textExtractor Extractor,
	visionExtractor Extractor,
	opts Options,
) *Pipeline {
	return &Pipeline{
		store:           store,
		index:           index,
		embedder:        embedder,
		textExtractor:   textExtractor,
		visionExtractor: visionExtractor,
		opts:            opts,
		logger:          slog.Default(),
	}
}

// IngestDocument extracts, cleans, chunks, embeds and persists a single
// document. Extraction failures return service.ErrExtraction so batch
// callers can skip the document; per-chunk embedding or persistence
// failures are logged and skipped without aborting the document.
func (p *Pipeline) IngestDocument(ctx context.Context, doc Document, strategy Strategy) error {
	logger := contextutil.LoggerFromContext(ctx)

	extractor := p.textExtractor
	if strategy == StrategyOCR {
		extractor = p.visionExtractor
	}

	text, err := extractor.Extract(ctx, doc.Name, doc.Data)
	if err != nil {
		logger.ErrorContext(ctx, "extraction failed", "source", doc.Name, "strategy", strategy, "error", err)
		return fmt.Errorf("%w: %s", service.ErrExtraction, doc.Name)
	}
	if utf8.RuneCountInString(text) < minExtractedChars {
		logger.ErrorContext(ctx, "extraction yielded too little text",
			"source", doc.Name, "strategy", strategy, "chars", utf8.RuneCountInString(text))
		return fmt.Errorf("%w: %s: too little text", service.ErrExtraction, doc.Name)
	}

	cleaned := Clean(text)
	chunks := SplitChunks(cleaned, p.opts.TargetSize, p.opts.Overlap)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks produced", "source", doc.Name)
		return nil
	}

	logger.InfoContext(ctx, "chunked document", "source", doc.Name, "chunks", len(chunks))

	var stored int
	for i, chunk := range chunks {
		// Cooperative cancellation between chunks.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		embedding, err := p.embedder.Embed(ctx, chunk)
		if err != nil {
			logger.ErrorContext(ctx, "embedding failed, skipping chunk",
				"source", doc.Name, "chunk_index", i, "error", err)
			continue
		}

		record := &storage.ChunkRecord{
			ID:          uuid.New().String(),
			Source:      doc.Name,
			Page:        i/chunksPerPage + 1,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
			Content:     chunk,
			Embedding:   embedding,
		}

		if err := p.store.Insert(ctx, record); err != nil {
			logger.ErrorContext(ctx, "failed to store chunk",
				"source", doc.Name, "chunk_index", i, "error", err)
			continue
		}

		point := vectorstore.Point{
			ID:      record.ID,
			Vec:     embedding,
			Content: chunk,
			Meta: map[string]any{
				"source":       doc.Name,
				"page":         record.Page,
				"chunk_index":  i,
				"total_chunks": len(chunks),
			},
		}
		if err := p.index.Upsert(ctx, []vectorstore.Point{point}); err != nil {
			logger.ErrorContext(ctx, "failed to index chunk",
				"source", doc.Name, "chunk_index", i, "error", err)
			continue
		}

		stored++

		// Cooperative pause between embedding calls to respect quota.
		if p.opts.Delay > 0 && i < len(chunks)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.opts.Delay):
			}
		}
	}

	logger.InfoContext(ctx, "ingested document", "source", doc.Name, "chunks", len(chunks), "stored", stored)
	return nil
}

// Result summarizes a batch ingestion run.
type Result struct {
	Indexed int
	Skipped int
}

// Reindex drops every chunk from the store and the index, then re-ingests
// the given documents. Documents that fail extraction are skipped; other
// errors abort the run.
func (p *Pipeline) Reindex(ctx context.Context, docs []Document, strategy Strategy) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := p.store.DeleteAll(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to clear chunk store: %w", err)
	}
	if err := p.index.DeleteAll(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to clear vector index: %w", err)
	}
	logger.InfoContext(ctx, "cleared existing chunks", "documents", len(docs))

	var result Result
	for _, doc := range docs {
		if err := p.IngestDocument(ctx, doc, strategy); err != nil {
			if errors.Is(err, service.ErrExtraction) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Indexed++
	}

	logger.InfoContext(ctx, "reindex completed", "documents", len(docs), "skipped", result.Skipped)
	return result, nil
}

// LoadDirectory reads every regular file in dir into a Document slice,
// sorted by name. Subdirectories and hidden files are skipped.
func LoadDirectory(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents directory: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", entry.Name(), err)
		}
		docs = append(docs, Document{Name: entry.Name(), Data: data})
	}
	return docs, nil
}
