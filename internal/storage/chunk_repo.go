package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// Insert inserts a single chunk. The chunk.ID must be set (UUID)
	// before calling this method.
	Insert(ctx context.Context, chunk *ChunkRecord) error
	// DeleteAll removes every chunk. Used by a full reindex before
	// re-ingesting the document set.
	DeleteAll(ctx context.Context) error
	// SubstringSearch returns chunks whose content contains the pattern,
	// case-insensitive and unanchored, up to limit results.
	SubstringSearch(ctx context.Context, pattern string, limit int) ([]*ChunkRecord, error)
	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)
	// CountBySource returns the number of chunks stored for a source.
	CountBySource(ctx context.Context, source string) (int, error)
}

// ChunkRepo provides SQLite-backed chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Insert inserts a single chunk.
func (r *ChunkRepo) Insert(ctx context.Context, chunk *ChunkRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO chunks (id, source, page, chunk_index, total_chunks, content, embedding) VALUES (?, ?, ?, ?, ?, ?, ?)",
		chunk.ID, chunk.Source, chunk.Page, chunk.ChunkIndex, chunk.TotalChunks, chunk.Content, EncodeEmbedding(chunk.Embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// DeleteAll removes every chunk.
func (r *ChunkRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// SubstringSearch returns chunks whose content contains the pattern.
// SQLite LIKE is case-insensitive for ASCII; Korean text has no case so
// the semantics match the ILIKE behavior the retrieval tiers rely on.
func (r *ChunkRepo) SubstringSearch(ctx context.Context, pattern string, limit int) ([]*ChunkRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	like := "%" + escapeLike(pattern) + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, page, chunk_index, total_chunks, content, embedding
		 FROM chunks WHERE content LIKE ? ESCAPE '\' ORDER BY source, chunk_index LIMIT ?`,
		like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chunks []*ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Source, &chunk.Page, &chunk.ChunkIndex, &chunk.TotalChunks, &chunk.Content, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.Embedding = DecodeEmbedding(blob)
		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

// Count returns the total number of stored chunks.
func (r *ChunkRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// CountBySource returns the number of chunks stored for a source.
func (r *ChunkRepo) CountBySource(ctx context.Context, source string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE source = ?", source).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks by source: %w", err)
	}
	return count, nil
}

// escapeLike escapes LIKE wildcards in user-derived patterns.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
