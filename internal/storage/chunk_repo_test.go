package storage

import (
	"context"
	"reflect"
	"testing"
)

func setupTestRepo(t *testing.T) *ChunkRepo {
	t.Helper()

	dbPath := t.TempDir() + "/test.db"
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewChunkRepo(db)
}

func testChunk(id, source, content string, index int) *ChunkRecord {
	return &ChunkRecord{
		ID:          id,
		Source:      source,
		Page:        index/3 + 1,
		ChunkIndex:  index,
		TotalChunks: 10,
		Content:     content,
		Embedding:   []float32{0.1, 0.2, 0.3},
	}
}

func TestChunkRepo_InsertAndCount(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testChunk("id-1", "doc1.pdf", "학교자율시간 운영 안내", 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, testChunk("id-2", "doc2.pdf", "시수 편성 기준", 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	bySource, err := repo.CountBySource(ctx, "doc1.pdf")
	if err != nil {
		t.Fatalf("CountBySource() error = %v", err)
	}
	if bySource != 1 {
		t.Errorf("CountBySource() = %d, want 1", bySource)
	}
}

func TestChunkRepo_InsertDuplicateSourceIndex(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testChunk("id-1", "doc1.pdf", "내용", 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, testChunk("id-2", "doc1.pdf", "다른 내용", 0)); err == nil {
		t.Error("expected unique constraint violation for duplicate (source, chunk_index)")
	}
}

func TestChunkRepo_SubstringSearch(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	chunks := []*ChunkRecord{
		testChunk("id-1", "doc1.pdf", "학교자율시간 시수 확보 방안", 0),
		testChunk("id-2", "doc1.pdf", "창의적체험활동과의 연계", 1),
		testChunk("id-3", "doc2.pdf", "시수 배당 기준표", 0),
	}
	for _, chunk := range chunks {
		if err := repo.Insert(ctx, chunk); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	results, err := repo.SubstringSearch(ctx, "시수", 10)
	if err != nil {
		t.Fatalf("SubstringSearch() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("SubstringSearch() returned %d results, want 2", len(results))
	}
	for _, rec := range results {
		if rec.ID == "id-2" {
			t.Errorf("non-matching chunk returned: %q", rec.Content)
		}
	}
}

func TestChunkRepo_SubstringSearchLimit(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		chunk := testChunk("", "doc1.pdf", "반복되는 평가 내용", i)
		chunk.ID = string(rune('a' + i))
		if err := repo.Insert(ctx, chunk); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	results, err := repo.SubstringSearch(ctx, "평가", 3)
	if err != nil {
		t.Fatalf("SubstringSearch() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("SubstringSearch() returned %d results, want limit 3", len(results))
	}

	results, err = repo.SubstringSearch(ctx, "평가", 0)
	if err != nil {
		t.Fatalf("SubstringSearch() error = %v", err)
	}
	if results != nil {
		t.Errorf("zero limit should return nothing, got %d", len(results))
	}
}

func TestChunkRepo_SubstringSearchEscapesWildcards(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testChunk("id-1", "doc1.pdf", "100% 달성 목표", 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.Insert(ctx, testChunk("id-2", "doc1.pdf", "전혀 다른 내용", 1)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// A literal % must not act as a wildcard.
	results, err := repo.SubstringSearch(ctx, "100%", 10)
	if err != nil {
		t.Fatalf("SubstringSearch() error = %v", err)
	}
	if len(results) != 1 || results[0].ID != "id-1" {
		t.Errorf("expected only the literal match, got %d results", len(results))
	}
}

func TestChunkRepo_SubstringSearchRoundTripsEmbedding(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	chunk := testChunk("id-1", "doc1.pdf", "임베딩 왕복 확인", 0)
	chunk.Embedding = []float32{1.5, -2.25, 0}
	if err := repo.Insert(ctx, chunk); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	results, err := repo.SubstringSearch(ctx, "임베딩", 1)
	if err != nil {
		t.Fatalf("SubstringSearch() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !reflect.DeepEqual(results[0].Embedding, chunk.Embedding) {
		t.Errorf("embedding = %v, want %v", results[0].Embedding, chunk.Embedding)
	}
}

func TestChunkRepo_DeleteAll(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Insert(ctx, testChunk("id-1", "doc1.pdf", "삭제될 내용", 0)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() after DeleteAll = %d, want 0", count)
	}
}
