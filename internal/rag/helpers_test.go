package rag

import (
	"context"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/llm"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore"
)

// fakeEmbedder returns a fixed vector or a fixed error.
type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

// fakeOracle answers each Complete call with the next queued response.
// A queued error is returned in its position. When the queue runs dry the
// last entry repeats.
type fakeOracle struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeOracle) Complete(ctx context.Context, prompt string, params llm.CompleteParams) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func testEngine(embedder Embedder, index vectorstore.VectorIndex, store storage.ChunkStore, oracle Oracle) *ragEngine {
	return NewEngine(embedder, index, store, oracle, 0).(*ragEngine)
}

func chunkRecord(id, source, content string, page int) *storage.ChunkRecord {
	return &storage.ChunkRecord{
		ID:          id,
		Source:      source,
		Page:        page,
		ChunkIndex:  0,
		TotalChunks: 1,
		Content:     content,
	}
}
