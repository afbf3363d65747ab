package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_index.go -package=mocks github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore VectorIndex

import "context"

// Point represents a vector point with its chunk content and metadata.
// Content travels in the payload so an index hit is a complete retrieval
// candidate without a second store lookup.
type Point struct {
	ID      string
	Vec     []float32
	Content string
	Meta    map[string]any
}

// QueryResult represents a nearest-neighbor hit.
type QueryResult struct {
	ID      string
	Content string
	Meta    map[string]any
	Score   float32
}

// VectorIndex defines the external approximate nearest-neighbor boundary.
// Query may return fewer than topK results: the index applies an internal
// similarity cutoff, so callers must not assume topK hits come back.
type VectorIndex interface {
	// Upsert inserts or updates points.
	Upsert(ctx context.Context, points []Point) error

	// Query performs a similarity search returning up to topK hits.
	Query(ctx context.Context, vector []float32, topK int) ([]QueryResult, error)

	// DeleteAll removes every point. Used by a full reindex.
	DeleteAll(ctx context.Context) error
}
