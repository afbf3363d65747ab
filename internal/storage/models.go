package storage

import (
	"encoding/binary"
	"math"
)

// ChunkRecord is a persisted, immutable unit of retrievable text with a
// precomputed embedding. Records are created by the ingestion pipeline and
// removed only by a full reindex.
type ChunkRecord struct {
	ID          string // UUID, assigned at insertion
	Source      string // Human-readable source document name
	Page        int    // Approximate page, derived from chunk index
	ChunkIndex  int    // Index within source (starts at 0)
	TotalChunks int    // Chunk count for the source at ingestion time
	Content     string // Cleaned chunk text, non-empty
	Embedding   []float32
}

// EncodeEmbedding serializes a float32 vector into a little-endian blob
// for storage in the embedding column.
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeEmbedding deserializes a little-endian blob back into a float32
// vector. Returns nil for an empty blob.
func DecodeEmbedding(buf []byte) []float32 {
	if len(buf) < 4 {
		return nil
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
