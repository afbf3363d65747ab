package rag

import (
	"context"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/llm"
)

// Metadata locates a chunk within its source document.
type Metadata struct {
	Source      string `json:"source"`
	Page        int    `json:"page"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

// Candidate is a transient, query-scoped retrieval result. Similarity is
// a unitless score in the merger's combined scale; it is only meaningful
// relative to other candidates from the same retrieval call.
type Candidate struct {
	ID         string   `json:"-"`
	Content    string   `json:"content"`
	Metadata   Metadata `json:"metadata"`
	Similarity float64  `json:"similarity"`
}

// ResponseType classifies how the answer was generated.
type ResponseType string

const (
	// ResponseDocument answers strictly from retrieved context.
	ResponseDocument ResponseType = "document"
	// ResponseCreative uses retrieved context as inspiration for generated
	// planning content.
	ResponseCreative ResponseType = "creative"
)

// AskRequest represents a RAG query request.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// MatchCount optionally overrides how many candidates each retrieval
	// path requests. Zero means the engine default.
	MatchCount int `json:"match_count,omitempty"`
}

// AskResponse represents the response from a RAG query.
type AskResponse struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`
	// Sources are the candidates the answer was generated from, for
	// citation display.
	Sources []Candidate `json:"sources"`
	// ResponseType reports which generation mode was used.
	ResponseType ResponseType `json:"response_type"`
}

// Embedder is the embedding service boundary used for query embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Oracle is the text completion boundary used for classification,
// reranking and answer generation. It is non-deterministic; every use in
// the pipeline has a fallback path that does not depend on its output.
type Oracle interface {
	Complete(ctx context.Context, prompt string, params llm.CompleteParams) (string, error)
}
