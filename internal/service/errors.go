package service

import "errors"

// Sentinel errors for the retrieval pipeline. Each class has a documented
// recovery policy: extraction and per-chunk embedding failures skip the
// affected unit, index and ranking failures trigger fallbacks, and only a
// total pipeline failure reaches the caller, as a degraded answer rather
// than an exception.
var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExtraction is returned when a document is unreadable or yields too
	// little text. The document is skipped; the batch continues.
	ErrExtraction = errors.New("extraction failed")
	// ErrEmbedding is returned when the embedding service fails for a text.
	ErrEmbedding = errors.New("embedding failed")
	// ErrIndexUnavailable is returned when the vector index errors or
	// returns no results. Recovered by the substring fallback tiers.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrRanking is returned when the ranking oracle is unavailable or its
	// response cannot be parsed. Callers fall back to the merged order.
	ErrRanking = errors.New("ranking failed")
	// ErrCompletion is returned when final answer generation fails.
	ErrCompletion = errors.New("completion failed")
)
