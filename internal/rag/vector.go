package rag

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore"
)

const (
	// minIndexRequest over-fetches from the vector index: its internal
	// similarity cutoff can return fewer results than requested at low
	// limits, so asking for more compensates without changing the cutoff
	// semantics.
	minIndexRequest = 50

	// fallbackSimilarity is assigned to substring-fallback matches. Higher
	// than a typical low-similarity vector hit: a literal textual match is
	// exact relevance.
	fallbackSimilarity = 0.7

	fallbackTermLimit      = 3 // Candidate terms tried per fallback tier
	fallbackResultsPerTerm = 5
)

// vectorSearch performs approximate nearest-neighbor retrieval with
// graceful degradation. When the index errors or returns nothing it falls
// back to domain-keyword substring search, then to generic-term substring
// search; each tier is more permissive and lower-precision than the last.
// Only an embedding failure is returned as an error: without a query
// vector or a textual fallback hit there is nothing left to try, and the
// engine's top-level recovery takes over.
func (e *ragEngine) vectorSearch(ctx context.Context, query string, limit int) ([]Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	requestCount := limit
	if requestCount < minIndexRequest {
		requestCount = minIndexRequest
	}

	results, err := e.index.Query(ctx, embedding, requestCount)
	if err != nil || len(results) == 0 {
		if err == nil {
			err = service.ErrIndexUnavailable
		}
		logger.WarnContext(ctx, "vector index insufficient, using substring fallback",
			"results", len(results), "error", err)
		return e.fallbackSearch(ctx, query, limit), nil
	}

	candidates := make([]Candidate, 0, len(results))
	for _, result := range results {
		candidates = append(candidates, candidateFromQueryResult(result))
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	logger.DebugContext(ctx, "vector search completed", "results", len(candidates))
	return candidates, nil
}

// fallbackSearch is the substring search used when the index path fails.
// Tier one substitutes the domain synonym set of the first matched term;
// tier two falls back to plain word-splitting of the query.
func (e *ragEngine) fallbackSearch(ctx context.Context, query string, limit int) []Candidate {
	logger := contextutil.LoggerFromContext(ctx)

	terms := expandSynonyms(query)
	matches := e.substringMatches(ctx, terms)

	if len(matches) == 0 {
		var generic []string
		for _, term := range strings.Fields(query) {
			if utf8.RuneCountInString(term) > 1 {
				generic = append(generic, term)
			}
		}
		matches = e.substringMatches(ctx, generic)
	}

	seen := make(map[string]struct{})
	var candidates []Candidate
	for _, record := range matches {
		if _, dup := seen[record.ID]; dup {
			continue
		}
		seen[record.ID] = struct{}{}
		candidates = append(candidates, candidateFromRecord(record, fallbackSimilarity))
		if len(candidates) == limit {
			break
		}
	}

	logger.InfoContext(ctx, "fallback search completed", "results", len(candidates), "domain_terms", len(terms))
	return candidates
}

// substringMatches runs the store substring search for up to
// fallbackTermLimit terms, collecting up to fallbackResultsPerTerm hits
// per term. Per-term errors are skipped.
func (e *ragEngine) substringMatches(ctx context.Context, terms []string) []*storage.ChunkRecord {
	logger := contextutil.LoggerFromContext(ctx)

	if len(terms) > fallbackTermLimit {
		terms = terms[:fallbackTermLimit]
	}

	var matches []*storage.ChunkRecord
	for _, term := range terms {
		records, err := e.store.SubstringSearch(ctx, term, fallbackResultsPerTerm)
		if err != nil {
			logger.WarnContext(ctx, "fallback term search failed", "term", term, "error", err)
			continue
		}
		matches = append(matches, records...)
	}
	return matches
}

func candidateFromQueryResult(result vectorstore.QueryResult) Candidate {
	return Candidate{
		ID:      result.ID,
		Content: result.Content,
		Metadata: Metadata{
			Source:      metaString(result.Meta, "source"),
			Page:        metaInt(result.Meta, "page"),
			ChunkIndex:  metaInt(result.Meta, "chunk_index"),
			TotalChunks: metaInt(result.Meta, "total_chunks"),
		},
		Similarity: float64(result.Score),
	}
}

func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
