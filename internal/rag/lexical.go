package rag

import (
	"context"
	"sort"
	"strings"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
)

const (
	maxQueryKeywords   = 5   // Keywords actually queried against the store
	resultsPerKeyword  = 10  // Store results fetched per keyword
	lexicalBaseScore   = 0.5 // Base score for any matched chunk
	occurrenceWeight   = 0.05
	maxOccurrenceBoost = 0.3 // Cap on the per-keyword occurrence boost
	repeatMatchBonus   = 0.1 // Bonus per repeat appearance under another keyword
)

// lexicalSearch scores chunks by keyword-occurrence frequency against the
// extracted query keywords. An empty keyword set yields an empty result,
// not an error; store errors for individual keywords are skipped so one
// bad query never empties the whole result.
func (e *ragEngine) lexicalSearch(ctx context.Context, query string, limit int) []Candidate {
	logger := contextutil.LoggerFromContext(ctx)

	keywords := extractKeywords(query)
	logger.DebugContext(ctx, "extracted keywords", "keywords", keywords)
	if len(keywords) == 0 {
		return nil
	}

	querying := keywords
	if len(querying) > maxQueryKeywords {
		querying = querying[:maxQueryKeywords]
	}

	var matches []*storage.ChunkRecord
	for _, keyword := range querying {
		records, err := e.store.SubstringSearch(ctx, keyword, resultsPerKeyword)
		if err != nil {
			logger.WarnContext(ctx, "keyword search failed", "keyword", keyword, "error", err)
			continue
		}
		matches = append(matches, records...)
	}

	type scoredChunk struct {
		record *storage.ChunkRecord
		score  float64
	}

	scores := make(map[string]*scoredChunk)
	var order []string

	for _, record := range matches {
		if existing, ok := scores[record.ID]; ok {
			// Matched under more than one keyword query.
			existing.score += repeatMatchBonus
			if existing.score > 1 {
				existing.score = 1
			}
			continue
		}

		// Occurrence boost uses the full keyword list, not just the
		// keyword that surfaced the chunk.
		score := lexicalBaseScore
		lowerContent := strings.ToLower(record.Content)
		for _, keyword := range keywords {
			occurrences := strings.Count(lowerContent, strings.ToLower(keyword))
			boost := float64(occurrences) * occurrenceWeight
			if boost > maxOccurrenceBoost {
				boost = maxOccurrenceBoost
			}
			score += boost
		}
		if score > 1 {
			score = 1
		}

		scores[record.ID] = &scoredChunk{record: record, score: score}
		order = append(order, record.ID)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]].score > scores[order[j]].score
	})
	if len(order) > limit {
		order = order[:limit]
	}

	candidates := make([]Candidate, 0, len(order))
	for _, id := range order {
		candidates = append(candidates, candidateFromRecord(scores[id].record, scores[id].score))
	}

	logger.DebugContext(ctx, "lexical search completed", "results", len(candidates))
	return candidates
}

func candidateFromRecord(record *storage.ChunkRecord, similarity float64) Candidate {
	return Candidate{
		ID:      record.ID,
		Content: record.Content,
		Metadata: Metadata{
			Source:      record.Source,
			Page:        record.Page,
			ChunkIndex:  record.ChunkIndex,
			TotalChunks: record.TotalChunks,
		},
		Similarity: similarity,
	}
}
