package rag

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/llm"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
)

const (
	// rerankMinCandidates: below this, reranking overhead isn't justified.
	rerankMinCandidates = 3
	// rerankPoolSize candidates are shown to the oracle; the rest keep
	// their merged order.
	rerankPoolSize = 10
	// rerankSnippetLen bounds how much of each candidate the oracle sees.
	rerankSnippetLen = 500

	rerankMaxTokens = 100
)

var digitsRe = regexp.MustCompile(`\d+`)

// rerank asks the oracle to reorder the top candidates by relevance to
// the query. Oracle failures and unparseable responses are returned
// wrapped in service.ErrRanking; the caller falls back to the merged
// order, so reranking never fails the overall query.
func (e *ragEngine) rerank(ctx context.Context, query string, candidates []Candidate) ([]Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(candidates) <= rerankMinCandidates {
		return candidates, nil
	}

	pool := candidates
	if len(pool) > rerankPoolSize {
		pool = pool[:rerankPoolSize]
	}

	var docList strings.Builder
	for i, candidate := range pool {
		snippet := []rune(candidate.Content)
		if len(snippet) > rerankSnippetLen {
			snippet = snippet[:rerankSnippetLen]
		}
		fmt.Fprintf(&docList, "[문서 %d]: %s...\n\n", i+1, string(snippet))
	}

	prompt := fmt.Sprintf(rerankPromptFmt, query, strings.TrimSpace(docList.String()))

	response, err := e.oracle.Complete(ctx, prompt, llm.CompleteParams{
		Temperature: 0,
		MaxTokens:   rerankMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrRanking, err)
	}

	ranks := digitsRe.FindAllString(response, -1)
	if len(ranks) == 0 {
		return nil, fmt.Errorf("%w: no ranks in response %q", service.ErrRanking, response)
	}

	reordered := make([]Candidate, 0, len(candidates))
	used := make(map[int]struct{})

	for _, rank := range ranks {
		n, err := strconv.Atoi(rank)
		if err != nil {
			continue
		}
		idx := n - 1
		if idx < 0 || idx >= len(pool) {
			continue
		}
		if _, dup := used[idx]; dup {
			continue
		}
		used[idx] = struct{}{}
		reordered = append(reordered, pool[idx])
	}

	// Candidates the oracle didn't mention keep their original order.
	for i := range pool {
		if _, ok := used[i]; !ok {
			reordered = append(reordered, pool[i])
		}
	}

	reordered = append(reordered, candidates[len(pool):]...)

	logger.DebugContext(ctx, "reranked candidates", "order", strings.Join(ranks, ","))
	return reordered, nil
}
