package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/llm"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore"
)

const (
	defaultMatchCount = 15
	// finalSourceCount is how many candidates feed the answer context and
	// come back as citations.
	finalSourceCount = 10

	contextSeparator = "\n\n---\n\n"

	documentTemperature = 0.3
	creativeTemperature = 0.7
	answerMaxTokens     = 2048
)

// Engine answers questions with retrieval-augmented generation.
type Engine interface {
	// Ask answers a question by retrieving relevant chunks and generating
	// an answer. Pipeline failures are converted into a degraded apology
	// response; the only returned errors are input validation ones.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder   Embedder
	index      vectorstore.VectorIndex
	store      storage.ChunkStore
	oracle     Oracle
	matchCount int
	logger     *slog.Logger
}

// NewEngine creates a new RAG engine. matchCount sets the default
// per-path candidate request size; zero means the built-in default.
func NewEngine(
	embedder Embedder,
	index vectorstore.VectorIndex,
	store storage.ChunkStore,
	oracle Oracle,
	matchCount int,
) Engine {
	if matchCount <= 0 {
		matchCount = defaultMatchCount
	}
	return &ragEngine{
		embedder:   embedder,
		index:      index,
		store:      store,
		oracle:     oracle,
		matchCount: matchCount,
		logger:     slog.Default(),
	}
}

// Ask answers a question using RAG.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Question) == "" {
		return AskResponse{}, fmt.Errorf("%w: question is required", service.ErrInvalidInput)
	}

	matchCount := req.MatchCount
	if matchCount <= 0 {
		matchCount = e.matchCount
	}

	resp, err := e.answer(ctx, req.Question, matchCount)
	if err != nil {
		// Total pipeline failure: degrade, never surface an exception.
		logger.ErrorContext(ctx, "RAG pipeline failed, returning degraded answer",
			"question", req.Question, "error", err)
		return AskResponse{
			Answer:       apologyAnswer,
			Sources:      []Candidate{},
			ResponseType: ResponseDocument,
		}, nil
	}
	return resp, nil
}

// answer runs the full pipeline: classify, retrieve (hybrid), merge,
// rerank, assemble context, generate.
func (e *ragEngine) answer(ctx context.Context, question string, matchCount int) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	logger.InfoContext(ctx, "RAG query started", "question", question, "match_count", matchCount)

	responseType := e.classify(ctx, question)
	logger.InfoContext(ctx, "question type decided", "type", responseType)

	// Vector and lexical search are independent; fan out, join before the
	// merge. This is the only intra-request concurrency.
	var vectorResults, lexicalResults []Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := e.vectorSearch(gctx, question, matchCount*2)
		if err != nil {
			return err
		}
		vectorResults = results
		return nil
	})
	g.Go(func() error {
		lexicalResults = e.lexicalSearch(gctx, question, matchCount)
		return nil
	})
	if err := g.Wait(); err != nil {
		return AskResponse{}, err
	}

	logger.InfoContext(ctx, "hybrid search completed",
		"vector_results", len(vectorResults), "lexical_results", len(lexicalResults))

	merged := mergeResults(vectorResults, lexicalResults)
	reranked, rankErr := e.rerank(ctx, question, merged)
	if rankErr != nil {
		logger.WarnContext(ctx, "rerank failed, keeping merged order", "error", rankErr)
		reranked = merged
	}

	sources := reranked
	if len(sources) > finalSourceCount {
		sources = sources[:finalSourceCount]
	}
	if sources == nil {
		sources = []Candidate{}
	}

	contextText := buildContext(sources)

	var prompt string
	var temperature float32
	if responseType == ResponseCreative {
		prompt = fmt.Sprintf(creativePromptFmt, systemInstruction, contextText, question)
		temperature = creativeTemperature
	} else {
		prompt = fmt.Sprintf(documentPromptFmt, systemInstruction, contextText, question)
		temperature = documentTemperature
	}

	answer, err := e.oracle.Complete(ctx, prompt, llm.CompleteParams{
		Temperature: temperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to generate answer: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		answer = emptyAnswerFallback
	}

	logger.InfoContext(ctx, "RAG query completed",
		"type", responseType, "sources", len(sources), "answer_length", len(answer))

	return AskResponse{
		Answer:       answer,
		Sources:      sources,
		ResponseType: responseType,
	}, nil
}

// buildContext cleans each source's content with the ingestion cleaning
// pass and concatenates them with 1-based labels.
func buildContext(sources []Candidate) string {
	if len(sources) == 0 {
		return noContextPlaceholder
	}

	parts := make([]string, 0, len(sources))
	for i, source := range sources {
		parts = append(parts, fmt.Sprintf("[문서 %d]\n%s", i+1, ingest.Clean(source.Content)))
	}
	return strings.Join(parts, contextSeparator)
}
