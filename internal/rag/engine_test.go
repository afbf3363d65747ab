package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
	storage_mocks "github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage/mocks"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore"
	vectorstore_mocks "github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore/mocks"
)

func TestAskRejectsEmptyQuestion(t *testing.T) {
	engine := testEngine(nil, nil, nil, nil)

	_, err := engine.Ask(context.Background(), AskRequest{Question: "   "})
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAskDegradesToApologyOnEmbeddingFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Classification succeeds but the query embedding fails: the pipeline
	// cannot retrieve, so the user gets the apology answer, never an error.
	store := storage_mocks.NewMockChunkStore(ctrl)
	store.EXPECT().SubstringSearch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	oracle := &fakeOracle{responses: []string{"document"}}
	embedder := &fakeEmbedder{err: errors.New("embedding service down")}
	engine := testEngine(embedder, nil, store, oracle)

	resp, err := engine.Ask(context.Background(), AskRequest{Question: "시수는 어떻게 확보하나요?"})
	if err != nil {
		t.Fatalf("degraded path must not return an error, got %v", err)
	}
	if resp.Answer != apologyAnswer {
		t.Errorf("answer = %q, want apology", resp.Answer)
	}
	if resp.Sources == nil || len(resp.Sources) != 0 {
		t.Errorf("expected empty sources, got %v", resp.Sources)
	}
	if resp.ResponseType != ResponseDocument {
		t.Errorf("response type = %q, want document", resp.ResponseType)
	}
}

func TestAskAnswersFromFallbackWhenIndexIsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	index := vectorstore_mocks.NewMockVectorIndex(ctrl)
	store := storage_mocks.NewMockChunkStore(ctrl)
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	oracle := &fakeOracle{responses: []string{"document", "학교자율시간 시수는 연간 수업시간의 일부를 편성하여 확보합니다."}}
	engine := testEngine(embedder, index, store, oracle)

	index.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	rec := chunkRecord("c1", "doc1", "학교자율시간 시수 확보는 연간 시간배당 기준에 따른다", 1)
	store.EXPECT().
		SubstringSearch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, pattern string, limit int) ([]*storage.ChunkRecord, error) {
			if strings.Contains(rec.Content, pattern) {
				return []*storage.ChunkRecord{rec}, nil
			}
			return nil, nil
		}).
		AnyTimes()

	resp, err := engine.Ask(context.Background(), AskRequest{Question: "학교자율시간 시수는 어떻게 확보하나요?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Sources) != 1 {
		t.Fatalf("expected exactly one source, got %d", len(resp.Sources))
	}
	if resp.Sources[0].Metadata.Source != "doc1" {
		t.Errorf("source = %q, want doc1", resp.Sources[0].Metadata.Source)
	}
	if resp.Answer == "" || resp.Answer == apologyAnswer {
		t.Errorf("expected generated answer, got %q", resp.Answer)
	}
	if resp.ResponseType != ResponseDocument {
		t.Errorf("response type = %q, want document", resp.ResponseType)
	}
}

func TestAskCreativeModeUsesCreativePrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	index := vectorstore_mocks.NewMockVectorIndex(ctrl)
	store := storage_mocks.NewMockChunkStore(ctrl)
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	oracle := &fakeOracle{responses: []string{"creative", "수업 계획 예시입니다."}}
	engine := testEngine(embedder, index, store, oracle)

	hits := []vectorstore.QueryResult{{
		ID:      "c1",
		Content: "프로젝트 수업 설계 자료",
		Meta:    map[string]any{"source": "doc1", "page": int64(1)},
		Score:   0.8,
	}}
	index.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return(hits, nil)
	store.EXPECT().SubstringSearch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	resp, err := engine.Ask(context.Background(), AskRequest{Question: "프로젝트 수업 계획서를 만들어줘"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ResponseType != ResponseCreative {
		t.Errorf("response type = %q, want creative", resp.ResponseType)
	}
	if resp.Answer != "수업 계획 예시입니다." {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestAskCapsSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	index := vectorstore_mocks.NewMockVectorIndex(ctrl)
	store := storage_mocks.NewMockChunkStore(ctrl)
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	// Rerank response confirms the pool order; the answer comes last.
	oracle := &fakeOracle{responses: []string{"document", "1,2,3,4,5,6,7,8,9,10", "답변입니다."}}
	engine := testEngine(embedder, index, store, oracle)

	hits := make([]vectorstore.QueryResult, 14)
	for i := range hits {
		hits[i] = vectorstore.QueryResult{
			ID:      string(rune('a' + i)),
			Content: strings.Repeat(string(rune('a'+i)), 10),
			Meta:    map[string]any{"source": "doc1"},
			Score:   float32(0.9) - float32(i)*0.01,
		}
	}
	index.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return(hits, nil)
	store.EXPECT().SubstringSearch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	resp, err := engine.Ask(context.Background(), AskRequest{Question: "시수 편성 기준은?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Sources) != finalSourceCount {
		t.Errorf("sources = %d, want %d", len(resp.Sources), finalSourceCount)
	}
}

func TestAskKeepsMergedOrderWhenRerankFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	index := vectorstore_mocks.NewMockVectorIndex(ctrl)
	store := storage_mocks.NewMockChunkStore(ctrl)
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	// Classification succeeds, the rerank call errors, the answer succeeds:
	// sources come back in merged order.
	oracle := &fakeOracle{
		responses: []string{"document", "", "답변입니다."},
		errs:      []error{nil, errors.New("model overloaded")},
	}
	engine := testEngine(embedder, index, store, oracle)

	hits := make([]vectorstore.QueryResult, 5)
	for i := range hits {
		hits[i] = vectorstore.QueryResult{
			ID:      string(rune('a' + i)),
			Content: strings.Repeat(string(rune('a'+i)), 10),
			Meta:    map[string]any{"source": "doc1"},
			Score:   float32(0.9) - float32(i)*0.01,
		}
	}
	index.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return(hits, nil)
	store.EXPECT().SubstringSearch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	resp, err := engine.Ask(context.Background(), AskRequest{Question: "시수 편성 기준은?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "답변입니다." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != len(hits) {
		t.Fatalf("sources = %d, want %d", len(resp.Sources), len(hits))
	}
	for i, hit := range hits {
		if resp.Sources[i].ID != hit.ID {
			t.Errorf("source %d = %q, want merged-order %q", i, resp.Sources[i].ID, hit.ID)
		}
	}
}

func TestAskEmptyAnswerFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	index := vectorstore_mocks.NewMockVectorIndex(ctrl)
	store := storage_mocks.NewMockChunkStore(ctrl)
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	oracle := &fakeOracle{responses: []string{"document", "  "}}
	engine := testEngine(embedder, index, store, oracle)

	hits := []vectorstore.QueryResult{{ID: "c1", Content: "내용", Score: 0.9}}
	index.EXPECT().Query(gomock.Any(), gomock.Any(), gomock.Any()).Return(hits, nil)
	store.EXPECT().SubstringSearch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	resp, err := engine.Ask(context.Background(), AskRequest{Question: "시수?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != emptyAnswerFallback {
		t.Errorf("answer = %q, want fallback text", resp.Answer)
	}
}

func TestBuildContextNoSources(t *testing.T) {
	if got := buildContext(nil); got != noContextPlaceholder {
		t.Errorf("buildContext(nil) = %q, want placeholder", got)
	}
}

func TestBuildContextLabelsSources(t *testing.T) {
	sources := []Candidate{
		{Content: "첫 번째 문서 내용"},
		{Content: "두 번째 문서 내용"},
	}
	got := buildContext(sources)

	if !strings.Contains(got, "[문서 1]") || !strings.Contains(got, "[문서 2]") {
		t.Errorf("context missing numbered labels: %q", got)
	}
	if !strings.Contains(got, contextSeparator) {
		t.Errorf("context missing separator: %q", got)
	}
}
