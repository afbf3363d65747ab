package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
	storage_mocks "github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage/mocks"
	vectorstore_mocks "github.com/Seohyeoksu/School-designed-autonomous-time/internal/vectorstore/mocks"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, name string, data []byte) (string, error) {
	return s.text, s.err
}

type stubEmbedder struct{}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

func ingestTestHandler(t *testing.T, ctrl *gomock.Controller, extractor ingest.Extractor) *IngestHandler {
	t.Helper()

	store := storage_mocks.NewMockChunkStore(ctrl)
	index := vectorstore_mocks.NewMockVectorIndex(ctrl)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	store.EXPECT().CountBySource(gomock.Any(), gomock.Any()).Return(1, nil).AnyTimes()
	index.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	pipeline := ingest.NewPipeline(store, index, &stubEmbedder{}, extractor, extractor, ingest.Options{TargetSize: 500})
	return NewIngestHandler(pipeline, store)
}

func multipartRequest(t *testing.T, filename, strategy string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if strategy != "" {
		if err := writer.WriteField("strategy", strategy); err != nil {
			t.Fatalf("failed to write strategy field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestIngestHandlerSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	extractor := &stubExtractor{text: strings.Repeat("학교자율시간 운영 안내 ", 20)}
	handler := ingestTestHandler(t, ctrl, extractor)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "guide.txt", "", []byte("raw bytes")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp IngestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Source != "guide.txt" || resp.Status != "indexed" || resp.Chunks != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestIngestHandlerExtractionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	extractor := &stubExtractor{err: errors.New("unreadable")}
	handler := ingestTestHandler(t, ctrl, extractor)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "broken.pdf", "", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestIngestHandlerMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := ingestTestHandler(t, ctrl, &stubExtractor{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIngestHandlerNotMultipart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := ingestTestHandler(t, ctrl, &stubExtractor{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader("plain body"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
