package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
)

// maxDocumentSize bounds uploaded documents (32 MiB).
const maxDocumentSize = 32 << 20

// IngestHandler handles HTTP requests for single-document ingestion.
type IngestHandler struct {
	pipeline *ingest.Pipeline
	store    storage.ChunkStore
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline *ingest.Pipeline, store storage.ChunkStore) *IngestHandler {
	return &IngestHandler{pipeline: pipeline, store: store}
}

// IngestResponse acknowledges an accepted document.
type IngestResponse struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
}

// ServeHTTP handles POST /api/v1/ingest. The document is sent as a
// multipart form file under "document"; the optional "strategy" field
// selects "text" (default) or "ocr" extraction. Ingestion is additive: a
// full rebuild goes through the reindex endpoint instead.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Document file is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		logger.ErrorContext(ctx, "failed to read document", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read document")
		return
	}

	strategy := ingest.StrategyText
	if r.FormValue("strategy") == string(ingest.StrategyOCR) {
		strategy = ingest.StrategyOCR
	}

	if err := h.pipeline.IngestDocument(ctx, ingest.Document{Name: header.Filename, Data: data}, strategy); err != nil {
		if errors.Is(err, service.ErrExtraction) {
			writeError(w, http.StatusUnprocessableEntity, "Document could not be extracted")
			return
		}
		logger.ErrorContext(ctx, "ingestion failed", "source", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to ingest document")
		return
	}

	chunks, err := h.store.CountBySource(ctx, header.Filename)
	if err != nil {
		logger.WarnContext(ctx, "failed to count stored chunks", "source", header.Filename, "error", err)
	}

	writeJSON(w, http.StatusOK, IngestResponse{Source: header.Filename, Status: "indexed", Chunks: chunks})
}
