package handlers

import (
	"net/http"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
)

// ReindexHandler handles HTTP requests for full index rebuilds.
type ReindexHandler struct {
	pipeline *ingest.Pipeline
	docsDir  string
}

// NewReindexHandler creates a new ReindexHandler. docsDir is the
// directory whose documents make up the corpus.
func NewReindexHandler(pipeline *ingest.Pipeline, docsDir string) *ReindexHandler {
	return &ReindexHandler{pipeline: pipeline, docsDir: docsDir}
}

// ReindexResponse summarizes a completed rebuild.
type ReindexResponse struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
}

// ServeHTTP handles POST /api/v1/reindex. The rebuild is destructive:
// all stored chunks are dropped before the corpus directory is
// re-ingested from scratch.
func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	docs, err := ingest.LoadDirectory(h.docsDir)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load documents", "docs_dir", h.docsDir, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load documents")
		return
	}

	result, err := h.pipeline.Reindex(ctx, docs, ingest.StrategyText)
	if err != nil {
		logger.ErrorContext(ctx, "reindex failed", "docs_dir", h.docsDir, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to rebuild index")
		return
	}

	logger.InfoContext(ctx, "reindex completed",
		"indexed", result.Indexed, "skipped", result.Skipped)
	writeJSON(w, http.StatusOK, ReindexResponse{
		Indexed: result.Indexed,
		Skipped: result.Skipped,
	})
}
