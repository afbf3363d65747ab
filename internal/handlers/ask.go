package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/rag"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
)

// AskHandler handles HTTP requests for RAG queries.
type AskHandler struct {
	ragEngine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(ragEngine rag.Engine) *AskHandler {
	return &AskHandler{ragEngine: ragEngine}
}

// AskRequest represents the HTTP request payload for RAG queries.
type AskRequest struct {
	Question   string `json:"question"`
	MatchCount int    `json:"match_count,omitempty"`
}

// AskResponse represents the HTTP response payload for RAG queries.
type AskResponse struct {
	Answer       string          `json:"answer"`
	Sources      []rag.Candidate `json:"sources"`
	ResponseType string          `json:"response_type"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles POST /api/v1/ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}
	if req.MatchCount < 0 {
		req.MatchCount = 0
	}

	ragResp, err := h.ragEngine.Ask(ctx, rag.AskRequest{
		Question:   req.Question,
		MatchCount: req.MatchCount,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.ErrorContext(ctx, "ask failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process query")
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Answer:       ragResp.Answer,
		Sources:      ragResp.Sources,
		ResponseType: string(ragResp.ResponseType),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
