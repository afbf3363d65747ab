package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/handlers"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/ingest"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/rag"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	RAGEngine  rag.Engine
	Pipeline   *ingest.Pipeline
	ChunkStore storage.ChunkStore
	DocsDir    string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Add CORS and context-logger middleware
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	askHandler := handlers.NewAskHandler(deps.RAGEngine)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline, deps.ChunkStore)
	reindexHandler := handlers.NewReindexHandler(deps.Pipeline, deps.DocsDir)

	// Register API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Method(http.MethodPost, "/reindex", reindexHandler)
	})

	r.Method(http.MethodGet, "/healthz", handlers.NewHealthHandler())

	return r
}
