// Package api exposes the check-in pipeline over HTTP. All request/response
// marshalling lives here; the pipeline itself only sees domain types.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	shared "github.com/ripixel/checkin-server/pkg"
	"github.com/ripixel/checkin-server/pkg/checklist"
	"github.com/ripixel/checkin-server/pkg/processor"
)

// Server holds the handler dependencies.
type Server struct {
	processor *processor.Processor
	lists     *checklist.Store
	repo      shared.Repository
	logger    *slog.Logger
}

func NewServer(proc *processor.Processor, lists *checklist.Store, repo shared.Repository, logger *slog.Logger) *Server {
	return &Server{
		processor: proc,
		lists:     lists,
		repo:      repo,
		logger:    logger.With("component", "api"),
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api/checkin", func(r chi.Router) {
		r.Get("/", s.handleProcessSavedResults)
		r.Post("/process", s.handleProcessQueue)
		r.Post("/single", s.handleProcessSingleItem)
		r.Get("/lists", s.handleGetLists)
		r.Patch("/lists", s.handleUpdateLists)
		r.Get("/date/{date}", s.handleGetItemByDate)
		r.Get("/{year}/{month}", s.handleGetItemsByMonth)
	})

	return r
}

// requestLogger logs one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(started).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Error encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
