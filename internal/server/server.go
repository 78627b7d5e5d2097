package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/engine/substitute"
	"github.com/liftlab/liftplan/internal/memstore"
	"github.com/liftlab/liftplan/internal/planner"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	planner     *planner.Planner
	scorer      *substitute.Scorer
	substituter *substitute.Substituter
	store       *memstore.Store
	exercises   catalog.ExerciseCatalog
	protocols   catalog.ProtocolCatalog
	log         *slog.Logger
	apiKey      string
	router      chi.Router
}

// New creates a new Server with all routes configured.
func New(pl *planner.Planner, scorer *substitute.Scorer, sub *substitute.Substituter,
	store *memstore.Store, exercises catalog.ExerciseCatalog, protocols catalog.ProtocolCatalog,
	apiKey string, log *slog.Logger) *Server {
	s := &Server{
		planner:     pl,
		scorer:      scorer,
		substituter: sub,
		store:       store,
		exercises:   exercises,
		protocols:   protocols,
		log:         log,
		apiKey:      apiKey,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleBuildSession)
		r.Post("/api/v1/sessions/{id}/substitute", s.handleSubstitute)
		r.Put("/api/v1/users/{userID}/library", s.handlePutLibrary)
		r.Put("/api/v1/users/{userID}/targets", s.handlePutTarget)
	})

	// Read endpoints
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/exercises/{id}/alternatives", s.handleAlternatives)
	s.router.Get("/api/v1/catalog/exercises", s.handleCatalogExercises)
	s.router.Get("/api/v1/catalog/protocols", s.handleCatalogProtocols)
}
