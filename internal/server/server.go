package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
)

// Store persists parse results. *storage.DB implements it.
type Store interface {
	SaveParsedWorkout(ctx context.Context, source string, res *parser.Result) (uuid.UUID, error)
	ListParsedWorkouts(ctx context.Context, limit int) ([]models.ParsedWorkoutRow, error)
	GetParsedWorkout(ctx context.Context, id uuid.UUID) (*models.ParsedWorkoutDetail, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	parser   *parser.Parser
	vocab    parser.Vocabulary
	store    Store
	log      *slog.Logger
	apiKey   string
	maxInput int
	whois    WhoIser
	router   chi.Router
}

// New creates a new Server with all routes configured. store may be nil, in
// which case saving and the workout history endpoints report 503.
func New(p *parser.Parser, vocab parser.Vocabulary, store Store, apiKey string, maxInputBytes int, log *slog.Logger) *Server {
	s := &Server{
		parser:   p,
		vocab:    vocab,
		store:    store,
		log:      log,
		apiKey:   apiKey,
		maxInput: maxInputBytes,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables tailnet identity lookup for incoming requests.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Get("/health", s.handleHealth)

	// Parsing endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/parse", s.handleParse)
		r.Post("/api/v1/parse/legacy", s.handleParseLegacy)
		r.Post("/api/v1/validate", s.handleValidate)
	})

	// Read-only endpoints; tsnet restricts access to the tailnet
	s.router.Get("/api/v1/movements", s.handleSearchMovements)
	s.router.Get("/api/v1/movements/{name}", s.handleGetMovement)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
}

// identity picks the tailnet or dev identity middleware at request time, so
// SetTailscale may be called after routes are built.
func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois == nil {
			dev.ServeHTTP(w, r)
			return
		}
		TailscaleIdentity(s.whois, s.log)(next).ServeHTTP(w, r)
	})
}
