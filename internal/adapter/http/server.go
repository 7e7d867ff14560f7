package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
	"github.com/couchcryptid/asteroid-impact-sim/internal/simulation"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Simulator is the session and impact API the handlers drive.
// *simulation.Service implements it.
type Simulator interface {
	CreateSession(ctx context.Context, client string) (*simulation.Session, error)
	Session(id string) (*simulation.Session, error)
	DeleteSession(ctx context.Context, id string) error
	SimulateManual(ctx context.Context, sessionID string, at domain.Geo, p domain.ImpactParameters) (domain.Impact, error)
	SimulateAsteroid(ctx context.Context, sessionID string, at domain.Geo, asteroidID string) (domain.Impact, error)
	Surprise(ctx context.Context, sessionID string) (domain.Impact, error)
	SearchAsteroids(ctx context.Context, query string) ([]domain.NearEarthObject, error)
	ClearOverlays(ctx context.Context, sessionID string) error
}

// OverlaySource lists the overlays drawn for a session.
type OverlaySource interface {
	Overlays(scope string) []domain.Overlay
}

// Server exposes the simulation API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	sim        Simulator
	overlays   OverlaySource
	trustProxy bool
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API routes and /healthz, /readyz,
// and /metrics.
func NewServer(addr string, sim Simulator, overlays OverlaySource, ready sharedobs.ReadinessChecker, trustProxy bool, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		sim:        sim,
		overlays:   overlays,
		trustProxy: trustProxy,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/estimate", s.handleEstimate)
	mux.HandleFunc("GET /api/v1/asteroids", s.handleSearchAsteroids)
	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/impacts", s.handleImpact)
	mux.HandleFunc("POST /api/v1/sessions/{id}/surprise", s.handleSurprise)
	mux.HandleFunc("GET /api/v1/sessions/{id}/overlays", s.handleListOverlays)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}/overlays", s.handleClearOverlays)

	// Middleware chain: metrics -> logging -> mux.
	var handler http.Handler = mux
	handler = loggingMiddleware(logger, trustProxy)(handler)
	handler = metricsMiddleware(metrics)(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
