// Package simulation manages simulation sessions and runs the catalog, manual
// and surprise impact flows on top of the domain estimator.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrAsteroidNotFound = errors.New("asteroid not found")
	ErrSessionLimit     = errors.New("session limit reached")
)

// EventPublisher receives every simulated impact.
type EventPublisher interface {
	Publish(ctx context.Context, impact domain.Impact) error
}

// scopeDropper is implemented by renderers that can free a whole scope at
// once, such as the in-memory scene.
type scopeDropper interface {
	Drop(scope string)
}

// NopPublisher discards impacts. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Impact) error { return nil }

// Options configures a Service. Catalog and Renderer are required.
type Options struct {
	Catalog           domain.Catalog
	Renderer          domain.OverlayRenderer
	Publisher         EventPublisher
	Random            *domain.Randomizer
	SessionsPerClient int
	MaxSessions       int
}

// Service owns the session registry and the simulation flows.
type Service struct {
	catalog   domain.Catalog
	renderer  domain.OverlayRenderer
	publisher EventPublisher
	random    *domain.Randomizer
	limiter   *sessionLimiter
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service. A nil Publisher discards events and a nil
// Random draws from math/rand/v2.
func NewService(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	publisher := opts.Publisher
	if publisher == nil {
		publisher = NopPublisher{}
	}
	random := opts.Random
	if random == nil {
		random = domain.NewRandomizer(nil)
	}
	return &Service{
		catalog:   opts.Catalog,
		renderer:  opts.Renderer,
		publisher: publisher,
		random:    random,
		limiter:   newSessionLimiter(opts.SessionsPerClient, opts.MaxSessions),
		logger:    logger,
		metrics:   metrics,
		sessions:  make(map[string]*Session),
	}
}

// CreateSession opens a new session for client.
func (s *Service) CreateSession(_ context.Context, client string) (*Session, error) {
	if !s.limiter.acquire(client) {
		return nil, ErrSessionLimit
	}

	sess := newSession(uuid.NewString(), client, domain.Now(), s.renderer)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.metrics.ActiveSessions.Inc()
	s.logger.Debug("session created", "session_id", sess.ID, "client", client)
	return sess, nil
}

// Session returns the session with the given ID.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// DeleteSession clears the session's overlays and forgets it. Simulations
// still holding the session fail with ErrSessionNotFound afterwards.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.limiter.release(sess.Client)
	s.metrics.ActiveSessions.Dec()

	if err := sess.close(ctx); err != nil {
		s.logger.Warn("clear overlays on delete failed", "session_id", id, "error", err)
	}
	if d, ok := s.renderer.(scopeDropper); ok {
		d.Drop(id)
	}
	return nil
}

// SimulateManual runs the launcher flow with caller-supplied parameters.
func (s *Service) SimulateManual(ctx context.Context, sessionID string, at domain.Geo, p domain.ImpactParameters) (domain.Impact, error) {
	if err := validate(at, p); err != nil {
		return domain.Impact{}, err
	}
	return s.run(ctx, sessionID, domain.VariantManual, at, p, nil)
}

// SimulateAsteroid runs the catalog flow: the object's maximum estimated
// diameter is rounded to whole meters, the velocity is drawn at random and the
// impact is vertical into rock.
func (s *Service) SimulateAsteroid(ctx context.Context, sessionID string, at domain.Geo, asteroidID string) (domain.Impact, error) {
	if !at.Valid() {
		return domain.Impact{}, fmt.Errorf("%w: location %.4f,%.4f out of range", domain.ErrInvalidParameters, at.Lat, at.Lon)
	}
	if _, err := s.Session(sessionID); err != nil {
		return domain.Impact{}, err
	}

	neo, err := s.catalog.Lookup(ctx, asteroidID)
	if err != nil {
		return domain.Impact{}, fmt.Errorf("lookup asteroid %s: %w", asteroidID, err)
	}
	if neo.ID == "" {
		return domain.Impact{}, fmt.Errorf("%w: %s", ErrAsteroidNotFound, asteroidID)
	}

	p := domain.VerticalRockImpact(domain.Round(neo.EstimatedDiameterMaxMeters, 0), s.random.CatalogVelocity())
	ref := &domain.AsteroidRef{ID: neo.ID, Name: neo.Name}
	return s.run(ctx, sessionID, domain.VariantCatalog, at, p, ref)
}

// Surprise simulates a random impact at a random location.
func (s *Service) Surprise(ctx context.Context, sessionID string) (domain.Impact, error) {
	at, p := s.random.Scenario()
	return s.run(ctx, sessionID, domain.VariantSurprise, at, p, nil)
}

// SearchAsteroids filters the first catalog page by name.
func (s *Service) SearchAsteroids(ctx context.Context, query string) ([]domain.NearEarthObject, error) {
	objects, err := s.catalog.Browse(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("browse catalog: %w", err)
	}
	return domain.SearchObjects(objects, query), nil
}

// ClearOverlays resets the session's map.
func (s *Service) ClearOverlays(ctx context.Context, sessionID string) error {
	sess, err := s.Session(sessionID)
	if err != nil {
		return err
	}
	return sess.Clear(ctx)
}

// CheckReadiness reports whether the catalog can be browsed.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if _, err := s.catalog.Browse(ctx, 0); err != nil {
		return fmt.Errorf("catalog unavailable: %w", err)
	}
	return nil
}

// ActiveSessions returns the number of open sessions.
func (s *Service) ActiveSessions() int {
	return s.limiter.active()
}

func (s *Service) run(ctx context.Context, sessionID, variant string, at domain.Geo, p domain.ImpactParameters, ref *domain.AsteroidRef) (domain.Impact, error) {
	sess, err := s.Session(sessionID)
	if err != nil {
		return domain.Impact{}, err
	}

	impact, err := sess.simulate(ctx, variant, at, p, ref)
	if err != nil {
		return domain.Impact{}, err
	}

	s.metrics.Simulations.WithLabelValues(variant).Inc()
	s.metrics.ImpactEnergy.Observe(impact.Estimate.EnergyMegatons)
	s.logger.Info("impact simulated",
		"session_id", sessionID,
		"impact_id", impact.ID,
		"variant", variant,
		"energy_mt", impact.Display.EnergyMegatons,
	)

	// The impact is already drawn; a client hanging up must not cancel the event.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), impact); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish impact failed", "impact_id", impact.ID, "error", err)
	}
	return impact, nil
}

func validate(at domain.Geo, p domain.ImpactParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !at.Valid() {
		return fmt.Errorf("%w: location %.4f,%.4f out of range", domain.ErrInvalidParameters, at.Lat, at.Lon)
	}
	return nil
}
