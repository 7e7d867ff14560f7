package simulation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
)

// Session is one client's simulation view. It holds at most one impact at a
// time: simulating a new impact removes the overlays of the previous one.
type Session struct {
	ID        string
	Client    string
	CreatedAt time.Time

	renderer domain.OverlayRenderer

	mu      sync.Mutex
	handles []domain.OverlayHandle
	last    *domain.Impact
	closed  bool
}

// Snapshot is the JSON view of a session.
type Snapshot struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	Overlays   int            `json:"overlays"`
	LastImpact *domain.Impact `json:"last_impact,omitempty"`
}

func newSession(id, client string, createdAt time.Time, renderer domain.OverlayRenderer) *Session {
	return &Session{
		ID:        id,
		Client:    client,
		CreatedAt: createdAt,
		renderer:  renderer,
	}
}

// Simulate estimates an impact at the given location and draws it, replacing
// whatever the session showed before. A non-nil asteroid marks the impact as
// coming from the catalog.
func (s *Session) Simulate(ctx context.Context, at domain.Geo, p domain.ImpactParameters, asteroid *domain.AsteroidRef) (domain.Impact, error) {
	variant := domain.VariantManual
	if asteroid != nil {
		variant = domain.VariantCatalog
	}
	return s.simulate(ctx, variant, at, p, asteroid)
}

func (s *Session) simulate(ctx context.Context, variant string, at domain.Geo, p domain.ImpactParameters, asteroid *domain.AsteroidRef) (domain.Impact, error) {
	impact := domain.NewImpact(s.ID, variant, at, p, asteroid)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Impact{}, fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID)
	}
	if err := s.clearLocked(ctx); err != nil {
		return domain.Impact{}, err
	}

	for _, o := range domain.BuildOverlays(impact.Location, impact.Display) {
		h, err := s.renderer.Add(ctx, s.ID, o)
		if err != nil {
			return domain.Impact{}, fmt.Errorf("render %s overlay: %w", o.Kind, err)
		}
		s.handles = append(s.handles, h)
	}
	s.last = &impact
	return impact, nil
}

// Clear removes every overlay drawn for the session and forgets the last
// impact.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

// close clears the session and rejects every later simulation. Callers that
// looked the session up before it was deleted get ErrSessionNotFound.
func (s *Session) close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.clearLocked(ctx)
}

func (s *Session) clearLocked(ctx context.Context) error {
	var errs []error
	for _, h := range s.handles {
		if err := s.renderer.Remove(ctx, s.ID, h); err != nil {
			errs = append(errs, err)
		}
	}
	s.handles = nil
	s.last = nil
	return errors.Join(errs...)
}

// Overlays returns the handles of the overlays currently drawn.
func (s *Session) Overlays() []domain.OverlayHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.handles)
}

// LastImpact returns the most recent impact simulated in the session.
func (s *Session) LastImpact() (domain.Impact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return domain.Impact{}, false
	}
	return *s.last, true
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{ID: s.ID, CreatedAt: s.CreatedAt, Overlays: len(s.handles)}
	if s.last != nil {
		last := *s.last
		snap.LastImpact = &last
	}
	return snap
}
