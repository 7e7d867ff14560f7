// Package scene keeps rendered overlays in memory so map clients can fetch
// and draw them. It implements domain.OverlayRenderer.
package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/google/uuid"
)

// Scene stores overlays grouped by scope (one scope per session).
type Scene struct {
	mu     sync.RWMutex
	layers map[string]map[domain.OverlayHandle]layer
	seq    uint64
}

type layer struct {
	seq     uint64
	overlay domain.Overlay
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{layers: make(map[string]map[domain.OverlayHandle]layer)}
}

// Add stores o under scope and returns its handle.
func (s *Scene) Add(_ context.Context, scope string, o domain.Overlay) (domain.OverlayHandle, error) {
	h := domain.OverlayHandle(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers[scope]
	if !ok {
		l = make(map[domain.OverlayHandle]layer)
		s.layers[scope] = l
	}
	s.seq++
	l[h] = layer{seq: s.seq, overlay: o}
	return h, nil
}

// Remove deletes the overlay h from scope.
func (s *Scene) Remove(_ context.Context, scope string, h domain.OverlayHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers[scope]
	if !ok {
		return fmt.Errorf("remove overlay %s: unknown scope %q", h, scope)
	}
	if _, ok := l[h]; !ok {
		return fmt.Errorf("remove overlay %s: not found", h)
	}
	delete(l, h)
	if len(l) == 0 {
		delete(s.layers, scope)
	}
	return nil
}

// Overlays returns the overlays of scope in insertion order.
func (s *Scene) Overlays(scope string) []domain.Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.layers[scope]
	layers := make([]layer, 0, len(l))
	for _, v := range l {
		layers = append(layers, v)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].seq < layers[j].seq })

	out := make([]domain.Overlay, len(layers))
	for i, v := range layers {
		out[i] = v.overlay
	}
	return out
}

// Drop removes every overlay of scope.
func (s *Scene) Drop(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layers, scope)
}
