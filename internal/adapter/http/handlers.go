package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/simulation"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxBodyBytes = 1 << 16

// parametersRequest is the manual parameter set accepted by the API. A zero
// angle means vertical and an empty material means rock.
type parametersRequest struct {
	DiameterMeters   float64 `json:"diameter_m"`
	VelocityKmPerSec float64 `json:"velocity_km_s"`
	AngleDegrees     float64 `json:"angle_deg"`
	Material         string  `json:"material"`
}

func (p parametersRequest) resolve() (domain.ImpactParameters, error) {
	material := domain.MaterialRock
	if p.Material != "" {
		m, err := domain.ParseMaterial(p.Material)
		if err != nil {
			return domain.ImpactParameters{}, err
		}
		material = m
	}
	angle := p.AngleDegrees
	if angle == 0 {
		angle = domain.VerticalAngleDegrees
	}
	params := domain.ImpactParameters{
		DiameterMeters:   p.DiameterMeters,
		VelocityKmPerSec: p.VelocityKmPerSec,
		AngleDegrees:     angle,
		Material:         material,
	}
	return params, params.Validate()
}

type impactRequest struct {
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	AsteroidID string             `json:"asteroid_id,omitempty"`
	Parameters *parametersRequest `json:"parameters,omitempty"`
}

type estimateResponse struct {
	Parameters domain.ImpactParameters `json:"parameters"`
	Estimate   domain.ImpactEstimate   `json:"estimate"`
	Display    domain.Display          `json:"display"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req parametersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	params, err := req.resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	est := domain.Estimate(params)
	writeJSON(w, http.StatusOK, estimateResponse{
		Parameters: params,
		Estimate:   est,
		Display:    domain.NewDisplay(est),
	})
}

func (s *Server) handleSearchAsteroids(w http.ResponseWriter, r *http.Request) {
	objects, err := s.sim.SearchAsteroids(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Warn("asteroid search failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"asteroids": objects})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sim.CreateSession(r.Context(), clientIP(r, s.trustProxy))
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sim.Session(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	var req impactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("id")
	at := domain.Geo{Lat: req.Lat, Lon: req.Lon}

	var (
		impact domain.Impact
		err    error
	)
	switch {
	case req.AsteroidID != "":
		impact, err = s.sim.SimulateAsteroid(r.Context(), id, at, req.AsteroidID)
	case req.Parameters != nil:
		var params domain.ImpactParameters
		params, err = req.Parameters.resolve()
		if err == nil {
			impact, err = s.sim.SimulateManual(r.Context(), id, at, params)
		}
	default:
		writeError(w, http.StatusBadRequest, errors.New("either asteroid_id or parameters is required"))
		return
	}
	if err != nil {
		writeError(w, statusFor(err, http.StatusBadGateway), err)
		return
	}
	writeJSON(w, http.StatusCreated, impact)
}

func (s *Server) handleSurprise(w http.ResponseWriter, r *http.Request) {
	impact, err := s.sim.Surprise(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	writeJSON(w, http.StatusCreated, impact)
}

func (s *Server) handleListOverlays(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.sim.Session(id); err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overlays": s.overlays.Overlays(id)})
}

func (s *Server) handleClearOverlays(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.ClearOverlays(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps domain and simulation errors to HTTP status codes.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, simulation.ErrSessionNotFound), errors.Is(err, simulation.ErrAsteroidNotFound):
		return http.StatusNotFound
	case errors.Is(err, simulation.ErrSessionLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidParameters), errors.Is(err, domain.ErrUnknownMaterial):
		return http.StatusBadRequest
	default:
		return fallback
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before committing status, so a value that cannot be
// encoded turns into a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "encode response: " + err.Error()})
		return
	}
	sharedobs.WriteJSON(w, status, json.RawMessage(body))
}
