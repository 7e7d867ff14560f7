package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// ParseScenario deserializes a RawEvent's value into a ScenarioRequest.
func ParseScenario(raw RawEvent) (ScenarioRequest, error) {
	var req ScenarioRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ScenarioRequest{}, fmt.Errorf("parse scenario: %w", err)
	}
	return req, nil
}

// Resolve validates the request and returns its location and parameters.
// A zero angle is read as a vertical impact.
func (r ScenarioRequest) Resolve() (Geo, ImpactParameters, error) {
	material, err := ParseMaterial(r.Material)
	if err != nil {
		return Geo{}, ImpactParameters{}, err
	}
	angle := r.AngleDegrees
	if angle == 0 {
		angle = VerticalAngleDegrees
	}
	p := ImpactParameters{
		DiameterMeters:   r.DiameterMeters,
		VelocityKmPerSec: r.VelocityKmPerSec,
		AngleDegrees:     angle,
		Material:         material,
	}
	if err := p.Validate(); err != nil {
		return Geo{}, ImpactParameters{}, err
	}
	at := Geo{Lat: r.Lat, Lon: r.Lon}
	if !at.Valid() {
		return Geo{}, ImpactParameters{}, fmt.Errorf("%w: location %.4f,%.4f out of range", ErrInvalidParameters, r.Lat, r.Lon)
	}
	return at, p, nil
}

// NewImpact estimates p and assembles the resulting impact event.
func NewImpact(sessionID, variant string, at Geo, p ImpactParameters, asteroid *AsteroidRef) Impact {
	est := Estimate(p)
	now := Now()
	return Impact{
		ID:          generateID(sessionID, at, p, now),
		SessionID:   sessionID,
		Variant:     variant,
		Location:    at,
		Parameters:  p,
		Asteroid:    asteroid,
		Estimate:    est,
		Display:     NewDisplay(est),
		Effects:     ImpactEffects(variant),
		SimulatedAt: now,
	}
}

// SerializeImpact marshals an impact into an OutputEvent keyed by its ID.
func SerializeImpact(impact Impact) (OutputEvent, error) {
	data, err := json.Marshal(impact)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize impact: %w", err)
	}
	return OutputEvent{
		Key:   []byte(impact.ID),
		Value: data,
		Headers: map[string]string{
			"event_type":   "impact",
			"variant":      impact.Variant,
			"simulated_at": impact.SimulatedAt.Format(time.RFC3339),
		},
	}, nil
}

// generateID produces a deterministic ID from the impact's key fields.
func generateID(sessionID string, at Geo, p ImpactParameters, ts time.Time) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%g|%g|%g|%s|%d",
		sessionID, at.Lat, at.Lon, p.DiameterMeters, p.VelocityKmPerSec, p.AngleDegrees, p.Material, ts.UnixNano())
	hash := sha256.Sum256([]byte(input))
	return "impact-" + hex.EncodeToString(hash[:8])
}
