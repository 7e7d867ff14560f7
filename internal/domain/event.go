package domain

import (
	"context"
	"time"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinates lie within the usual degree ranges.
func (g Geo) Valid() bool {
	return g.Lat >= -90 && g.Lat <= 90 && g.Lon >= -180 && g.Lon <= 180
}

// AsteroidRef identifies the catalog object behind an impact.
type AsteroidRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Effects are the presentation cues a client plays alongside an impact.
type Effects struct {
	ShakeMillis  int      `json:"shake_ms"`
	FlashMillis  int      `json:"flash_ms"`
	RumbleMillis int      `json:"rumble_ms,omitempty"`
	Sounds       []string `json:"sounds"`
}

// Variant names the flow that produced an impact.
const (
	VariantCatalog  = "catalog"
	VariantManual   = "manual"
	VariantSurprise = "surprise"
	VariantBatch    = "batch"
)

// Impact is one simulated impact event.
type Impact struct {
	ID          string           `json:"id"`
	SessionID   string           `json:"session_id,omitempty"`
	Variant     string           `json:"variant"`
	Location    Geo              `json:"location"`
	Parameters  ImpactParameters `json:"parameters"`
	Asteroid    *AsteroidRef     `json:"asteroid,omitempty"`
	Estimate    ImpactEstimate   `json:"estimate"`
	Display     Display          `json:"display"`
	Effects     Effects          `json:"effects"`
	SimulatedAt time.Time        `json:"simulated_at"`
}

// ScenarioRequest is the JSON message consumed by the batch pipeline.
type ScenarioRequest struct {
	ID               string  `json:"id"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	DiameterMeters   float64 `json:"diameter_m"`
	VelocityKmPerSec float64 `json:"velocity_km_s"`
	AngleDegrees     float64 `json:"angle_deg"`
	Material         string  `json:"material"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
