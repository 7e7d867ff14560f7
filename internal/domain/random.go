package domain

import (
	"math"
	"math/rand/v2"
)

// RandomSource yields uniformly distributed values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// Scenario bounds for randomized impacts.
const (
	minRandomDiameter = 50.0
	maxRandomDiameter = 5000.0
	minRandomVelocity = 11.0
	maxRandomVelocity = 70.0
	minRandomAngle    = 10.0
	maxRandomAngle    = 90.0

	// Catalog objects carry no velocity, so one is drawn from [10, 40) km/s.
	minCatalogVelocity  = 10.0
	catalogVelocitySpan = 30.0
)

// Randomizer draws impact scenarios from a RandomSource.
type Randomizer struct {
	src RandomSource
}

// NewRandomizer wraps src. A nil src uses the process-wide math/rand/v2
// generator.
func NewRandomizer(src RandomSource) *Randomizer {
	if src == nil {
		src = globalSource{}
	}
	return &Randomizer{src: src}
}

// Location returns a uniformly random latitude in [-90, 90) and longitude in
// [-180, 180).
func (r *Randomizer) Location() Geo {
	lat := r.src.Float64()*180 - 90
	lon := r.src.Float64()*360 - 180
	return Geo{Lat: lat, Lon: lon}
}

// Parameters returns a random manual parameter set: whole-meter diameter,
// velocity to one decimal, whole-degree angle and a random material.
func (r *Randomizer) Parameters() ImpactParameters {
	diameter := math.Floor(r.src.Float64()*(maxRandomDiameter-minRandomDiameter) + minRandomDiameter)
	velocity := Round(r.src.Float64()*(maxRandomVelocity-minRandomVelocity)+minRandomVelocity, 1)
	angle := math.Floor(r.src.Float64()*(maxRandomAngle-minRandomAngle) + minRandomAngle)
	material := Materials[int(math.Floor(r.src.Float64()*float64(len(Materials))))]

	return ImpactParameters{
		DiameterMeters:   diameter,
		VelocityKmPerSec: velocity,
		AngleDegrees:     angle,
		Material:         material,
	}
}

// Scenario returns a random location and parameter set.
func (r *Randomizer) Scenario() (Geo, ImpactParameters) {
	at := r.Location()
	return at, r.Parameters()
}

// CatalogVelocity returns a random impact velocity for a catalog object.
func (r *Randomizer) CatalogVelocity() float64 {
	return Round(r.src.Float64()*catalogVelocitySpan+minCatalogVelocity, 1)
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
