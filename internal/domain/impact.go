package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// joulesPerMegaton is the TNT-equivalent conversion factor.
	joulesPerMegaton = 4.184e15
	// joulesPerKiloton scales energy for the cube-root blast laws.
	joulesPerKiloton = 4.184e12

	// GlobalEffectThresholdMegatons is the yield above which planet-scale
	// consequences are reported.
	GlobalEffectThresholdMegatons = 1000.0

	// VerticalAngleDegrees is the implicit angle of the catalog flow.
	VerticalAngleDegrees = 90.0
)

var (
	// ErrUnknownMaterial is returned by ParseMaterial for unrecognized names.
	ErrUnknownMaterial = errors.New("unknown material")

	// ErrInvalidParameters is returned by Validate for out-of-range input.
	ErrInvalidParameters = errors.New("invalid impact parameters")
)

// Material is the composition class of an impactor.
type Material string

const (
	MaterialRock Material = "rock"
	MaterialIron Material = "iron"
	MaterialIce  Material = "ice"
)

// Materials lists every supported material in a stable order.
var Materials = []Material{MaterialRock, MaterialIron, MaterialIce}

// Density returns the material density in kg/m³, or 0 for unknown materials.
func (m Material) Density() float64 {
	switch m {
	case MaterialRock:
		return 3000
	case MaterialIron:
		return 7800
	case MaterialIce:
		return 1000
	default:
		return 0
	}
}

// ParseMaterial accepts a case-insensitive material name.
func ParseMaterial(s string) (Material, error) {
	m := Material(strings.ToLower(strings.TrimSpace(s)))
	if m.Density() == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownMaterial, s)
	}
	return m, nil
}

// ImpactParameters describes the impactor and its trajectory.
type ImpactParameters struct {
	DiameterMeters   float64  `json:"diameter_m"`
	VelocityKmPerSec float64  `json:"velocity_km_s"`
	AngleDegrees     float64  `json:"angle_deg"`
	Material         Material `json:"material"`
}

// VerticalRockImpact returns the parameter set used by the catalog flow.
func VerticalRockImpact(diameterMeters, velocityKmPerSec float64) ImpactParameters {
	return ImpactParameters{
		DiameterMeters:   diameterMeters,
		VelocityKmPerSec: velocityKmPerSec,
		AngleDegrees:     VerticalAngleDegrees,
		Material:         MaterialRock,
	}
}

// Validate rejects parameters that would produce physically meaningless
// estimates, including finite inputs whose energy overflows float64. Estimate
// itself never calls it.
func (p ImpactParameters) Validate() error {
	switch {
	case !(p.DiameterMeters > 0) || math.IsInf(p.DiameterMeters, 0):
		return fmt.Errorf("%w: diameter must be positive, got %g", ErrInvalidParameters, p.DiameterMeters)
	case !(p.VelocityKmPerSec > 0) || math.IsInf(p.VelocityKmPerSec, 0):
		return fmt.Errorf("%w: velocity must be positive, got %g", ErrInvalidParameters, p.VelocityKmPerSec)
	case !(p.AngleDegrees > 0 && p.AngleDegrees <= 90):
		return fmt.Errorf("%w: angle must be in (0, 90], got %g", ErrInvalidParameters, p.AngleDegrees)
	case p.Material.Density() == 0:
		return fmt.Errorf("%w: %q", ErrUnknownMaterial, p.Material)
	}
	if j := Estimate(p).EnergyJoules; math.IsInf(j, 0) || math.IsNaN(j) {
		return fmt.Errorf("%w: energy overflows for diameter %g and velocity %g",
			ErrInvalidParameters, p.DiameterMeters, p.VelocityKmPerSec)
	}
	return nil
}

// ImpactEstimate holds the derived effects of an impact at full precision.
type ImpactEstimate struct {
	EnergyJoules             float64 `json:"energy_joules"`
	EnergyMegatons           float64 `json:"energy_mt"`
	CraterDiameterMeters     float64 `json:"crater_diameter_m"`
	ThermalRadiusMeters      float64 `json:"thermal_radius_m"`
	ShockRadiusMeters        float64 `json:"shock_radius_m"`
	SeismicMagnitudeProxy    float64 `json:"seismic_magnitude"`
	GlobalEffectRadiusMeters float64 `json:"global_effect_radius_m"`
}

// Estimate computes impact effects from p. It performs no validation: an
// unknown material has zero density and negative inputs yield whatever the
// arithmetic produces.
func Estimate(p ImpactParameters) ImpactEstimate {
	r := p.DiameterMeters / 2
	volume := (4.0 / 3.0) * math.Pi * math.Pow(r, 3)
	mass := volume * p.Material.Density()
	vms := p.VelocityKmPerSec * 1000
	joules := 0.5 * mass * math.Pow(vms, 2) * math.Sin(p.AngleDegrees*math.Pi/180)
	mt := joules / joulesPerMegaton

	blastScale := math.Pow(joules/joulesPerKiloton, 1.0/3.0)

	var global float64
	if mt > GlobalEffectThresholdMegatons {
		global = mt / 100 * 1000
	}

	return ImpactEstimate{
		EnergyJoules:             joules,
		EnergyMegatons:           mt,
		CraterDiameterMeters:     1.8 * math.Pow(mt, 0.25) * 1000,
		ThermalRadiusMeters:      0.25 * blastScale * 1000,
		ShockRadiusMeters:        0.35 * blastScale * 1000,
		SeismicMagnitudeProxy:    50 * math.Pow(mt, 0.17),
		GlobalEffectRadiusMeters: global,
	}
}

// EstimateVertical is Estimate for a vertical rock impact.
func EstimateVertical(diameterMeters, velocityKmPerSec float64) ImpactEstimate {
	return Estimate(VerticalRockImpact(diameterMeters, velocityKmPerSec))
}
