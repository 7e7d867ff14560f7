package domain

import "math"

// Display is the rounded form of an ImpactEstimate shown to users.
type Display struct {
	EnergyMegatons           float64 `json:"energy_mt"`
	CraterDiameterMeters     float64 `json:"crater_diameter_m"`
	ThermalRadiusMeters      float64 `json:"thermal_radius_m"`
	ShockRadiusMeters        float64 `json:"shock_radius_m"`
	SeismicMagnitudeProxy    float64 `json:"seismic_magnitude"`
	GlobalEffectRadiusMeters float64 `json:"global_effect_radius_m"`
}

// NewDisplay rounds energy to two decimals and everything else to whole units.
func NewDisplay(e ImpactEstimate) Display {
	return Display{
		EnergyMegatons:           Round(e.EnergyMegatons, 2),
		CraterDiameterMeters:     Round(e.CraterDiameterMeters, 0),
		ThermalRadiusMeters:      Round(e.ThermalRadiusMeters, 0),
		ShockRadiusMeters:        Round(e.ShockRadiusMeters, 0),
		SeismicMagnitudeProxy:    Round(e.SeismicMagnitudeProxy, 0),
		GlobalEffectRadiusMeters: Round(e.GlobalEffectRadiusMeters, 0),
	}
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	if places <= 0 {
		return math.Round(v)
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
