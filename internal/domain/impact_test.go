package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relTolerance absorbs last-bit differences between math library pow/sin
// implementations.
const relTolerance = 1e-12

func TestEstimate_GoldenVerticalRock(t *testing.T) {
	est := EstimateVertical(1000, 20)

	assert.InEpsilon(t, math.Pi*1e20, est.EnergyJoules, relTolerance)
	assert.InEpsilon(t, 75085.8664815916, est.EnergyMegatons, relTolerance)
	assert.InEpsilon(t, 29796.28051881183, est.CraterDiameterMeters, relTolerance)
	assert.InEpsilon(t, 105469.30259296653, est.ThermalRadiusMeters, relTolerance)
	assert.InEpsilon(t, 147657.02363015313, est.ShockRadiusMeters, relTolerance)
	assert.InEpsilon(t, 337.1435828616736, est.SeismicMagnitudeProxy, relTolerance)
	assert.InEpsilon(t, 750858.664815916, est.GlobalEffectRadiusMeters, relTolerance)
}

func TestEstimate_GoldenTable(t *testing.T) {
	cases := []struct {
		name    string
		params  ImpactParameters
		energy  float64
		crater  float64
		thermal float64
		shock   float64
		seismic float64
		global  float64
	}{
		{
			name:    "rock at 45 degrees",
			params:  ImpactParameters{DiameterMeters: 1000, VelocityKmPerSec: 20, AngleDegrees: 45, Material: MaterialRock},
			energy:  53093.725360401106,
			crater:  27323.309708211025,
			thermal: 93962.46648322944,
			shock:   131547.4530765212,
			seismic: 317.8537563060555,
			global:  530937.253604011,
		},
		{
			name:    "small rock below global threshold",
			params:  ImpactParameters{DiameterMeters: 100, VelocityKmPerSec: 17, AngleDegrees: 90, Material: MaterialRock},
			energy:  54.249538532949934,
			crater:  4885.078165154742,
			thermal: 9463.94101319658,
			shock:   13249.51741847521,
			seismic: 98.5864736441554,
			global:  0,
		},
		{
			name:    "iron",
			params:  ImpactParameters{DiameterMeters: 2000, VelocityKmPerSec: 30, AngleDegrees: 90, Material: MaterialIron},
			energy:  3514018.551338487,
			crater:  77933.38097223424,
			thermal: 380079.71518932184,
			shock:   532111.6012650506,
			seismic: 648.2711472945834,
			global:  35140185.513384864,
		},
		{
			name:    "ice",
			params:  ImpactParameters{DiameterMeters: 500, VelocityKmPerSec: 20, AngleDegrees: 90, Material: MaterialIce},
			energy:  3128.5777700663166,
			crater:  13461.98938845968,
			thermal: 36564.16502536599,
			shock:   51189.831035512376,
			seismic: 196.41696074399346,
			global:  31285.777700663166,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			est := Estimate(tc.params)
			assert.InEpsilon(t, tc.energy, est.EnergyMegatons, relTolerance)
			assert.InEpsilon(t, tc.crater, est.CraterDiameterMeters, relTolerance)
			assert.InEpsilon(t, tc.thermal, est.ThermalRadiusMeters, relTolerance)
			assert.InEpsilon(t, tc.shock, est.ShockRadiusMeters, relTolerance)
			assert.InEpsilon(t, tc.seismic, est.SeismicMagnitudeProxy, relTolerance)
			if tc.global == 0 {
				assert.Zero(t, est.GlobalEffectRadiusMeters)
			} else {
				assert.InEpsilon(t, tc.global, est.GlobalEffectRadiusMeters, relTolerance)
			}
		})
	}
}

func TestEstimate_ThermalIsFiveSeventhsOfShock(t *testing.T) {
	est := EstimateVertical(750, 25)
	assert.InEpsilon(t, 0.25/0.35, est.ThermalRadiusMeters/est.ShockRadiusMeters, relTolerance)
}

func TestEstimate_MonotonicInDiameter(t *testing.T) {
	prev := EstimateVertical(10, 20).EnergyMegatons
	for d := 20.0; d <= 5000; d += 10 {
		e := EstimateVertical(d, 20).EnergyMegatons
		require.Greater(t, e, prev, "diameter %g", d)
		prev = e
	}
}

func TestEstimate_MonotonicInVelocity(t *testing.T) {
	prev := EstimateVertical(300, 1).EnergyMegatons
	for v := 1.5; v <= 70; v += 0.5 {
		e := EstimateVertical(300, v).EnergyMegatons
		require.Greater(t, e, prev, "velocity %g", v)
		prev = e
	}
}

func TestEstimate_AngleSensitivity(t *testing.T) {
	p := ImpactParameters{DiameterMeters: 400, VelocityKmPerSec: 18, AngleDegrees: 90, Material: MaterialIron}
	vertical := Estimate(p).EnergyMegatons

	prev := vertical
	for a := 89.0; a >= 1; a-- {
		p.AngleDegrees = a
		e := Estimate(p).EnergyMegatons
		require.Less(t, e, prev, "angle %g", a)
		require.Less(t, e, vertical)
		prev = e
	}
}

func TestEstimate_GlobalEffectThreshold(t *testing.T) {
	var prevGlobal float64
	for d := 50.0; d <= 3000; d += 25 {
		est := EstimateVertical(d, 20)
		if est.EnergyMegatons <= GlobalEffectThresholdMegatons {
			assert.Zero(t, est.GlobalEffectRadiusMeters, "diameter %g", d)
			continue
		}
		assert.Positive(t, est.GlobalEffectRadiusMeters, "diameter %g", d)
		assert.Greater(t, est.GlobalEffectRadiusMeters, prevGlobal)
		prevGlobal = est.GlobalEffectRadiusMeters
	}
	assert.Positive(t, prevGlobal, "sweep should cross the threshold")
}

func TestEstimate_Deterministic(t *testing.T) {
	p := ImpactParameters{DiameterMeters: 1234.5, VelocityKmPerSec: 33.3, AngleDegrees: 37, Material: MaterialIce}
	a := Estimate(p)
	b := Estimate(p)
	assert.Equal(t, math.Float64bits(a.EnergyMegatons), math.Float64bits(b.EnergyMegatons))
	assert.Equal(t, a, b)
}

func TestEstimate_ZeroInputs(t *testing.T) {
	for _, est := range []ImpactEstimate{EstimateVertical(0, 20), EstimateVertical(1000, 0)} {
		assert.Zero(t, est.EnergyJoules)
		assert.Zero(t, est.EnergyMegatons)
		assert.Zero(t, est.CraterDiameterMeters)
		assert.Zero(t, est.ThermalRadiusMeters)
		assert.Zero(t, est.ShockRadiusMeters)
		assert.Zero(t, est.SeismicMagnitudeProxy)
		assert.Zero(t, est.GlobalEffectRadiusMeters)
	}
}

func TestEstimate_NegativeDiameterNotRejected(t *testing.T) {
	est := EstimateVertical(-100, 20)
	assert.Negative(t, est.EnergyMegatons)
	assert.True(t, math.IsNaN(est.CraterDiameterMeters))
}

func TestParseMaterial(t *testing.T) {
	m, err := ParseMaterial(" Iron ")
	require.NoError(t, err)
	assert.Equal(t, MaterialIron, m)
	assert.Equal(t, 7800.0, m.Density())

	_, err = ParseMaterial("cheese")
	require.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestImpactParameters_Validate(t *testing.T) {
	valid := ImpactParameters{DiameterMeters: 100, VelocityKmPerSec: 20, AngleDegrees: 45, Material: MaterialRock}
	require.NoError(t, valid.Validate())

	cases := map[string]func(p *ImpactParameters){
		"zero diameter":     func(p *ImpactParameters) { p.DiameterMeters = 0 },
		"negative velocity": func(p *ImpactParameters) { p.VelocityKmPerSec = -1 },
		"NaN diameter":      func(p *ImpactParameters) { p.DiameterMeters = math.NaN() },
		"zero angle":        func(p *ImpactParameters) { p.AngleDegrees = 0 },
		"angle above 90":    func(p *ImpactParameters) { p.AngleDegrees = 91 },
		"energy overflow":   func(p *ImpactParameters) { p.DiameterMeters = 1e120 },
		"velocity overflow": func(p *ImpactParameters) { p.VelocityKmPerSec = 1e200 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParameters)
		})
	}

	bad := valid
	bad.Material = "plasma"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownMaterial)
}

func TestImpactParameters_ValidateLargeFiniteEnergy(t *testing.T) {
	p := ImpactParameters{DiameterMeters: 1e30, VelocityKmPerSec: 20, AngleDegrees: 90, Material: MaterialIron}
	require.NoError(t, p.Validate())
	assert.False(t, math.IsInf(Estimate(p).EnergyJoules, 0))

	p.DiameterMeters = 1e120
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidParameters)
	assert.Contains(t, err.Error(), "energy overflows")
}

func TestNewDisplay(t *testing.T) {
	d := NewDisplay(EstimateVertical(1000, 20))

	assert.Equal(t, 75085.87, d.EnergyMegatons)
	assert.Equal(t, 29796.0, d.CraterDiameterMeters)
	assert.Equal(t, 105469.0, d.ThermalRadiusMeters)
	assert.Equal(t, 147657.0, d.ShockRadiusMeters)
	assert.Equal(t, 337.0, d.SeismicMagnitudeProxy)
	assert.Equal(t, 750859.0, d.GlobalEffectRadiusMeters)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.3, Round(1.25, 1))
	assert.Equal(t, 3.0, Round(2.5, 0))
	assert.Equal(t, -3.0, Round(-2.5, 0))
	assert.Equal(t, 1.23, Round(1.234, 2))
}
