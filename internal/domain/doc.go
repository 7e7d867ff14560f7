// Package domain models asteroid impacts and the closed-form energy model
// used to illustrate their effects.
//
// # Impact Model
//
// The estimator treats the impactor as a homogeneous sphere and converts its
// kinetic energy into TNT-equivalent yield. Every other quantity is an
// empirical scaling law of that yield:
//
//	volume   = 4/3 · π · (d/2)³
//	mass     = volume · ρ
//	E (J)    = ½ · mass · (v · 1000)² · sin(θ)
//	E (Mt)   = E (J) / 4.184e15
//	crater   = 1.8 · E(Mt)^0.25 · 1000            (m, diameter)
//	shock    = 0.35 · (E(J) / 4.184e12)^(1/3) · 1000 (m)
//	thermal  = 0.25 · (E(J) / 4.184e12)^(1/3) · 1000 (m)
//	seismic  = 50 · E(Mt)^0.17                      (unitless proxy)
//	global   = E(Mt) > 1000 ? E(Mt) / 100 · 1000 : 0 (m)
//
// d is the diameter in meters, v the velocity in km/s, θ the impact angle
// from horizontal and ρ the material density. The catalog flow always uses
// θ = 90° and rock density.
//
// The seismic value is not a calibrated Richter magnitude. Map clients draw
// it as a radius in meters, which is how the overlay builder uses it too.
//
// # Materials
//
//	rock  3000 kg/m³
//	iron  7800 kg/m³
//	ice   1000 kg/m³
//
// # Presentation
//
// [Estimate] returns full precision values. [NewDisplay] applies the
// rounding shown to users: two decimals for energy, none for everything else.
//
// # ID Generation
//
// Impact IDs are SHA-256 hashes of session|lat|lon|diameter|velocity|angle|
// material|time. Replaying the same scenario in the same session at the same
// instant yields the same ID, so downstream consumers can deduplicate. See
// [generateID].
package domain
