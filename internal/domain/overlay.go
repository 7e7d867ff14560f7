package domain

import "context"

// OverlayKind names a map layer drawn for an impact.
type OverlayKind string

const (
	OverlayMarker  OverlayKind = "marker"
	OverlayCrater  OverlayKind = "crater"
	OverlayThermal OverlayKind = "thermal"
	OverlayBlast   OverlayKind = "blast"
	OverlaySeismic OverlayKind = "seismic"
	OverlayGlobal  OverlayKind = "global"
)

// Overlay is a marker or circle centered on an impact site.
type Overlay struct {
	Kind         OverlayKind `json:"kind"`
	Center       Geo         `json:"center"`
	RadiusMeters float64     `json:"radius_m,omitempty"`
	Color        string      `json:"color,omitempty"`
	FillColor    string      `json:"fill_color,omitempty"`
	FillOpacity  float64     `json:"fill_opacity,omitempty"`
}

// OverlayHandle identifies an overlay after it has been rendered.
type OverlayHandle string

// OverlayRenderer draws and removes overlays on behalf of a session.
type OverlayRenderer interface {
	Add(ctx context.Context, scope string, o Overlay) (OverlayHandle, error)
	Remove(ctx context.Context, scope string, h OverlayHandle) error
}

// BuildOverlays returns the marker and circles for an impact at center.
// Radii come from the rounded display values. The global circle is only
// included when the global effect radius is positive.
func BuildOverlays(center Geo, d Display) []Overlay {
	overlays := []Overlay{
		{Kind: OverlayMarker, Center: center},
		{Kind: OverlayCrater, Center: center, RadiusMeters: d.CraterDiameterMeters / 2, Color: "red", FillColor: "#f87171", FillOpacity: 0.4},
		{Kind: OverlayThermal, Center: center, RadiusMeters: d.ThermalRadiusMeters, Color: "orange", FillColor: "#fb923c", FillOpacity: 0.3},
		{Kind: OverlayBlast, Center: center, RadiusMeters: d.ShockRadiusMeters, Color: "yellow", FillColor: "#facc15", FillOpacity: 0.25},
		{Kind: OverlaySeismic, Center: center, RadiusMeters: d.SeismicMagnitudeProxy, Color: "blue", FillColor: "#3b82f6", FillOpacity: 0.2},
	}
	if d.GlobalEffectRadiusMeters > 0 {
		overlays = append(overlays, Overlay{
			Kind: OverlayGlobal, Center: center, RadiusMeters: d.GlobalEffectRadiusMeters,
			Color: "purple", FillColor: "#a855f7", FillOpacity: 0.15,
		})
	}
	return overlays
}

// ImpactEffects returns the client cues for an impact. Catalog impacts also
// play a rumble track.
func ImpactEffects(variant string) Effects {
	if variant == VariantCatalog {
		return Effects{
			ShakeMillis:  500,
			FlashMillis:  600,
			RumbleMillis: 4000,
			Sounds:       []string{"explosion", "rumble"},
		}
	}
	return Effects{
		ShakeMillis: 600,
		FlashMillis: 1000,
		Sounds:      []string{"explosion"},
	}
}
