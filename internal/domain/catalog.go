package domain

import (
	"context"
	"strings"
)

// NearEarthObject is a catalog entry for a known asteroid.
type NearEarthObject struct {
	ID                         string  `json:"id"`
	Name                       string  `json:"name"`
	EstimatedDiameterMinMeters float64 `json:"estimated_diameter_min_m"`
	EstimatedDiameterMaxMeters float64 `json:"estimated_diameter_max_m"`
	PotentiallyHazardous       bool    `json:"potentially_hazardous"`
}

// Catalog lists and resolves near-earth objects.
type Catalog interface {
	// Browse returns one page of the catalog.
	Browse(ctx context.Context, page int) ([]NearEarthObject, error)

	// Lookup returns a single object. An empty ID in the result means the
	// object does not exist.
	Lookup(ctx context.Context, id string) (NearEarthObject, error)
}

// SearchObjects returns the objects whose name contains query, ignoring case
// and surrounding whitespace. An empty query matches everything.
func SearchObjects(objects []NearEarthObject, query string) []NearEarthObject {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return objects
	}
	matches := make([]NearEarthObject, 0, len(objects))
	for _, o := range objects {
		if strings.Contains(strings.ToLower(o.Name), query) {
			matches = append(matches, o)
		}
	}
	return matches
}
