// Package geocode resolves street addresses to coordinates. Resolution never
// fails a batch: an address the provider cannot place gets a synthetic
// fallback coordinate instead.
package geocode

import "errors"

// Provider errors.
var (
	// ErrNoResults is returned when the provider has no match for an address.
	ErrNoResults = errors.New("no geocoding results")

	// ErrProviderUnavailable is returned when the provider cannot be reached.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Coordinate is a geocoded position in decimal-degree strings, matching how
// stop coordinates are stored.
type Coordinate struct {
	Lat string
	Lng string
}
