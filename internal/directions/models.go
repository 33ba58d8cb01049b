// Package directions computes driving totals for an ordered stop list via an
// external route optimization provider. Summaries never fail: when the
// provider is unavailable or rejects the request, plausible fallback totals
// are returned instead.
package directions

import "errors"

// Provider errors.
var (
	// ErrNoRoute is returned when the provider finds no route between stops.
	ErrNoRoute = errors.New("no route found")

	// ErrProviderUnavailable is returned when the provider cannot be reached.
	ErrProviderUnavailable = errors.New("directions provider unavailable")
)

// Waypoint is one visited position. Coordinates are preferred when present;
// otherwise the address text is sent to the provider.
type Waypoint struct {
	Address string
	Lat     string
	Lng     string
}

// Locator returns the provider-facing position string for the waypoint.
func (w Waypoint) Locator() string {
	if w.Lat != "" && w.Lng != "" {
		return w.Lat + "," + w.Lng
	}
	return w.Address
}

// Totals are the summed leg metrics of an optimized route.
type Totals struct {
	DistanceMeters  int
	DurationSeconds int
}

// Summary is the localized route summary persisted with a route.
type Summary struct {
	Distance string
	Duration string
}
