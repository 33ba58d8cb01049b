// Package route provides route planning: normalizing address input into an
// ordered stop list, coordinating geocoding and route optimization, and
// persisting the result.
package route

import (
	"errors"
	"time"

	"github.com/wayline/wayline/internal/api/models"
)

// Repository errors.
var (
	ErrRouteNotFound = errors.New("route not found")
	ErrStopNotFound  = errors.New("stop not found")
)

// Route is the persisted outcome of one planning request.
type Route struct {
	ID               string
	Name             string
	Distance         string
	Duration         string
	MapsURL          string
	CreatedAt        time.Time
	NotificationSent bool
}

// Stop is one physical location within a route. Lat/Lng hold decimal-degree
// strings and stay empty until the stop has been geocoded.
type Stop struct {
	ID       string
	RouteID  string
	Address  string
	Note     string
	Lat      string
	Lng      string
	IsStart  bool
	IsEnd    bool
	Sequence int
}

// HasCoordinates reports whether the stop has been geocoded.
func (s *Stop) HasCoordinates() bool {
	return s.Lat != "" && s.Lng != ""
}

// NormalizedStop is a candidate stop produced by input normalization,
// before the store has assigned identity.
type NormalizedStop struct {
	Address  string
	Note     string
	IsStart  bool
	IsEnd    bool
	Sequence int
}

// ValidationError reports malformed or empty planning input.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
