package route

import "context"

// RouteUpdate is a partial update of a route's computed fields. Nil fields
// are left untouched.
type RouteUpdate struct {
	Name     *string
	Distance *string
	Duration *string
	MapsURL  *string
}

// Repository defines the interface for route and stop persistence.
type Repository interface {
	// CreateRoute persists a new route.
	CreateRoute(ctx context.Context, route *Route) error

	// GetRoute retrieves a route by ID.
	// Returns ErrRouteNotFound if the route doesn't exist.
	GetRoute(ctx context.Context, id string) (*Route, error)

	// ListRoutes retrieves all routes, newest first.
	ListRoutes(ctx context.Context) ([]*Route, error)

	// UpdateRoute applies a partial update to a route.
	UpdateRoute(ctx context.Context, id string, update RouteUpdate) (*Route, error)

	// SetNotificationSent records whether a notification went out for a route.
	SetNotificationSent(ctx context.Context, id string, sent bool) error

	// CreateStop persists a new stop.
	CreateStop(ctx context.Context, stop *Stop) error

	// StopsByRouteID retrieves a route's stops in canonical travel order.
	StopsByRouteID(ctx context.Context, routeID string) ([]Stop, error)

	// UpdateStopCoordinates sets a stop's geocoded coordinates.
	// Returns ErrStopNotFound if the stop doesn't exist.
	UpdateStopCoordinates(ctx context.Context, stopID, lat, lng string) error
}
