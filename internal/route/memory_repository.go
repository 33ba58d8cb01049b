package route

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is the default backend; production deployments should use
// PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]*Route
	stops  map[string][]Stop // keyed by route ID, insertion order
}

// NewInMemoryRepository creates a new in-memory route repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		routes: make(map[string]*Route),
		stops:  make(map[string][]Stop),
	}
}

// CreateRoute persists a new route.
func (r *InMemoryRepository) CreateRoute(_ context.Context, route *Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *route
	r.routes[route.ID] = &cpy
	return nil
}

// GetRoute retrieves a route by ID.
func (r *InMemoryRepository) GetRoute(_ context.Context, id string) (*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}

	cpy := *route
	return &cpy, nil
}

// ListRoutes retrieves all routes, newest first.
func (r *InMemoryRepository) ListRoutes(_ context.Context) ([]*Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]*Route, 0, len(r.routes))
	for _, route := range r.routes {
		cpy := *route
		routes = append(routes, &cpy)
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})

	return routes, nil
}

// UpdateRoute applies a partial update to a route.
func (r *InMemoryRepository) UpdateRoute(_ context.Context, id string, update RouteUpdate) (*Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}

	if update.Name != nil {
		route.Name = *update.Name
	}
	if update.Distance != nil {
		route.Distance = *update.Distance
	}
	if update.Duration != nil {
		route.Duration = *update.Duration
	}
	if update.MapsURL != nil {
		route.MapsURL = *update.MapsURL
	}

	cpy := *route
	return &cpy, nil
}

// SetNotificationSent records whether a notification went out for a route.
func (r *InMemoryRepository) SetNotificationSent(_ context.Context, id string, sent bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[id]
	if !ok {
		return ErrRouteNotFound
	}

	route.NotificationSent = sent
	return nil
}

// CreateStop persists a new stop.
func (r *InMemoryRepository) CreateStop(_ context.Context, stop *Stop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stops[stop.RouteID] = append(r.stops[stop.RouteID], *stop)
	return nil
}

// StopsByRouteID retrieves a route's stops in canonical travel order.
func (r *InMemoryRepository) StopsByRouteID(_ context.Context, routeID string) ([]Stop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return CanonicalOrder(r.stops[routeID]), nil
}

// UpdateStopCoordinates sets a stop's geocoded coordinates.
func (r *InMemoryRepository) UpdateStopCoordinates(_ context.Context, stopID, lat, lng string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for routeID := range r.stops {
		for i := range r.stops[routeID] {
			if r.stops[routeID][i].ID == stopID {
				r.stops[routeID][i].Lat = lat
				r.stops[routeID][i].Lng = lng
				return nil
			}
		}
	}

	return ErrStopNotFound
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
