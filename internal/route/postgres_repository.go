package route

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL route repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateRoute persists a new route.
func (r *PostgresRepository) CreateRoute(ctx context.Context, route *Route) error {
	query := `
		INSERT INTO routes (
			id, name, distance, duration, maps_url, notification_sent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		route.ID,
		route.Name,
		route.Distance,
		route.Duration,
		route.MapsURL,
		route.NotificationSent,
		route.CreatedAt,
	)
	return err
}

// GetRoute retrieves a route by ID.
func (r *PostgresRepository) GetRoute(ctx context.Context, id string) (*Route, error) {
	query := `
		SELECT id, name, distance, duration, maps_url, notification_sent, created_at
		FROM routes
		WHERE id = $1
	`

	var route Route
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&route.ID,
		&route.Name,
		&route.Distance,
		&route.Duration,
		&route.MapsURL,
		&route.NotificationSent,
		&route.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return &route, nil
}

// ListRoutes retrieves all routes, newest first.
func (r *PostgresRepository) ListRoutes(ctx context.Context) ([]*Route, error) {
	query := `
		SELECT id, name, distance, duration, maps_url, notification_sent, created_at
		FROM routes
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*Route
	for rows.Next() {
		var route Route
		err := rows.Scan(
			&route.ID,
			&route.Name,
			&route.Distance,
			&route.Duration,
			&route.MapsURL,
			&route.NotificationSent,
			&route.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}

// UpdateRoute applies a partial update to a route.
func (r *PostgresRepository) UpdateRoute(ctx context.Context, id string, update RouteUpdate) (*Route, error) {
	query := `
		UPDATE routes SET
			name = COALESCE($2, name),
			distance = COALESCE($3, distance),
			duration = COALESCE($4, duration),
			maps_url = COALESCE($5, maps_url)
		WHERE id = $1
		RETURNING id, name, distance, duration, maps_url, notification_sent, created_at
	`

	var route Route
	err := r.pool.QueryRow(ctx, query, id,
		update.Name,
		update.Distance,
		update.Duration,
		update.MapsURL,
	).Scan(
		&route.ID,
		&route.Name,
		&route.Distance,
		&route.Duration,
		&route.MapsURL,
		&route.NotificationSent,
		&route.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	return &route, nil
}

// SetNotificationSent records whether a notification went out for a route.
func (r *PostgresRepository) SetNotificationSent(ctx context.Context, id string, sent bool) error {
	query := `UPDATE routes SET notification_sent = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, sent)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRouteNotFound
	}

	return nil
}

// CreateStop persists a new stop.
func (r *PostgresRepository) CreateStop(ctx context.Context, stop *Stop) error {
	query := `
		INSERT INTO stops (
			id, route_id, address, note, lat, lng, is_start, is_end, sequence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		stop.ID,
		stop.RouteID,
		stop.Address,
		stop.Note,
		stop.Lat,
		stop.Lng,
		stop.IsStart,
		stop.IsEnd,
		stop.Sequence,
	)
	return err
}

// StopsByRouteID retrieves a route's stops in canonical travel order.
// Rows come back in insertion order so role ties resolve the same way the
// in-memory repository resolves them.
func (r *PostgresRepository) StopsByRouteID(ctx context.Context, routeID string) ([]Stop, error) {
	query := `
		SELECT id, route_id, address, note, lat, lng, is_start, is_end, sequence
		FROM stops
		WHERE route_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []Stop
	for rows.Next() {
		var stop Stop
		err := rows.Scan(
			&stop.ID,
			&stop.RouteID,
			&stop.Address,
			&stop.Note,
			&stop.Lat,
			&stop.Lng,
			&stop.IsStart,
			&stop.IsEnd,
			&stop.Sequence,
		)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return CanonicalOrder(stops), nil
}

// UpdateStopCoordinates sets a stop's geocoded coordinates.
func (r *PostgresRepository) UpdateStopCoordinates(ctx context.Context, stopID, lat, lng string) error {
	query := `UPDATE stops SET lat = $2, lng = $3 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, stopID, lat, lng)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrStopNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
