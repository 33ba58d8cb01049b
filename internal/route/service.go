package route

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/directions"
	"github.com/wayline/wayline/internal/geocode"
)

// Route name prefixes by input source, completed with a local timestamp.
const (
	namePrefixManual = "路線 "
	namePrefixCSV    = "CSV匯入 "
	namePrefixSheet  = "試算表匯入 "
)

// nameTimestampLayout renders the local time appended to generated names.
const nameTimestampLayout = "2006/1/2 15:04:05"

// Geocoder resolves address batches to coordinates, one per input address.
type Geocoder interface {
	LocateAll(ctx context.Context, addresses []string) []geocode.Coordinate
}

// Summarizer computes localized distance/duration totals for ordered
// waypoints.
type Summarizer interface {
	Summarize(ctx context.Context, waypoints []directions.Waypoint) directions.Summary
}

// ServiceConfig holds the planner's dependencies.
type ServiceConfig struct {
	Repository Repository
	Geocoder   Geocoder
	Summarizer Summarizer
	Logger     zerolog.Logger
}

// Service plans routes: it normalizes input into stops, geocodes them,
// summarizes the optimized route, and persists the result. Once input passes
// validation, planning always produces a complete route.
type Service struct {
	repo       Repository
	normalizer *Normalizer
	geocoder   Geocoder
	summarizer Summarizer
	logger     zerolog.Logger
}

// NewService creates a new planning service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:       cfg.Repository,
		normalizer: NewNormalizer(nil),
		geocoder:   cfg.Geocoder,
		summarizer: cfg.Summarizer,
		logger:     cfg.Logger,
	}
}

// PlanManual plans a route from the explicit start/waypoints/end input shape.
func (s *Service) PlanManual(ctx context.Context, input *models.PlanRequest) (*models.Route, error) {
	stops, err := s.normalizer.NormalizeManual(input)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = namePrefixManual + time.Now().Format(nameTimestampLayout)
	}

	return s.plan(ctx, name, stops)
}

// PlanCSV plans a route from uploaded tabular records.
func (s *Service) PlanCSV(ctx context.Context, records []map[string]string) (*models.Route, error) {
	return s.planRecords(ctx, namePrefixCSV, records)
}

// PlanSheet plans a route from records imported out of a spreadsheet.
func (s *Service) PlanSheet(ctx context.Context, records []map[string]string) (*models.Route, error) {
	return s.planRecords(ctx, namePrefixSheet, records)
}

func (s *Service) planRecords(ctx context.Context, namePrefix string, records []map[string]string) (*models.Route, error) {
	stops, err := s.normalizer.NormalizeRecords(records)
	if err != nil {
		return nil, err
	}

	name := namePrefix + time.Now().Format(nameTimestampLayout)
	return s.plan(ctx, name, stops)
}

// plan runs the pipeline over normalized stops: persist, geocode, summarize,
// link, update.
func (s *Service) plan(ctx context.Context, name string, normalized []NormalizedStop) (*models.Route, error) {
	now := time.Now()
	route := &Route{
		ID:        "rt_" + uuid.New().String()[:22],
		Name:      name,
		CreatedAt: now,
	}

	if err := s.repo.CreateRoute(ctx, route); err != nil {
		return nil, err
	}

	stops := make([]Stop, 0, len(normalized))
	for _, n := range normalized {
		stop := Stop{
			ID:       "stp_" + uuid.New().String()[:22],
			RouteID:  route.ID,
			Address:  n.Address,
			Note:     n.Note,
			IsStart:  n.IsStart,
			IsEnd:    n.IsEnd,
			Sequence: n.Sequence,
		}
		if err := s.repo.CreateStop(ctx, &stop); err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	addresses := make([]string, len(stops))
	for i := range stops {
		addresses[i] = stops[i].Address
	}
	coords := s.geocoder.LocateAll(ctx, addresses)

	// Coordinate writes are independent of each other.
	var wg sync.WaitGroup
	for i := range stops {
		wg.Add(1)
		go func(stop Stop, coord geocode.Coordinate) {
			defer wg.Done()
			if err := s.repo.UpdateStopCoordinates(ctx, stop.ID, coord.Lat, coord.Lng); err != nil {
				s.logger.Error().
					Err(err).
					Str("stop_id", stop.ID).
					Msg("failed to store stop coordinates")
			}
		}(stops[i], coords[i])
	}
	wg.Wait()

	ordered, err := s.repo.StopsByRouteID(ctx, route.ID)
	if err != nil {
		return nil, err
	}

	waypoints := make([]directions.Waypoint, 0, len(ordered))
	for _, stop := range ordered {
		waypoints = append(waypoints, directions.Waypoint{
			Address: stop.Address,
			Lat:     stop.Lat,
			Lng:     stop.Lng,
		})
	}
	summary := s.summarizer.Summarize(ctx, waypoints)
	mapsURL := BuildMapsURL(ordered)

	updated, err := s.repo.UpdateRoute(ctx, route.ID, RouteUpdate{
		Distance: &summary.Distance,
		Duration: &summary.Duration,
		MapsURL:  &mapsURL,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("route_id", route.ID).
		Int("stops", len(ordered)).
		Str("distance", summary.Distance).
		Str("duration", summary.Duration).
		Msg("route planned")

	result := toAPIRoute(updated, ordered)
	return &result, nil
}

// List retrieves the route history, newest first, with stops embedded.
func (s *Service) List(ctx context.Context) (*models.RouteList, error) {
	routes, err := s.repo.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Route, 0, len(routes))
	for _, route := range routes {
		stops, err := s.repo.StopsByRouteID(ctx, route.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, toAPIRoute(route, stops))
	}

	return &models.RouteList{Items: items}, nil
}

// Get retrieves a single route with its ordered stops.
func (s *Service) Get(ctx context.Context, id string) (*models.Route, error) {
	route, err := s.repo.GetRoute(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	stops, err := s.repo.StopsByRouteID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toAPIRoute(route, stops)
	return &result, nil
}

// toAPIRoute converts a domain route and its ordered stops to the API model.
func toAPIRoute(route *Route, stops []Stop) models.Route {
	apiStops := make([]models.Stop, 0, len(stops))
	for _, stop := range stops {
		apiStops = append(apiStops, models.Stop{
			ID:       stop.ID,
			Address:  stop.Address,
			Note:     stop.Note,
			Lat:      stop.Lat,
			Lng:      stop.Lng,
			IsStart:  stop.IsStart,
			IsEnd:    stop.IsEnd,
			Sequence: stop.Sequence,
		})
	}

	return models.Route{
		ID:               route.ID,
		Name:             route.Name,
		Distance:         route.Distance,
		Duration:         route.Duration,
		MapsURL:          route.MapsURL,
		NotificationSent: route.NotificationSent,
		CreatedAt:        models.Timestamp(route.CreatedAt),
		Stops:            apiStops,
	}
}
