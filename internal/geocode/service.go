package geocode

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Fallback coordinates are drawn from a box over central Taipei.
const (
	fallbackLatBase = 25.02
	fallbackLatSpan = 0.05
	fallbackLngBase = 121.5
	fallbackLngSpan = 0.1
)

// DefaultDelay is the pause between consecutive provider calls, keeping the
// batch under the provider's per-second quota.
const DefaultDelay = 200 * time.Millisecond

// Geocoder resolves a single address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinate, error)
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Geocoder is the provider client. Required unless SimulationMode is set.
	Geocoder Geocoder

	// SimulationMode skips the provider entirely and returns fallback
	// coordinates for every address. Set when no API key is configured.
	SimulationMode bool

	// Delay is the pause between consecutive provider calls.
	// Default: DefaultDelay.
	Delay time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service resolves addresses to coordinates with per-address fallback.
type Service struct {
	geocoder   Geocoder
	simulation bool
	delay      time.Duration
	logger     zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	simulation := cfg.SimulationMode
	if cfg.Geocoder == nil {
		simulation = true
	}

	return &Service{
		geocoder:   cfg.Geocoder,
		simulation: simulation,
		delay:      delay,
		logger:     cfg.Logger,
	}
}

// SimulationMode reports whether the service is running without a provider.
func (s *Service) SimulationMode() bool {
	return s.simulation
}

// Locate resolves one address. It always returns a usable coordinate: when
// the provider fails or has no match, a fallback coordinate is returned
// instead of an error.
func (s *Service) Locate(ctx context.Context, address string) Coordinate {
	if s.simulation {
		return fallbackCoordinate()
	}

	coord, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("address", address).
			Msg("geocoding failed, using fallback coordinate")
		return fallbackCoordinate()
	}

	return coord
}

// LocateAll resolves a batch of addresses sequentially, pausing between
// provider calls. The result always has one coordinate per input address, in
// input order.
func (s *Service) LocateAll(ctx context.Context, addresses []string) []Coordinate {
	coords := make([]Coordinate, len(addresses))
	for i, address := range addresses {
		if i > 0 && !s.simulation {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				// Fill the rest with fallbacks rather than abandoning the batch.
				for j := i; j < len(addresses); j++ {
					coords[j] = fallbackCoordinate()
				}
				return coords
			}
		}
		coords[i] = s.Locate(ctx, address)
	}
	return coords
}

// fallbackCoordinate returns a random coordinate inside the fallback box,
// formatted to 6 decimal places.
func fallbackCoordinate() Coordinate {
	lat := fallbackLatBase + rand.Float64()*fallbackLatSpan
	lng := fallbackLngBase + rand.Float64()*fallbackLngSpan
	return Coordinate{
		Lat: strconv.FormatFloat(lat, 'f', 6, 64),
		Lng: strconv.FormatFloat(lng, 'f', 6, 64),
	}
}
