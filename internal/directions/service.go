package directions

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/rs/zerolog"
)

// Fallback ranges for simulated totals.
const (
	fallbackKmBase  = 5
	fallbackKmSpan  = 20
	fallbackMinBase = 10
	fallbackMinSpan = 30
)

// Provider computes optimized route totals for an ordered waypoint list.
type Provider interface {
	Totals(ctx context.Context, waypoints []Waypoint) (Totals, error)
}

// ServiceConfig holds configuration for the directions service.
type ServiceConfig struct {
	// Provider is the directions provider client. Required unless
	// SimulationMode is set.
	Provider Provider

	// SimulationMode skips the provider and always returns fallback totals.
	// Set when no API key is configured.
	SimulationMode bool

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service summarizes routes with provider fallback.
type Service struct {
	provider   Provider
	simulation bool
	logger     zerolog.Logger
}

// NewService creates a new directions service.
func NewService(cfg ServiceConfig) *Service {
	simulation := cfg.SimulationMode
	if cfg.Provider == nil {
		simulation = true
	}

	return &Service{
		provider:   cfg.Provider,
		simulation: simulation,
		logger:     cfg.Logger,
	}
}

// SimulationMode reports whether the service is running without a provider.
func (s *Service) SimulationMode() bool {
	return s.simulation
}

// Summarize computes localized distance and duration for the waypoints in
// travel order. It always returns a usable summary: provider failures and
// degenerate inputs fall back to bounded random totals.
func (s *Service) Summarize(ctx context.Context, waypoints []Waypoint) Summary {
	if s.simulation || len(waypoints) < 2 {
		return fallbackSummary()
	}

	totals, err := s.provider.Totals(ctx, waypoints)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int("waypoints", len(waypoints)).
			Msg("route optimization failed, using fallback totals")
		return fallbackSummary()
	}

	return formatSummary(totals)
}

// formatSummary renders totals as localized strings: kilometers to one
// decimal place, minutes rounded up.
func formatSummary(t Totals) Summary {
	km := float64(t.DistanceMeters) / 1000
	minutes := int(math.Ceil(float64(t.DurationSeconds) / 60))
	return Summary{
		Distance: strconv.FormatFloat(km, 'f', 1, 64) + " 公里",
		Duration: strconv.Itoa(minutes) + " 分鐘",
	}
}

// fallbackSummary returns bounded random totals so planning can complete
// without the provider.
func fallbackSummary() Summary {
	km := fallbackKmBase + rand.IntN(fallbackKmSpan)
	minutes := fallbackMinBase + rand.IntN(fallbackMinSpan)
	return Summary{
		Distance: strconv.Itoa(km) + " 公里",
		Duration: strconv.Itoa(minutes) + " 分鐘",
	}
}
