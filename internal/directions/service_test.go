package directions_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/internal/directions"
)

// stubProvider returns fixed totals or a fixed error.
type stubProvider struct {
	totals directions.Totals
	err    error
	calls  int
}

func (p *stubProvider) Totals(_ context.Context, _ []directions.Waypoint) (directions.Totals, error) {
	p.calls++
	if p.err != nil {
		return directions.Totals{}, p.err
	}
	return p.totals, nil
}

// assertFallbackSummary checks that a summary lies in the synthetic fallback
// ranges: 5-24 km whole kilometers, 10-39 whole minutes.
func assertFallbackSummary(t *testing.T, s directions.Summary) {
	t.Helper()

	kmText, ok := strings.CutSuffix(s.Distance, " 公里")
	require.True(t, ok, "distance %q", s.Distance)
	km, err := strconv.Atoi(kmText)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, km, 5)
	assert.LessOrEqual(t, km, 24)

	minText, ok := strings.CutSuffix(s.Duration, " 分鐘")
	require.True(t, ok, "duration %q", s.Duration)
	minutes, err := strconv.Atoi(minText)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, minutes, 10)
	assert.LessOrEqual(t, minutes, 39)
}

func twoWaypoints() []directions.Waypoint {
	return []directions.Waypoint{
		{Lat: "25.047924", Lng: "121.517081"},
		{Lat: "25.033976", Lng: "121.564472"},
	}
}

func TestSummarize_FormatsProviderTotals(t *testing.T) {
	tests := []struct {
		name     string
		totals   directions.Totals
		distance string
		duration string
	}{
		{
			name:     "round values",
			totals:   directions.Totals{DistanceMeters: 12500, DurationSeconds: 1500},
			distance: "12.5 公里",
			duration: "25 分鐘",
		},
		{
			name:     "minutes round up",
			totals:   directions.Totals{DistanceMeters: 1000, DurationSeconds: 61},
			distance: "1.0 公里",
			duration: "2 分鐘",
		},
		{
			name:     "sub-kilometer distance",
			totals:   directions.Totals{DistanceMeters: 950, DurationSeconds: 60},
			distance: "0.9 公里",
			duration: "1 分鐘",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := directions.NewService(directions.ServiceConfig{
				Provider: &stubProvider{totals: tt.totals},
				Logger:   zerolog.Nop(),
			})

			summary := svc.Summarize(context.Background(), twoWaypoints())
			assert.Equal(t, tt.distance, summary.Distance)
			assert.Equal(t, tt.duration, summary.Duration)
		})
	}
}

func TestSummarize_FallsBackOnProviderError(t *testing.T) {
	provider := &stubProvider{err: directions.ErrProviderUnavailable}
	svc := directions.NewService(directions.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	summary := svc.Summarize(context.Background(), twoWaypoints())
	assert.Equal(t, 1, provider.calls)
	assertFallbackSummary(t, summary)
}

func TestSummarize_SimulationMode(t *testing.T) {
	svc := directions.NewService(directions.ServiceConfig{Logger: zerolog.Nop()})
	assert.True(t, svc.SimulationMode())

	summary := svc.Summarize(context.Background(), twoWaypoints())
	assertFallbackSummary(t, summary)
}

func TestSummarize_TooFewWaypointsSkipsProvider(t *testing.T) {
	provider := &stubProvider{totals: directions.Totals{DistanceMeters: 1000, DurationSeconds: 60}}
	svc := directions.NewService(directions.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	summary := svc.Summarize(context.Background(), []directions.Waypoint{
		{Lat: "25.047924", Lng: "121.517081"},
	})
	assert.Zero(t, provider.calls)
	assertFallbackSummary(t, summary)
}

func TestWaypoint_Locator(t *testing.T) {
	withCoords := directions.Waypoint{Address: "台北車站", Lat: "25.047924", Lng: "121.517081"}
	assert.Equal(t, "25.047924,121.517081", withCoords.Locator())

	addressOnly := directions.Waypoint{Address: "台北車站"}
	assert.Equal(t, "台北車站", addressOnly.Locator())
}
