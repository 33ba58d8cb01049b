package geocode_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/internal/geocode"
)

// stubGeocoder resolves from a fixed table and fails everything else.
type stubGeocoder struct {
	coords map[string]geocode.Coordinate
	calls  []string
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (geocode.Coordinate, error) {
	g.calls = append(g.calls, address)
	if c, ok := g.coords[address]; ok {
		return c, nil
	}
	return geocode.Coordinate{}, geocode.ErrNoResults
}

// assertFallbackCoordinate checks that a coordinate lies in the synthetic
// fallback box over central Taipei, formatted to 6 decimal places.
func assertFallbackCoordinate(t *testing.T, c geocode.Coordinate) {
	t.Helper()

	lat, err := strconv.ParseFloat(c.Lat, 64)
	require.NoError(t, err)
	lng, err := strconv.ParseFloat(c.Lng, 64)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, lat, 25.02)
	assert.LessOrEqual(t, lat, 25.07)
	assert.GreaterOrEqual(t, lng, 121.5)
	assert.LessOrEqual(t, lng, 121.6)

	_, latFrac, _ := strings.Cut(c.Lat, ".")
	_, lngFrac, _ := strings.Cut(c.Lng, ".")
	assert.Len(t, latFrac, 6)
	assert.Len(t, lngFrac, 6)
}

func TestService_Locate_UsesProvider(t *testing.T) {
	geocoder := &stubGeocoder{coords: map[string]geocode.Coordinate{
		"台北車站": {Lat: "25.047924", Lng: "121.517081"},
	}}
	svc := geocode.NewService(geocode.ServiceConfig{
		Geocoder: geocoder,
		Logger:   zerolog.Nop(),
	})

	coord := svc.Locate(context.Background(), "台北車站")
	assert.Equal(t, "25.047924", coord.Lat)
	assert.Equal(t, "121.517081", coord.Lng)
}

func TestService_Locate_FallsBackOnProviderError(t *testing.T) {
	geocoder := &stubGeocoder{}
	svc := geocode.NewService(geocode.ServiceConfig{
		Geocoder: geocoder,
		Logger:   zerolog.Nop(),
	})

	coord := svc.Locate(context.Background(), "不存在的地址")
	assertFallbackCoordinate(t, coord)
}

func TestService_SimulationMode(t *testing.T) {
	// No provider at all forces simulation.
	svc := geocode.NewService(geocode.ServiceConfig{Logger: zerolog.Nop()})
	assert.True(t, svc.SimulationMode())

	coord := svc.Locate(context.Background(), "台北車站")
	assertFallbackCoordinate(t, coord)
}

func TestService_LocateAll_OneCoordinatePerAddress(t *testing.T) {
	geocoder := &stubGeocoder{coords: map[string]geocode.Coordinate{
		"台北車站": {Lat: "25.047924", Lng: "121.517081"},
		"台北101": {Lat: "25.033976", Lng: "121.564472"},
	}}
	svc := geocode.NewService(geocode.ServiceConfig{
		Geocoder: geocoder,
		Delay:    time.Millisecond,
		Logger:   zerolog.Nop(),
	})

	addresses := []string{"台北車站", "沒有結果的地址", "台北101"}
	coords := svc.LocateAll(context.Background(), addresses)

	require.Len(t, coords, len(addresses))
	assert.Equal(t, addresses, geocoder.calls)

	assert.Equal(t, "25.047924", coords[0].Lat)
	assertFallbackCoordinate(t, coords[1])
	assert.Equal(t, "25.033976", coords[2].Lat)
}

func TestService_LocateAll_CanceledContextFillsFallbacks(t *testing.T) {
	geocoder := &stubGeocoder{coords: map[string]geocode.Coordinate{
		"台北車站": {Lat: "25.047924", Lng: "121.517081"},
	}}
	svc := geocode.NewService(geocode.ServiceConfig{
		Geocoder: geocoder,
		Delay:    time.Hour, // the canceled context must win the wait
		Logger:   zerolog.Nop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coords := svc.LocateAll(ctx, []string{"台北車站", "台北101", "龍山寺"})
	require.Len(t, coords, 3)

	// The first address resolves before the delay kicks in; the rest are
	// filled with fallbacks.
	assert.Equal(t, "25.047924", coords[0].Lat)
	assertFallbackCoordinate(t, coords[1])
	assertFallbackCoordinate(t, coords[2])
	assert.Equal(t, []string{"台北車站"}, geocoder.calls)
}

func TestService_LocateAll_Empty(t *testing.T) {
	svc := geocode.NewService(geocode.ServiceConfig{Logger: zerolog.Nop()})
	assert.Empty(t, svc.LocateAll(context.Background(), nil))
}
