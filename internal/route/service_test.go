package route_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/directions"
	"github.com/wayline/wayline/internal/geocode"
	"github.com/wayline/wayline/internal/route"
)

// stubGeocoder returns a fixed coordinate per address and records the batch
// it was asked to resolve.
type stubGeocoder struct {
	coords    map[string]geocode.Coordinate
	lastBatch []string
}

func (g *stubGeocoder) LocateAll(_ context.Context, addresses []string) []geocode.Coordinate {
	g.lastBatch = addresses
	out := make([]geocode.Coordinate, len(addresses))
	for i, addr := range addresses {
		if c, ok := g.coords[addr]; ok {
			out[i] = c
		} else {
			out[i] = geocode.Coordinate{Lat: "25.040000", Lng: "121.550000"}
		}
	}
	return out
}

// stubSummarizer returns fixed totals and records the waypoints it saw.
type stubSummarizer struct {
	summary   directions.Summary
	waypoints []directions.Waypoint
}

func (s *stubSummarizer) Summarize(_ context.Context, waypoints []directions.Waypoint) directions.Summary {
	s.waypoints = waypoints
	return s.summary
}

func newTestService(t *testing.T) (*route.Service, *route.InMemoryRepository, *stubGeocoder, *stubSummarizer) {
	t.Helper()

	repo := route.NewInMemoryRepository()
	geocoder := &stubGeocoder{
		coords: map[string]geocode.Coordinate{
			"台北車站": {Lat: "25.047924", Lng: "121.517081"},
			"台北101": {Lat: "25.033976", Lng: "121.564472"},
		},
	}
	summarizer := &stubSummarizer{
		summary: directions.Summary{Distance: "12.5 公里", Duration: "25 分鐘"},
	}

	svc := route.NewService(route.ServiceConfig{
		Repository: repo,
		Geocoder:   geocoder,
		Summarizer: summarizer,
		Logger:     zerolog.Nop(),
	})
	return svc, repo, geocoder, summarizer
}

func TestService_PlanManual_FullPipeline(t *testing.T) {
	svc, repo, geocoder, summarizer := newTestService(t)
	ctx := context.Background()

	planned, err := svc.PlanManual(ctx, &models.PlanRequest{
		StartPoint: models.StopInput{Address: "台北車站"},
		Waypoints:  []models.StopInput{{Address: "中正紀念堂"}},
		EndPoint:   models.StopInput{Address: "台北101"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(planned.ID, "rt_"))
	assert.True(t, strings.HasPrefix(planned.Name, "路線 "))
	assert.Equal(t, "12.5 公里", planned.Distance)
	assert.Equal(t, "25 分鐘", planned.Duration)

	// Every address went through geocoding and every stop got coordinates.
	assert.Equal(t, []string{"台北車站", "中正紀念堂", "台北101"}, geocoder.lastBatch)
	require.Len(t, planned.Stops, 3)
	for _, stop := range planned.Stops {
		assert.True(t, strings.HasPrefix(stop.ID, "stp_"))
		assert.NotEmpty(t, stop.Lat)
		assert.NotEmpty(t, stop.Lng)
	}

	// The summarizer saw the stops in travel order with their coordinates.
	require.Len(t, summarizer.waypoints, 3)
	assert.Equal(t, "25.047924", summarizer.waypoints[0].Lat)
	assert.Equal(t, "25.033976", summarizer.waypoints[2].Lat)

	// The maps link visits geocoded positions in the same order.
	assert.Equal(t,
		"https://www.google.com/maps/dir/"+
			"25.047924,121.517081/25.040000,121.550000/25.033976,121.564472/",
		planned.MapsURL)

	// Everything was persisted.
	stored, err := repo.GetRoute(ctx, planned.ID)
	require.NoError(t, err)
	assert.Equal(t, planned.MapsURL, stored.MapsURL)
	assert.Equal(t, "12.5 公里", stored.Distance)
}

func TestService_PlanManual_CustomName(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	planned, err := svc.PlanManual(context.Background(), &models.PlanRequest{
		Name:       "晨間配送",
		StartPoint: models.StopInput{Address: "台北車站"},
		EndPoint:   models.StopInput{Address: "台北101"},
	})
	require.NoError(t, err)
	assert.Equal(t, "晨間配送", planned.Name)
}

func TestService_PlanManual_ValidationError(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.PlanManual(ctx, &models.PlanRequest{})
	var validationErr *route.ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Nothing was persisted for rejected input.
	routes, err := repo.ListRoutes(ctx)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestService_PlanCSV_NamePrefixAndRoles(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	planned, err := svc.PlanCSV(context.Background(), []map[string]string{
		{"address": "台北車站"},
		{"address": "中正紀念堂"},
		{"address": "台北101"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(planned.Name, "CSV匯入 "))
	require.Len(t, planned.Stops, 3)
	assert.True(t, planned.Stops[0].IsStart)
	assert.True(t, planned.Stops[2].IsEnd)
}

func TestService_PlanSheet_NamePrefix(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	planned, err := svc.PlanSheet(context.Background(), []map[string]string{
		{"地址": "台北車站"},
		{"地址": "台北101"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(planned.Name, "試算表匯入 "))
}

func TestService_ListEmbedsStops(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.PlanManual(ctx, &models.PlanRequest{
		StartPoint: models.StopInput{Address: "台北車站"},
		EndPoint:   models.StopInput{Address: "台北101"},
	})
	require.NoError(t, err)

	second, err := svc.PlanCSV(ctx, []map[string]string{
		{"address": "中正紀念堂"},
		{"address": "龍山寺"},
	})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	// Newest first.
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.Equal(t, first.ID, list.Items[1].ID)
	assert.Len(t, list.Items[0].Stops, 2)
	assert.Len(t, list.Items[1].Stops, 2)
}

func TestService_Get(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	planned, err := svc.PlanManual(ctx, &models.PlanRequest{
		StartPoint: models.StopInput{Address: "台北車站"},
		EndPoint:   models.StopInput{Address: "台北101"},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, planned.ID)
	require.NoError(t, err)
	assert.Equal(t, planned.ID, got.ID)
	assert.Len(t, got.Stops, 2)

	_, err = svc.Get(ctx, "rt_missing")
	assert.ErrorIs(t, err, route.ErrRouteNotFound)
}
