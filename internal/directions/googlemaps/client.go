// Package googlemaps provides a client for the Google Directions API with
// waypoint optimization.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/directions"
	"github.com/wayline/wayline/internal/provider/resilience"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "googlemaps-directions"

	// DefaultBaseURL is the Google Maps API base URL.
	DefaultBaseURL = "https://maps.googleapis.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 15 * time.Second
)

const (
	requestLanguage = "zh-TW"
	requestMode     = "driving"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Directions client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Google Maps API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 15s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Directions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Directions client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Totals requests an optimized driving route visiting the waypoints and sums
// the leg distances and durations. The first waypoint is the origin, the
// last the destination, and everything between is submitted for reordering
// with the optimize flag.
func (c *Client) Totals(ctx context.Context, waypoints []directions.Waypoint) (directions.Totals, error) {
	if len(waypoints) < 2 {
		return directions.Totals{}, fmt.Errorf("%w: need at least two waypoints", directions.ErrNoRoute)
	}

	query := url.Values{}
	query.Set("origin", waypoints[0].Locator())
	query.Set("destination", waypoints[len(waypoints)-1].Locator())
	query.Set("mode", requestMode)
	query.Set("language", requestLanguage)
	query.Set("key", c.apiKey)

	if len(waypoints) > 2 {
		locators := make([]string, 0, len(waypoints)-2)
		for _, wp := range waypoints[1 : len(waypoints)-1] {
			locators = append(locators, wp.Locator())
		}
		query.Set("waypoints", "optimize:true|"+strings.Join(locators, "|"))
	}

	reqURL := c.baseURL + "/maps/api/directions/json?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return directions.Totals{}, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Int("waypoints", len(waypoints)).
		Msg("requesting directions from Google Maps")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return directions.Totals{}, fmt.Errorf("%w: %v", directions.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return directions.Totals{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return directions.Totals{}, fmt.Errorf("%w: status %d", directions.ErrProviderUnavailable, resp.StatusCode)
	}

	var apiResp directionsResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return directions.Totals{}, fmt.Errorf("decoding response: %w", err)
	}

	if apiResp.Status != "OK" || len(apiResp.Routes) == 0 {
		return directions.Totals{}, fmt.Errorf("%w: status %s", directions.ErrNoRoute, apiResp.Status)
	}

	var totals directions.Totals
	for _, leg := range apiResp.Routes[0].Legs {
		totals.DistanceMeters += leg.Distance.Value
		totals.DurationSeconds += leg.Duration.Value
	}

	c.logger.Debug().
		Int("distance_m", totals.DistanceMeters).
		Int("duration_s", totals.DurationSeconds).
		Msg("received directions from Google Maps")

	return totals, nil
}

// directionsResponse is the Google Directions API response envelope.
type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}
