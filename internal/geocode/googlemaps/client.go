// Package googlemaps provides a client for the Google Geocoding API.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/geocode"
	"github.com/wayline/wayline/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "googlemaps-geocoding"

	// DefaultBaseURL is the Google Maps API base URL.
	DefaultBaseURL = "https://maps.googleapis.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// Results are biased towards Traditional Chinese addresses in Taiwan.
const (
	requestLanguage = "zh-TW"
	requestRegion   = "tw"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Geocoding client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Google Maps API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Geocoding API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Geocoding client.
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

// Geocode resolves an address to a coordinate.
func (c *Client) Geocode(ctx context.Context, address string) (geocode.Coordinate, error) {
	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)
	query.Set("language", requestLanguage)
	query.Set("region", requestRegion)

	reqURL := c.baseURL + "/maps/api/geocode/json?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Str("address", address).
		Msg("requesting geocode from Google Maps")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("%w: %v", geocode.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return geocode.Coordinate{}, fmt.Errorf("%w: status %d", geocode.ErrProviderUnavailable, resp.StatusCode)
	}

	var apiResp geocodeResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return geocode.Coordinate{}, fmt.Errorf("decoding response: %w", err)
	}

	if apiResp.Status != "OK" || len(apiResp.Results) == 0 {
		return geocode.Coordinate{}, fmt.Errorf("%w: status %s", geocode.ErrNoResults, apiResp.Status)
	}

	loc := apiResp.Results[0].Geometry.Location
	return geocode.Coordinate{
		Lat: strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		Lng: strconv.FormatFloat(loc.Lng, 'f', -1, 64),
	}, nil
}

// geocodeResponse is the Google Geocoding API response envelope.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}
