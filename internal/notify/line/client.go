// Package line provides a client for the LINE Messaging API push endpoint.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/provider/resilience"
)

const (
	// ProviderName identifies this messaging provider.
	ProviderName = "line-messaging"

	// DefaultBaseURL is the LINE Messaging API base URL.
	DefaultBaseURL = "https://api.line.me"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the LINE client.
type ClientConfig struct {
	// ChannelAccessToken is the LINE channel access token. When empty the
	// client runs in simulation mode: pushes are logged and reported as
	// delivered without calling the API.
	ChannelAccessToken string

	// BaseURL is the API base URL (optional, defaults to the LINE API).
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

// Client is a LINE Messaging API client.
type Client struct {
	token      string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new LINE client.
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
		token:      cfg.ChannelAccessToken,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// SimulationMode reports whether the client runs without a channel token.
func (c *Client) SimulationMode() bool {
	return c.token == ""
}

// Push sends a text message to a LINE user.
func (c *Client) Push(ctx context.Context, to, message string) error {
	if c.SimulationMode() {
		c.logger.Info().
			Str("to", to).
			Int("message_len", len(message)).
			Msg("simulated LINE push (no channel token configured)")
		return nil
	}

	body, err := json.Marshal(pushRequest{
		To: to,
		Messages: []pushMessage{
			{Type: "text", Text: message},
		},
	})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	reqURL := c.baseURL + "/v2/bot/message/push"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pushing message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push rejected: status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Debug().
		Str("to", to).
		Msg("LINE push delivered")

	return nil
}

// pushRequest is the LINE push endpoint request body.
type pushRequest struct {
	To       string        `json:"to"`
	Messages []pushMessage `json:"messages"`
}

// pushMessage is a single message in a push request.
type pushMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
