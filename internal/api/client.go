// Package api provides the webhook client and the reply decoder.
package api

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	apierrors "github.com/diogo/webhookchat/internal/errors"
	"github.com/diogo/webhookchat/internal/models"
)

// WebhookClientInterface is the webhook client used by conversations and commands
type WebhookClientInterface interface {
	SendQuery(ctx context.Context, query string) (*models.Reply, error)
	DownloadClip(ctx context.Context, url string, opts ClipDownloadOptions) (string, error)
	Endpoint() string
	IsConfigured() bool
	Close()
}

// Ensure WebhookClient implements WebhookClientInterface
var _ WebhookClientInterface = (*WebhookClient)(nil)

// WebhookClient posts user queries to the automation webhook
type WebhookClient struct {
	httpClient tls_client.HttpClient
	endpoint   string
	timeout    int // seconds, 0 keeps the transport default
	headers    map[string]string
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*WebhookClient)

// WithTimeout sets the request timeout in seconds; 0 keeps the transport default
func WithTimeout(seconds int) ClientOption {
	return func(c *WebhookClient) {
		c.timeout = seconds
	}
}

// WithHeader adds an extra header to every request
func WithHeader(key, value string) ClientOption {
	return func(c *WebhookClient) {
		c.headers[key] = value
	}
}

// WithHTTPClient replaces the underlying transport (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *WebhookClient) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new WebhookClient. An empty endpoint is allowed:
// every request then fails with a ConfigError, which the conversation shows
// as a bot message instead of refusing to start.
func NewClient(endpoint string, opts ...ClientOption) (*WebhookClient, error) {
	client := &WebhookClient{
		endpoint: strings.TrimSpace(endpoint),
		headers:  models.DefaultHeaders(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if client.timeout > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(client.timeout))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the configured webhook URL
func (c *WebhookClient) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// IsConfigured reports whether a webhook URL is set
func (c *WebhookClient) IsConfigured() bool {
	return c.Endpoint() != ""
}

// Close releases idle connections; further requests fail
func (c *WebhookClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *WebhookClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// checkReady returns the endpoint to call, or the error that prevents the call
func (c *WebhookClient) checkReady() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return "", fmt.Errorf("client is closed")
	}
	if c.endpoint == "" {
		return "", apierrors.NewConfigError("webhook_url", "")
	}
	return c.endpoint, nil
}

// MaskEndpoint hides the secret part of a webhook URL for logs and display
func MaskEndpoint(endpoint string) string {
	if endpoint == "" {
		return "(not set)"
	}
	idx := strings.LastIndex(endpoint, "/")
	if idx < 0 || idx == len(endpoint)-1 {
		return endpoint
	}
	secret := endpoint[idx+1:]
	if len(secret) <= 4 {
		return endpoint
	}
	return endpoint[:idx+1] + secret[:4] + strings.Repeat("*", len(secret)-4)
}
