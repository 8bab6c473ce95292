package api

import (
	"context"
	"sync"

	"github.com/diogo/webhookchat/internal/models"
)

// MockWebhookClient is a mock implementation of WebhookClientInterface for testing
type MockWebhookClient struct {
	// Mock return values
	EndpointVal  string
	SendQueryVal *models.Reply
	SendQueryErr error
	// SendQueryFunc, when set, takes precedence over SendQueryVal/SendQueryErr
	SendQueryFunc func(ctx context.Context, query string) (*models.Reply, error)
	DownloadPath  string
	DownloadErr   error

	// Call counters/recorders
	mu          sync.Mutex
	CloseCalled bool
	Queries     []string
	Downloads   []string
}

// Ensure MockWebhookClient implements WebhookClientInterface
var _ WebhookClientInterface = (*MockWebhookClient)(nil)

func (m *MockWebhookClient) SendQuery(ctx context.Context, query string) (*models.Reply, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	fn := m.SendQueryFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	return m.SendQueryVal, m.SendQueryErr
}

func (m *MockWebhookClient) DownloadClip(ctx context.Context, url string, opts ClipDownloadOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Downloads = append(m.Downloads, url)
	return m.DownloadPath, m.DownloadErr
}

func (m *MockWebhookClient) Endpoint() string {
	return m.EndpointVal
}

func (m *MockWebhookClient) IsConfigured() bool {
	return m.EndpointVal != ""
}

func (m *MockWebhookClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

// QueryCount returns how many queries were sent
func (m *MockWebhookClient) QueryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}

// LastQuery returns the most recent query, or ""
func (m *MockWebhookClient) LastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Queries) == 0 {
		return ""
	}
	return m.Queries[len(m.Queries)-1]
}

// ReplyFromRaw decodes raw as the webhook would have returned it
func ReplyFromRaw(raw string) *models.Reply {
	reply := ParseReply(raw)
	return &reply
}
