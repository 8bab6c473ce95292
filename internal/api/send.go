package api

import (
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"io"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/golang/glog"

	apierrors "github.com/diogo/webhookchat/internal/errors"
	"github.com/diogo/webhookchat/internal/models"
)

// queryPayload is the JSON body the webhook expects
type queryPayload struct {
	Query string `json:"query"`
}

// maxErrorBody caps how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// SendQuery posts the query and decodes the reply.
// Any status outside 2xx, a transport failure or a missing endpoint is an error.
func (c *WebhookClient) SendQuery(ctx context.Context, query string) (*models.Reply, error) {
	endpoint, err := c.checkReady()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(queryPayload{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", maskEndpointError(endpoint, err))
	}

	c.mu.RLock()
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	c.mu.RUnlock()

	glog.V(1).Infof("webhook: POST %s (%d bytes)", MaskEndpoint(endpoint), len(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("send query", endpoint, maskEndpointError(endpoint, err))
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, "", string(errorBody))
		glog.Errorf("webhook: status %d from %s: %s", resp.StatusCode, MaskEndpoint(endpoint), apiErr.Detail())
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", endpoint, maskEndpointError(endpoint, err))
	}

	raw := string(body)
	glog.V(1).Infof("webhook: raw response: %q", raw)

	reply := ParseReply(raw)
	return &reply, nil
}

// maskedError keeps the cause of a transport failure but hides the webhook secret in its text
type maskedError struct {
	msg string
	err error
}

func (e *maskedError) Error() string { return e.msg }
func (e *maskedError) Unwrap() error { return e.err }

// maskEndpointError strips the URL the transport prefixes to its errors
// (`Post "<url>": ...`) and masks any remaining copy of the endpoint.
func maskEndpointError(endpoint string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	if endpoint == "" || !strings.Contains(err.Error(), endpoint) {
		return err
	}
	return &maskedError{
		msg: strings.ReplaceAll(err.Error(), endpoint, MaskEndpoint(endpoint)),
		err: err,
	}
}

// ParseReply splits a webhook reply into its audio link and text.
//
// The webhook answers "<url>.mp3,<text>". The first ".mp3," marks the split:
// everything up to and including ".mp3" is the audio URL, everything after
// the comma is the text, both trimmed. Without the marker the whole body is
// text. Commas inside the URL are not escaped by the webhook, so only the
// first marker counts and no URL validation happens here.
func ParseReply(raw string) models.Reply {
	reply := models.Reply{Raw: raw}

	idx := strings.Index(raw, models.AudioMarker)
	if idx == -1 {
		reply.Text = strings.TrimSpace(raw)
		return reply
	}

	reply.AudioURL = strings.TrimSpace(raw[:idx+4])
	reply.Text = strings.TrimSpace(raw[idx+5:])
	return reply
}
