// ABOUTME: HTTP client for the external image-generation backend
// ABOUTME: Sends identity headers, disables caching, and records call metrics

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markalston/visionary-gallery/backend/metrics"
)

// UserIDHeader carries the signed-in user's email to the image backend.
const UserIDHeader = "user-id"

// maxUpstreamBody bounds how much of an upstream response is buffered.
const maxUpstreamBody = 10 << 20

// UpstreamRequest describes one call to the image backend.
type UpstreamRequest struct {
	// Op names the call for logs and metrics (e.g. "explore", "like").
	Op     string
	Method string
	Path   string
	Query  url.Values
	// Body is JSON encoded when non-nil.
	Body any
	// UserID is sent as the user-id header when non-empty.
	UserID string
}

// UpstreamStatusError is returned when the image backend answers non-2xx.
type UpstreamStatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Op, e.Status)
}

// UpstreamClient talks to the image backend.
type UpstreamClient struct {
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
}

func NewUpstreamClient(baseURL string, timeout time.Duration, m *metrics.Metrics) *UpstreamClient {
	return &UpstreamClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

// BaseURL returns the image backend base URL.
func (c *UpstreamClient) BaseURL() string {
	return c.baseURL
}

// Do performs req and returns the response body of a 2xx answer. Any other
// status is an *UpstreamStatusError. Transport failures are wrapped.
func (c *UpstreamClient) Do(ctx context.Context, req UpstreamRequest) ([]byte, error) {
	start := time.Now()

	body, err := c.do(ctx, req)

	outcome := metrics.OutcomeSuccess
	var se *UpstreamStatusError
	switch {
	case errors.As(err, &se):
		outcome = metrics.OutcomeStatus
	case err != nil:
		outcome = metrics.OutcomeNetwork
	}
	c.metrics.RecordUpstream(req.Op, outcome, time.Since(start))

	slog.Debug("Upstream call",
		"op", req.Op,
		"method", req.Method,
		"path", req.Path,
		"outcome", outcome,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return body, err
}

func (c *UpstreamClient) do(ctx context.Context, req UpstreamRequest) ([]byte, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", req.Op, err)
		}
		reader = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", req.Op, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.UserID != "" {
		httpReq.Header.Set(UserIDHeader, req.UserID)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", req.Op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", req.Op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamStatusError{Op: req.Op, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// Health checks the image backend's health endpoint.
func (c *UpstreamClient) Health(ctx context.Context) error {
	_, err := c.Do(ctx, UpstreamRequest{Op: "health", Method: http.MethodGet, Path: "/health"})
	return err
}
