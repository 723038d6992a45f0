// Package backend is the HTTP client of the marketplace REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/api/metrics"
	"github.com/monochrome/portal/internal/core/domain"
)

const maxBodyBytes = 4 << 20

// Client calls the marketplace API. It carries no client-side timeout:
// requests live as long as the inbound request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient builds a Client for baseURL. A nil httpClient uses a plain
// http.Client.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// doJSON performs one API call. endpoint is the metrics label. A transport
// failure is returned wrapped in domain.ErrBackendUnavailable; an API-level
// failure as *domain.APIError.
func (c *Client) doJSON(ctx context.Context, endpoint, method, path, token string, payload, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			outcome = "api_error"
			return fmt.Errorf("%s: encode payload: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		outcome = "api_error"
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "unavailable"
		c.log.Debug().Err(err).Str("endpoint", endpoint).Msg("marketplace api unreachable")
		return fmt.Errorf("%s: %w: %v", endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&env)
	if errors.Is(decodeErr, io.EOF) {
		decodeErr = nil
	}

	if resp.StatusCode >= http.StatusBadRequest {
		outcome = "api_error"
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &domain.APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		outcome = "api_error"
		return &domain.APIError{Status: resp.StatusCode, Message: "malformed response"}
	}
	if env.Success != nil && !*env.Success {
		outcome = "api_error"
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &domain.APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		outcome = "api_error"
		return &domain.APIError{Status: resp.StatusCode, Message: "malformed response"}
	}
	return nil
}

// Ping reports whether the API answers at all. Any HTTP status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/services", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}
