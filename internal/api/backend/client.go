// Package backend is the client for the first-party WepComic API: auth,
// community uploads, favorites, comments, notifications, profiles and the
// moderation surface.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wepcomic/wepcomic-term/internal/logger"
)

// TokenProvider supplies the bearer token for authenticated requests. An
// empty token means the request goes out anonymous.
type TokenProvider interface {
	Token() string
}

// StaticToken is a TokenProvider for a fixed token. Useful in tests.
type StaticToken string

// Token implements TokenProvider.
func (t StaticToken) Token() string { return string(t) }

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// Client is a client for the WepComic backend API.
type Client struct {
	baseURL string
	tokens  TokenProvider
	client  *http.Client
	logger  *logger.Logger
}

// NewClient creates a backend client. tokens may be nil for a client that
// only performs anonymous requests.
func NewClient(baseURL string, tokens TokenProvider, log *logger.Logger) *Client {
	zl := log.Logger.With().Str("component", "backend_client").Logger()

	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: &logger.Logger{Logger: zl},
	}
}

// do performs a request against the backend. payload is JSON-encoded when
// non-nil; the response body is decoded into out when non-nil. A bearer token
// is attached when the provider has one.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	log := c.logger.Logger.With().Str("method", method).Str("endpoint", path).Logger()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode request body")
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create request")
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().
			Int("status", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("Unexpected status code")
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			log.Error().Err(err).Msg("Failed to decode response")
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
