package coreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flyodesk/agency-console/internal/config"
	"github.com/flyodesk/agency-console/internal/utils"
)

// Client talks to the remote core booking API. Every record this service
// displays or mutates lives behind it; the client holds no state beyond the
// HTTP plumbing.
//
// Failure convention: business failures surface as *APIError carrying the
// backend's literal message, never reinterpreted. Transport failures wrap the
// underlying error. Callers branch with errors.As.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	adminPath    string
	businessPath string
}

func New(cfg config.CoreAPIConfig) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.GetCoreAPITimeout()},
		baseURL:      strings.TrimSuffix(cfg.GetCoreAPIBaseURL(), "/"),
		adminPath:    cfg.GetCoreAPIAdminPath(),
		businessPath: cfg.GetCoreAPIBusinessPath(),
	}
}

// NewWithBaseURL is used by tests to point the client at an httptest server.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient:   http.DefaultClient,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		adminPath:    "/core/v1/admin",
		businessPath: "/core/v1/businessFlyo",
	}
}

// APIError is a business-level rejection from the core API: either a non-2xx
// response with a JSON message, or a 200 whose body carries success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("core API request failed with status %d", e.StatusCode)
}

// envelope is the wire shape shared by every core API endpoint. Success may be
// absent on endpoints that signal failure through the status code alone.
type envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) adminURL(path string) string {
	return c.baseURL + c.adminPath + path
}

func (c *Client) businessURL(path string) string {
	return c.baseURL + c.businessPath + path
}

// doJSON issues a JSON request with the caller's bearer token and returns the
// raw data payload after unwrapping the envelope.
func (c *Client) doJSON(ctx context.Context, token, method, url string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("[doJSON] encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("[doJSON] build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, token)
}

func (c *Client) send(req *http.Request, token string) (json.RawMessage, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[send] %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[send] read response body: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON body on an error status still yields an APIError below.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if env.Success != nil && !utils.Value(env.Success) {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if env.Data != nil {
		return env.Data, nil
	}
	return raw, nil
}

func decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("[decode] unexpected response shape: %w", err)
	}
	return out, nil
}
