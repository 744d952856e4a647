// Package backend is the typed client for the upstream REST API. The
// upstream owns all persistence and business logic; the gateway treats it as
// an opaque collaborator.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoCredential is returned when a request would require a bearer token
// that is not configured. The request is never sent.
var ErrNoCredential = errors.New("backend: missing bearer credential")

// APIError is a non-success response from the upstream.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: upstream returned %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is an upstream authorization failure.
// The caller surfaces these as a login redirect rather than retrying.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return errors.Is(err, ErrNoCredential)
}

// errorPayload is the upstream error body, which uses either field.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the upstream REST API with a bearer credential attached to
// every request.
type Client struct {
	http  *resty.Client
	token string
}

// NewClient creates a client for the upstream at baseURL.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:  httpClient,
		token: token,
	}
}

// request builds a request with the bearer credential attached, failing fast
// when no credential is configured. Responses are decoded as JSON regardless
// of the Content-Type the upstream reports; without this a success response
// served as text/plain would leave the result at its zero value.
func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	if c.token == "" {
		return nil, ErrNoCredential
	}
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		ForceContentType("application/json"), nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.SetResult(out).Get(path)
	return checkResponse(resp, err, "GET", path)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	return checkResponse(resp, err, "POST", path)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.SetBody(body).SetResult(out).Patch(path)
	return checkResponse(resp, err, "PATCH", path)
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	resp, err := req.Delete(path)
	return checkResponse(resp, err, "DELETE", path)
}

// checkResponse wraps transport errors and decodes upstream error payloads.
func checkResponse(resp *resty.Response, err error, method, path string) error {
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		payload := errorPayload{}
		// Best effort decode; the status code alone is still useful.
		_ = json.Unmarshal(resp.Body(), &payload)
		msg := payload.Error
		if msg == "" {
			msg = payload.Message
		}
		if msg == "" {
			msg = resp.Status()
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return nil
}
