// Package api talks to the My Easy Event backend: JSON bodies carrying an
// "action" are POSTed to API/*.php endpoints and answered with a
// {status, message, data} envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Backend endpoints.
const (
	Connexions  = "API/connexions.php"
	Events      = "API/event.php"
	Reservation = "API/reservation.php"
	Contact     = "API/contact.php"
	Users       = "API/users.php"
	Templates   = "API/template.php"
	Address     = "API/addressValidation.php"

	AdminUsers  = "API/admin/users.php"
	AdminEvents = "API/admin/events.php"
	AdminStats  = "API/admin/stats.php"

	DeviceValidation = "SSE/deviceValidate.php"
)

// ErrNoData is returned by Response.Decode when data is empty.
var ErrNoData = errors.New("api: response carries no data")

// StatusError is returned by Call when the backend answers with a 4xx or
// 5xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

// Forbidden reports a 403 answer.
func (e *StatusError) Forbidden() bool { return e.Code == http.StatusForbidden }

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// OK reports a "success" status.
func (r *Response) OK() bool { return r.Status == "success" }

// Decode unmarshals the data member into v.
func (r *Response) Decode(v interface{}) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return ErrNoData
	}
	return json.Unmarshal(r.Data, v)
}

// Client sends actions to the backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for the backend rooted at baseURL. client
// should share the window's cookie jar; nil uses a fresh client.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{baseURL: baseURL, client: client}
}

// URL returns the absolute URL of a backend path.
func (c *Client) URL(path string) string {
	return c.baseURL + strings.TrimPrefix(path, "/")
}

// HTTPClient returns the underlying client.
func (c *Client) HTTPClient() *http.Client { return c.client }

// Call POSTs payload as JSON to endpoint and decodes the envelope.
func (c *Client) Call(ctx context.Context, endpoint string, payload interface{}) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// Action is the common shape of request bodies.
type Action map[string]interface{}
