package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// StatusError is a non-2xx API response.
type StatusError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Rejected reports whether the server refused the request on business
// grounds rather than failing.
func (e *StatusError) Rejected() bool {
	return e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError
}

// client speaks the JSON API as one user at a time.
type client struct {
	http *http.Client
	base string
}

func newClient(base string, timeout time.Duration) *client {
	return &client{http: &http.Client{Timeout: timeout}, base: base}
}

// do sends a request as userID and decodes a 2xx body into out. Mutating
// requests carry a fresh Idempotency-Key, and a transport failure is retried
// once under the same key so the server applies it at most once.
func (c *client) do(ctx context.Context, method, path, userID string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = b
	}
	key := ""
	if method != http.MethodGet {
		key = uuid.NewString()
	}

	resp, err := c.send(ctx, method, path, userID, key, payload)
	if err != nil && key != "" && ctx.Err() == nil {
		resp, err = c.send(ctx, method, path, userID, key, payload)
	}
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, se)
		return se
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *client) send(ctx context.Context, method, path, userID, key string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return c.http.Do(req)
}

// rejected reports whether err is a business rejection.
func rejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Rejected()
}
