// Package gateway is the single chokepoint for backend calls. It joins the
// base address with a path, attaches the bearer credential when one exists,
// tolerantly parses every response body as JSON, and turns any failure --
// transport or non-2xx -- into one user-facing notification plus a typed
// error for the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// genericFailureMsg is used when the body carries no message/detail field.
const genericFailureMsg = "request failed, please try again"

// CredentialSource supplies the bearer token, or "" when logged out.
type CredentialSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a fixed-token credential source, used between obtaining a
// token and persisting the session.
type StaticToken string

func (t StaticToken) Token(context.Context) string { return string(t) }

// CallError is the single failure outcome of a gateway call. Status is 0
// for transport-level failures; the gateway does not otherwise distinguish
// them from application failures.
type CallError struct {
	Status  int
	Message string
	cause   error
}

func (e *CallError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("board api: %s", e.Message)
	}
	return fmt.Sprintf("board api http %d: %s", e.Status, e.Message)
}

func (e *CallError) Unwrap() error { return e.cause }

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Creds      CredentialSource

	// Notify surfaces a failure to the user. It fires exactly once per
	// failed call, here at the gateway; callers catch only for local
	// cleanup and must not notify again.
	Notify func(msg string)
}

func New(baseURL string, creds CredentialSource) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		Creds: creds,
	}
}

// WithCreds returns a copy of the client using a different credential
// source. The HTTP client and notifier are shared.
func (c *Client) WithCreds(creds CredentialSource) *Client {
	cp := *c
	cp.Creds = creds
	return &cp
}

// Call issues a request with a JSON-encoded body (nil means no body) and
// returns the parsed response payload.
func (c *Client) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var r io.Reader
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, r, contentType)
}

// CallRaw issues a request with a caller-built payload (typically
// multipart) passed through unmodified.
func (c *Client) CallRaw(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	return c.do(ctx, method, path, body, contentType)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Creds != nil {
		if token := c.Creds.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("gateway %s %s: %v", method, path, err)
		c.notify(genericFailureMsg)
		return nil, &CallError{Status: 0, Message: genericFailureMsg, cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("gateway %s %s: read body: %v", method, path, err)
		c.notify(genericFailureMsg)
		return nil, &CallError{Status: 0, Message: genericFailureMsg, cause: err}
	}

	payload := parseTolerant(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractMessage(payload)
		c.notify(msg)
		return nil, &CallError{Status: resp.StatusCode, Message: msg}
	}
	return payload, nil
}

func (c *Client) notify(msg string) {
	if c.Notify != nil {
		c.Notify(msg)
		return
	}
	log.Printf("gateway: %s", msg)
}

// parseTolerant parses a response body as JSON regardless of status code.
// An empty or non-JSON body is treated as an empty object, never an error.
func parseTolerant(raw []byte) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(raw)
}

// extractMessage pulls a human-readable message from an error payload:
// the message field, then detail, then a generic fallback.
func extractMessage(payload json.RawMessage) string {
	var m struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &m); err == nil {
		if m.Message != "" {
			return m.Message
		}
		if m.Detail != "" {
			return m.Detail
		}
	}
	return genericFailureMsg
}

// Unwrap normalizes the backend's response envelope: the payload is either
// {"data": T} or a bare T, and callers always receive T. A missing or null
// data field yields the payload unchanged.
func Unwrap(payload json.RawMessage) json.RawMessage {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return payload
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return payload
	}
	return env.Data
}
