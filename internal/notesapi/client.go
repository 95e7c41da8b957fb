// Package notesapi talks to the notes collection endpoint of the todo
// server: list, create and delete. Failures are returned once as a
// *TransportError; there are no retries and no client-side timeout.
package notesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/idilsaglam/todo-client/internal/logging"
	"github.com/idilsaglam/todo-client/internal/model"
)

// RequestIDHeader carries a per-request id so client and server logs
// can be correlated.
const RequestIDHeader = "X-Request-Id"

const notesPath = "notes"

// Client is the remote collection client.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:5150/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q: scheme and host required", baseURL)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{},
		logger: logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// List returns all notes in server order.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, "list", http.MethodGet, c.endpoint(), nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Create posts a new note and returns it with its server-assigned id.
func (c *Client) Create(ctx context.Context, in model.NewTodo) (model.Todo, error) {
	var created model.Todo
	if err := c.do(ctx, "create", http.MethodPost, c.endpoint(), in, &created); err != nil {
		return model.Todo{}, err
	}
	return created, nil
}

// Remove deletes the note with the given id. The response body is discarded.
func (c *Client) Remove(ctx context.Context, id int) error {
	return c.do(ctx, "remove", http.MethodDelete, c.endpoint(strconv.Itoa(id)), nil, nil)
}

func (c *Client) endpoint(elem ...string) string {
	return c.base.JoinPath(append([]string{notesPath}, elem...)...).String()
}

func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	reqID := uuid.NewString()
	fail := func(status int, err error) error {
		terr := &TransportError{Op: op, Method: method, URL: target, StatusCode: status, Err: err}
		c.logger.Warn("notes request failed",
			"op", op, "method", method, "url", target, "status", status, "request_id", reqID, "err", err)
		return terr
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fail(0, fmt.Errorf("encode body: %w", err))
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fail(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
	} else if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(0, fmt.Errorf("decode response: %w", err))
	}
	c.logger.Debug("notes request", "op", op, "method", method, "url", target, "status", resp.StatusCode, "request_id", reqID)
	return nil
}
