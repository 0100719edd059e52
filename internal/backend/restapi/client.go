// Package restapi implements the service.Service interface over the categories/tasks REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"todocat/internal/config"
	"todocat/internal/service"
)

// Client implements service.Service against a REST backend.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for cfg.APIBase.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		base:    strings.TrimRight(cfg.APIBase, "/"),
		http:    http.DefaultClient,
		timeout: cfg.Timeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(base string, hc *http.Client) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: hc,
		log:  zerolog.Nop(),
	}
}

// Fetch issues one JSON request and returns the raw response body.
//
// The body is parsed as JSON whatever the status; an empty or non-JSON body
// yields nil. A non-2xx status or a transport failure is returned as
// *service.RequestError. There are no retries.
func (c *Client) Fetch(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, &service.RequestError{Err: wrapTransport(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &service.RequestError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	raw := parseBody(data)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &service.RequestError{Status: resp.StatusCode}
		if raw != nil {
			var parsed any
			if err := json.Unmarshal(raw, &parsed); err == nil {
				reqErr.Body = parsed
			}
		}
		return nil, reqErr
	}
	return raw, nil
}

// ListCategories returns all categories.
func (c *Client) ListCategories(ctx context.Context) ([]service.Category, error) {
	var out []service.Category
	if err := c.fetchInto(ctx, http.MethodGet, "/categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	var out service.Category
	payload := map[string]string{"name": name}
	if err := c.fetchInto(ctx, http.MethodPost, "/categories/", payload, &out); err != nil {
		return service.Category{}, err
	}
	return out, nil
}

// ListTasks returns tasks scoped to filter.
func (c *Client) ListTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	var out []service.Task
	if err := c.fetchInto(ctx, http.MethodGet, tasksPath(filter), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	var out service.Task
	if err := c.fetchInto(ctx, http.MethodPost, "/tasks/", in, &out); err != nil {
		return service.Task{}, err
	}
	return out, nil
}

// UpdateTask patches a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	var out service.Task
	if err := c.fetchInto(ctx, http.MethodPatch, taskPath(id), patch, &out); err != nil {
		return service.Task{}, err
	}
	return out, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	_, err := c.Fetch(ctx, http.MethodDelete, taskPath(id), nil)
	return err
}

func (c *Client) fetchInto(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Fetch(ctx, method, path, body)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%s %s: empty response body", method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func tasksPath(filter service.Filter) string {
	id, ok := filter.CategoryID()
	if !ok {
		return "/tasks/"
	}
	q := url.Values{}
	q.Set("category_id", strconv.FormatInt(id, 10))
	return "/tasks/?" + q.Encode()
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10) + "/"
}

// parseBody returns data if it is a single valid JSON value, else nil.
func parseBody(data []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.RawMessage(trimmed)
}

// wrapTransport maps transport errors to short messages.
func wrapTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	return err
}

var _ service.Service = (*Client)(nil)
