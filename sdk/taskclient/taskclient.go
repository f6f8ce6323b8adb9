// Package taskclient provides an HTTP client for the taskdeck API.
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/sdk/environment"
)

// Client talks to a taskdeck server and decodes its response envelopes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryWait  time.Duration
}

// Options is the exportable configuration struct
type Options struct {
	BaseURL    string        `yaml:"base_url" toml:"base_url" json:"base_url" env:"CLIENT_BASE_URL" default:"http://localhost:3001"`
	Timeout    time.Duration `yaml:"timeout" toml:"timeout" json:"timeout" env:"CLIENT_TIMEOUT" default:"10s"`
	MaxRetries int           `yaml:"max_retries" toml:"max_retries" json:"max_retries" env:"CLIENT_MAX_RETRIES" default:"2"`
	RetryWait  time.Duration `yaml:"retry_wait" toml:"retry_wait" json:"retry_wait" env:"CLIENT_RETRY_WAIT" default:"250ms"`
}

// Option configures the client.
type Option func(*Options)

// WithBaseURL sets the server base URL.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithMaxRetries sets how many times a failed request is retried.
// Only transport errors and 5xx responses are retried.
func WithMaxRetries(n int) Option {
	return func(o *Options) {
		o.MaxRetries = n
	}
}

// WithRetryWait sets the base wait between retries.
func WithRetryWait(d time.Duration) Option {
	return func(o *Options) {
		o.RetryWait = d
	}
}

// NewClient creates a Client with default settings and applies any options.
func NewClient(opts ...Option) *Client {
	options := Options{
		BaseURL:    "http://localhost:3001",
		Timeout:    10 * time.Second,
		MaxRetries: 2,
		RetryWait:  250 * time.Millisecond,
	}
	return newClient(options, opts...)
}

// NewClientFromEnv creates a Client configured from environment variables.
func NewClientFromEnv(prefix string, opts ...Option) (*Client, error) {
	var options Options
	if err := environment.ParseEnvTags(prefix, &options); err != nil {
		return nil, fmt.Errorf("parsing taskclient config: %w", err)
	}
	return newClient(options, opts...), nil
}

func newClient(cfg Options, opts ...Option) *Client {
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryWait,
	}
}

// envelope matches the server's response shape for both success and failure.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// List returns every task the server knows about.
func (c *Client) List(ctx context.Context) ([]tasksrepo.Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}

	var tasks []tasksrepo.Task
	if err := json.Unmarshal(env.Data, &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the task with the given id.
func (c *Client) Get(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/tasks/"+taskID, nil)
	if err != nil {
		return tasksrepo.Task{}, err
	}
	return decodeTask(env)
}

// Create creates a new task and returns the server's copy, including its id.
func (c *Client) Create(ctx context.Context, ct tasksrepo.CreateTask) (tasksrepo.Task, error) {
	env, err := c.do(ctx, http.MethodPost, "/tasks", ct)
	if err != nil {
		return tasksrepo.Task{}, err
	}
	return decodeTask(env)
}

// UpdateStatus changes the status of an existing task.
func (c *Client) UpdateStatus(ctx context.Context, taskID string, status tasksrepo.Status) (tasksrepo.Task, error) {
	env, err := c.do(ctx, http.MethodPatch, "/tasks/"+taskID, tasksrepo.UpdateTask{Status: status})
	if err != nil {
		return tasksrepo.Task{}, err
	}
	return decodeTask(env)
}

// Delete removes the task with the given id.
func (c *Client) Delete(ctx context.Context, taskID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/tasks/"+taskID, nil)
	return err
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}

func decodeTask(env envelope) (tasksrepo.Task, error) {
	var task tasksrepo.Task
	if err := json.Unmarshal(env.Data, &task); err != nil {
		return tasksrepo.Task{}, fmt.Errorf("decoding task: %w", err)
	}
	return task, nil
}

// do runs a request with bounded retries. Transport errors and 5xx responses
// are retried; 4xx responses are not.
func (c *Client) do(ctx context.Context, method, path string, body any) (envelope, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return envelope{}, fmt.Errorf("encoding request: %w", err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.retryWait
			select {
			case <-ctx.Done():
				return envelope{}, ctx.Err()
			case <-time.After(wait):
			}
		}

		env, retryable, err := c.doOnce(ctx, method, path, payload)
		if err == nil {
			return env, nil
		}
		if !retryable {
			return envelope{}, err
		}
		lastErr = err
	}

	return envelope{}, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte) (envelope, bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return envelope{}, false, fmt.Errorf("building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return envelope{}, false, ctx.Err()
		}
		return envelope{}, true, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return envelope{}, true, &TransportError{StatusCode: resp.StatusCode, Err: err}
		}
		return envelope{}, false, fmt.Errorf("decoding response: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return envelope{}, true, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", env.Message)}

	case resp.StatusCode == http.StatusNotFound:
		return envelope{}, false, ErrNotFound

	case resp.StatusCode >= http.StatusBadRequest:
		return envelope{}, false, &ValidationError{Message: env.Message}
	}

	return env, false, nil
}
