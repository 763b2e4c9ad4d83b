// Package taskapi implements the service.Service interface against the
// remote task HTTP API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jot/internal/config"
	"jot/internal/logging"
	"jot/internal/service"
)

const (
	// AuthHeader carries the static shared secret.
	AuthHeader = "auth"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Error is a failed task API call.
type Error struct {
	Op         string // "list", "create", "update", "delete"
	StatusCode int    // 0 for transport and decode failures
	Message    string // server-provided message, if any
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" task")
	if e.Op == "list" {
		b.WriteString("s")
	}
	b.WriteString(" failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match service.ErrNotFound and service.ErrUnauthorized
// against the HTTP status.
func (e *Error) Is(target error) bool {
	switch target {
	case service.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case service.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	secret  string
	timeout time.Duration
	log     *zap.Logger

	// newID generates fallback IDs when the server omits task_id.
	newID func() string
}

// New creates a client from config. Requires the API secret to be set.
func New(cfg *config.Config, log *zap.Logger) (*Client, error) {
	if err := cfg.RequireAPI(); err != nil {
		return nil, err
	}
	return NewWithHTTPClient(&http.Client{}, cfg.APIURL, cfg.APISecret, cfg.Timeout, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL, secret string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", baseURL)
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		timeout: timeout,
		log:     logging.OrNop(log),
		newID:   uuid.NewString,
	}, nil
}

// ListTasks returns every task stored for email.
func (c *Client) ListTasks(ctx context.Context, email string) ([]service.Task, error) {
	body, err := c.do(ctx, "list", http.MethodGet, "/all-task/"+url.PathEscape(email), nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeTaskList(body)
	if err != nil {
		return nil, &Error{Op: "list", Err: fmt.Errorf("malformed response: %w", err)}
	}

	tasks := make([]service.Task, 0, len(records))
	for _, r := range records {
		t, err := r.decode()
		if err != nil {
			return nil, &Error{Op: "list", Err: fmt.Errorf("malformed response: %w", err)}
		}
		tasks = append(tasks, t)
	}
	c.log.Debug("tasks listed", zap.String("email", email), zap.Int("count", len(tasks)))
	return tasks, nil
}

// CreateTask stores a new task. If the response carries no task_id a random
// UUID is used so the local copy still has a unique ID.
func (c *Client) CreateTask(ctx context.Context, email string, d service.Draft) (service.Task, error) {
	body, err := c.do(ctx, "create", http.MethodPost, "/add-task", encodeDraft(email, d))
	if err != nil {
		return service.Task{}, err
	}

	var resp createResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			return service.Task{}, &Error{Op: "create", Err: fmt.Errorf("malformed response: %w", err)}
		}
	}

	id := string(resp.ID)
	if id == "" {
		id = c.newID()
		c.log.Warn("server returned no task_id, using generated id", zap.String("task_id", id))
	}
	c.log.Debug("task created", zap.String("email", email), zap.String("task_id", id))
	return d.Task(id), nil
}

// UpdateTask replaces the fields of task id.
func (c *Client) UpdateTask(ctx context.Context, id, email string, d service.Draft) error {
	_, err := c.do(ctx, "update", http.MethodPut, "/edit-task/"+url.PathEscape(id), encodeDraft(email, d))
	if err != nil {
		return err
	}
	c.log.Debug("task updated", zap.String("task_id", id))
	return nil
}

// DeleteTask deletes task id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, "/delete-task/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	c.log.Debug("task deleted", zap.String("task_id", id))
	return nil
}

// do issues one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set(AuthHeader, c.secret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request", zap.String("op", op), zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("request timed out")
		}
		return nil, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.log.Debug("response", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Int("bytes", len(body)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: e.text()}
	}
	return body, nil
}
