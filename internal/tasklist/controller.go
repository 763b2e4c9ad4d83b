// Package tasklist holds the signed-in user's task collection and the
// intents that change it.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"jot/internal/logging"
	"jot/internal/service"
	"jot/internal/session"
)

// ErrTaskNotFound is returned for an ID that is not in the collection.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError is a draft rejected before any remote call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks that title and description are non-blank.
func Validate(d service.Draft) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Message: "Title and description cannot be empty."}
	}
	return nil
}

// Controller owns the task collection of the current session.
// It is safe for concurrent use. Remote calls are made without holding mu.
type Controller struct {
	svc      service.Service
	sessions session.Source
	log      *zap.Logger

	mu    sync.Mutex
	tasks []service.Task
}

// New creates a controller with an empty collection.
func New(svc service.Service, sessions session.Source, log *zap.Logger) *Controller {
	return &Controller{svc: svc, sessions: sessions, log: logging.OrNop(log)}
}

// Tasks returns a copy of the collection.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Task returns the task with the given ID.
func (c *Controller) Task(id string) (service.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return service.Task{}, ErrTaskNotFound
	}
	return c.tasks[i], nil
}

func (c *Controller) commit(r Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.apply(r)
	c.log.Debug("result applied",
		zap.Stringer("kind", r.Kind), zap.Bool("changed", changed), zap.Int("count", len(c.tasks)))
	return changed
}

func (c *Controller) email(ctx context.Context) (string, error) {
	s, err := c.sessions.Load(ctx)
	if err != nil {
		return "", err
	}
	return s.Email, nil
}

// Load replaces the collection with the session user's tasks. With no
// session, or when the gateway fails, the collection is left empty and the
// error is returned.
func (c *Controller) Load(ctx context.Context) error {
	email, err := c.email(ctx)
	if err != nil {
		c.commit(Result{Kind: Loaded})
		return err
	}

	tasks, err := c.svc.ListTasks(ctx, email)
	if err != nil {
		c.log.Warn("load failed", zap.String("email", email), zap.Error(err))
		c.commit(Result{Kind: Loaded})
		return err
	}
	c.commit(Result{Kind: Loaded, Tasks: tasks})
	return nil
}

// Add validates d, creates it remotely and appends the created task.
func (c *Controller) Add(ctx context.Context, d service.Draft) (service.Task, error) {
	if err := Validate(d); err != nil {
		c.commit(Result{Kind: Rejected, Err: err})
		return service.Task{}, err
	}
	email, err := c.email(ctx)
	if err != nil {
		return service.Task{}, err
	}

	task, err := c.svc.CreateTask(ctx, email, d)
	if err != nil {
		c.log.Warn("add failed", zap.String("email", email), zap.Error(err))
		c.commit(Result{Kind: Rejected, Err: err})
		return service.Task{}, err
	}
	c.commit(Result{Kind: Added, Task: task})
	return task, nil
}

// Update validates d and replaces the fields of task id, keeping its ID.
// On failure the collection is unchanged.
func (c *Controller) Update(ctx context.Context, id string, d service.Draft) (service.Task, error) {
	if err := Validate(d); err != nil {
		c.commit(Result{Kind: Rejected, Err: err})
		return service.Task{}, err
	}
	if _, err := c.Task(id); err != nil {
		return service.Task{}, err
	}
	email, err := c.email(ctx)
	if err != nil {
		return service.Task{}, err
	}

	if err := c.svc.UpdateTask(ctx, id, email, d); err != nil {
		c.log.Warn("update failed", zap.String("task_id", id), zap.Error(err))
		c.commit(Result{Kind: Rejected, Err: err})
		return service.Task{}, err
	}
	task := d.Task(id)
	if !c.commit(Result{Kind: Updated, Task: task}) {
		return service.Task{}, fmt.Errorf("task %s was removed during update: %w", id, ErrTaskNotFound)
	}
	return task, nil
}

// Remove deletes task id remotely and drops it from the collection.
// On failure the collection is unchanged.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.log.Warn("remove failed", zap.String("task_id", id), zap.Error(err))
		c.commit(Result{Kind: Rejected, Err: err})
		return err
	}
	c.commit(Result{Kind: Removed, ID: id})
	return nil
}

// ToggleStatus flips the status of task id locally. No remote call is made.
func (c *Controller) ToggleStatus(id string) (service.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.apply(Result{Kind: Toggled, ID: id}) {
		return service.Task{}, ErrTaskNotFound
	}
	return c.tasks[c.index(id)], nil
}
