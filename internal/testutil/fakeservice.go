// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"jot/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  map[string][]service.Task // email -> tasks
	owner  map[string]string         // id -> email
	nextID int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// Hook, when set, runs before every call with the operation name
	// ("list", "create", "update", "delete"). Tests block in it to
	// interleave calls.
	Hook func(op string)

	// Call counters
	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

// NewFakeService creates an empty FakeService. IDs are assigned from "1".
func NewFakeService() *FakeService {
	return &FakeService{
		tasks: make(map[string][]service.Task),
		owner: make(map[string]string),
	}
}

// AddTask stores a task for email and returns it with its assigned ID.
func (f *FakeService) AddTask(email string, d service.Draft) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(email, d)
}

func (f *FakeService) insert(email string, d service.Draft) service.Task {
	f.nextID++
	t := d.Task(strconv.Itoa(f.nextID))
	f.tasks[email] = append(f.tasks[email], t)
	f.owner[t.ID] = email
	return t
}

// Tasks returns a copy of the tasks stored for email.
func (f *FakeService) Tasks(email string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks[email]))
	copy(out, f.tasks[email])
	return out
}

// Calls returns the total number of backend calls made.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ListCalls + f.CreateCalls + f.UpdateCalls + f.DeleteCalls
}

func (f *FakeService) begin(ctx context.Context, op string, counter *int) error {
	if f.Hook != nil {
		f.Hook(op)
	}
	f.mu.Lock()
	*counter++
	f.mu.Unlock()
	return ctx.Err()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, email string) ([]service.Task, error) {
	if err := f.begin(ctx, "list", &f.ListCalls); err != nil {
		return nil, err
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(email), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, email string, d service.Draft) (service.Task, error) {
	if err := f.begin(ctx, "create", &f.CreateCalls); err != nil {
		return service.Task{}, err
	}
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(email, d), nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id, email string, d service.Draft) error {
	if err := f.begin(ctx, "update", &f.UpdateCalls); err != nil {
		return err
	}
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := f.tasks[f.owner[id]]
	for i, t := range tasks {
		if t.ID == id {
			tasks[i] = d.Task(id)
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if err := f.begin(ctx, "delete", &f.DeleteCalls); err != nil {
		return err
	}
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	email := f.owner[id]
	tasks := f.tasks[email]
	for i, t := range tasks {
		if t.ID == id {
			f.tasks[email] = append(tasks[:i], tasks[i+1:]...)
			delete(f.owner, id)
			return nil
		}
	}
	return service.ErrNotFound
}
