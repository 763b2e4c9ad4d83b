package tasklist

import "jot/internal/service"

// Kind identifies what a Result does to the collection.
type Kind int

const (
	Loaded Kind = iota
	Added
	Updated
	Removed
	Toggled
	Rejected
)

func (k Kind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	case Toggled:
		return "toggled"
	default:
		return "rejected"
	}
}

// Result is the outcome of one intent. Only apply writes the collection.
type Result struct {
	Kind  Kind
	Tasks []service.Task // Loaded
	Task  service.Task   // Added, Updated, Toggled
	ID    string         // Removed, Toggled
	Err   error          // Rejected
}

// apply folds r into the collection. The caller holds c.mu.
// It reports whether the collection changed.
func (c *Controller) apply(r Result) bool {
	switch r.Kind {
	case Loaded:
		c.tasks = append([]service.Task(nil), r.Tasks...)
		return true

	case Added:
		c.tasks = append(c.tasks, r.Task)
		return true

	case Updated:
		// A task removed while its update was in flight stays removed.
		i := c.index(r.Task.ID)
		if i < 0 {
			return false
		}
		c.tasks[i] = r.Task
		return true

	case Removed:
		i := c.index(r.ID)
		if i < 0 {
			return false
		}
		c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
		return true

	case Toggled:
		i := c.index(r.ID)
		if i < 0 {
			return false
		}
		c.tasks[i].Status = c.tasks[i].Status.Toggle()
		return true
	}
	return false
}

func (c *Controller) index(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
