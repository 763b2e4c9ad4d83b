package tasklist

import (
	"context"
	"errors"
	"time"

	"jot/internal/service"
)

// ErrEditorClosed is returned by Submit and Cancel when no draft is open.
var ErrEditorClosed = errors.New("editor is not open")

// Editor is the add/edit form. It is either closed or open on a draft,
// in create mode or editing one task.
type Editor struct {
	open   bool
	editID string
	now    func() time.Time

	// Draft is the form content while open.
	Draft service.Draft
}

// NewEditor returns a closed editor.
func NewEditor() *Editor {
	return &Editor{now: time.Now}
}

// IsOpen reports whether a draft is open.
func (e *Editor) IsOpen() bool {
	return e.open
}

// Editing returns the ID of the task being edited, or "" in create mode.
func (e *Editor) Editing() string {
	return e.editID
}

// OpenCreate opens a fresh draft with the default fields.
func (e *Editor) OpenCreate() {
	e.open = true
	e.editID = ""
	e.Draft = service.NewDraft(e.now())
}

// OpenEdit opens a draft prefilled from t.
func (e *Editor) OpenEdit(t service.Task) {
	e.open = true
	e.editID = t.ID
	e.Draft = t.Draft()
}

// Cancel discards the draft.
func (e *Editor) Cancel() error {
	if !e.open {
		return ErrEditorClosed
	}
	e.close()
	return nil
}

// Submit sends the draft through c. A validation failure keeps the editor
// open; any other outcome closes it.
func (e *Editor) Submit(ctx context.Context, c *Controller) (service.Task, error) {
	if !e.open {
		return service.Task{}, ErrEditorClosed
	}

	var (
		task service.Task
		err  error
	)
	if e.editID == "" {
		task, err = c.Add(ctx, e.Draft)
	} else {
		task, err = c.Update(ctx, e.editID, e.Draft)
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return service.Task{}, err
	}
	e.close()
	return task, err
}

func (e *Editor) close() {
	e.open = false
	e.editID = ""
	e.Draft = service.Draft{}
}
