// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by backend errors for missing resources.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is matched by backend errors for a rejected shared secret.
	ErrUnauthorized = errors.New("unauthorized")
)

// Service defines the interface for the remote task store.
// Commands and the task list controller never import the HTTP client directly.
type Service interface {
	// ListTasks returns every task stored for email, in server order.
	ListTasks(ctx context.Context, email string) ([]Task, error)

	// CreateTask stores a new task for email and returns it with its
	// assigned ID.
	CreateTask(ctx context.Context, email string, d Draft) (Task, error)

	// UpdateTask replaces the fields of the task with the given ID.
	UpdateTask(ctx context.Context, id, email string, d Draft) error

	// DeleteTask deletes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error
}

// IdentityProvider wraps the external authentication service.
type IdentityProvider interface {
	// SignIn verifies an email/password pair.
	SignIn(ctx context.Context, email, password string) (Identity, error)

	// SignUp creates a new email/password account.
	SignUp(ctx context.Context, email, password string) (Identity, error)

	// UpdateProfile sets the display name of an authenticated identity.
	UpdateProfile(ctx context.Context, id Identity, displayName string) (Identity, error)
}

// Auth error codes reported by identity providers.
const (
	AuthUserNotFound        = "auth/user-not-found"
	AuthWrongPassword       = "auth/wrong-password"
	AuthInvalidEmail        = "auth/invalid-email"
	AuthInvalidCredential   = "auth/invalid-credential"
	AuthEmailAlreadyInUse   = "auth/email-already-in-use"
	AuthOperationNotAllowed = "auth/operation-not-allowed"
	AuthWeakPassword        = "auth/weak-password"
	AuthUserDisabled        = "auth/user-disabled"
	AuthTooManyRequests     = "auth/too-many-requests"
	AuthUnknown             = "auth/unknown"
)

// AuthError is an identity provider rejection.
type AuthError struct {
	Code    string
	Message string // raw provider message, for logs
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthCode returns the code of an *AuthError in err's chain, or "".
func AuthCode(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
