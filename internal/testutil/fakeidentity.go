package testutil

import (
	"context"
	"sync"
	"time"

	"jot/internal/service"
)

// FakeIdentity is an in-memory implementation of service.IdentityProvider
// for testing. It mirrors the provider's error codes.
type FakeIdentity struct {
	mu    sync.Mutex
	users map[string]fakeUser

	// Error injection for testing
	SignInErr        error
	SignUpErr        error
	UpdateProfileErr error

	// Calls records the operations performed, in order.
	Calls []string
}

type fakeUser struct {
	password    string
	displayName string
}

// NewFakeIdentity creates a provider with no accounts.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{users: make(map[string]fakeUser)}
}

// AddUser registers an account.
func (f *FakeIdentity) AddUser(email, password, displayName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{password: password, displayName: displayName}
}

// DisplayName returns the stored display name of email.
func (f *FakeIdentity) DisplayName(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[email].displayName
}

func (f *FakeIdentity) record(op string) {
	f.mu.Lock()
	f.Calls = append(f.Calls, op)
	f.mu.Unlock()
}

func (f *FakeIdentity) identity(email string, u fakeUser) service.Identity {
	return service.Identity{
		LocalID:      "uid-" + email,
		Email:        email,
		DisplayName:  u.displayName,
		IDToken:      "token-" + email,
		RefreshToken: "refresh-" + email,
		Expiry:       time.Now().Add(time.Hour),
	}
}

// SignIn implements service.IdentityProvider.
func (f *FakeIdentity) SignIn(ctx context.Context, email, password string) (service.Identity, error) {
	f.record("signin")
	if f.SignInErr != nil {
		return service.Identity{}, f.SignInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[email]
	if !ok {
		return service.Identity{}, &service.AuthError{Code: service.AuthUserNotFound}
	}
	if u.password != password {
		return service.Identity{}, &service.AuthError{Code: service.AuthWrongPassword}
	}
	return f.identity(email, u), nil
}

// SignUp implements service.IdentityProvider.
func (f *FakeIdentity) SignUp(ctx context.Context, email, password string) (service.Identity, error) {
	f.record("signup")
	if f.SignUpErr != nil {
		return service.Identity{}, f.SignUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[email]; ok {
		return service.Identity{}, &service.AuthError{Code: service.AuthEmailAlreadyInUse}
	}
	if len(password) < 6 {
		return service.Identity{}, &service.AuthError{Code: service.AuthWeakPassword}
	}
	u := fakeUser{password: password}
	f.users[email] = u
	return f.identity(email, u), nil
}

// UpdateProfile implements service.IdentityProvider.
func (f *FakeIdentity) UpdateProfile(ctx context.Context, id service.Identity, displayName string) (service.Identity, error) {
	f.record("update_profile")
	if f.UpdateProfileErr != nil {
		return id, f.UpdateProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id.Email]
	if !ok {
		return id, &service.AuthError{Code: service.AuthUserNotFound}
	}
	u.displayName = displayName
	f.users[id.Email] = u
	id.DisplayName = displayName
	return id, nil
}
