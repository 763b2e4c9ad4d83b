// Package account implements the sign-up, login and logout flows on top of
// an identity provider and the local session store.
package account

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"jot/internal/logging"
	"jot/internal/service"
	"jot/internal/session"
)

// Error is a provider failure with its user-facing message.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var loginMessages = map[string]string{
	service.AuthUserNotFound:      "No user found with this email.",
	service.AuthWrongPassword:     "Incorrect password. Please try again.",
	service.AuthInvalidEmail:      "Invalid email address.",
	service.AuthInvalidCredential: "The supplied auth credential is incorrect or malformed.",
}

const loginFallback = "Login failed. Please try again."

var signUpMessages = map[string]string{
	service.AuthEmailAlreadyInUse:   "This email address is already registered",
	service.AuthInvalidEmail:        "Please enter a valid email address",
	service.AuthOperationNotAllowed: "Email/password accounts are not enabled",
	service.AuthWeakPassword:        "Please enter a stronger password",
}

const signUpFallback = "An error occurred during sign up"

// LoginMessage returns the login screen text for a provider error.
func LoginMessage(err error) string {
	if m, ok := loginMessages[service.AuthCode(err)]; ok {
		return m
	}
	return loginFallback
}

// SignUpMessage returns the sign-up screen text for a provider error.
func SignUpMessage(err error) string {
	if m, ok := signUpMessages[service.AuthCode(err)]; ok {
		return m
	}
	return signUpFallback
}

// UserMessage returns the text to show for an error from this package.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Service runs the account flows.
type Service struct {
	Identity service.IdentityProvider
	Sessions session.Store
	log      *zap.Logger
}

// New creates an account service.
func New(identity service.IdentityProvider, sessions session.Store, log *zap.Logger) *Service {
	return &Service{Identity: identity, Sessions: sessions, log: logging.OrNop(log)}
}

// Login validates the form, signs in and saves the session.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	email = strings.TrimSpace(email)
	if err := ValidateLogin(email, password); err != nil {
		return session.Session{}, err
	}

	id, err := s.Identity.SignIn(ctx, email, password)
	if err != nil {
		s.log.Debug("sign in failed", zap.String("email", email), zap.Error(err))
		return session.Session{}, &Error{Message: LoginMessage(err), Err: err}
	}
	if id.Email == "" {
		id.Email = email
	}

	sess := session.FromIdentity(id)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	s.log.Info("logged in", zap.String("email", sess.Email))
	return sess, nil
}

// SignUp validates the form, creates the account, sets its display name to
// the local part of the email and saves the session. A failed profile
// update is logged and ignored.
func (s *Service) SignUp(ctx context.Context, email, password, confirm string) (session.Session, error) {
	email = strings.TrimSpace(email)
	if err := ValidateSignUp(email, password, confirm); err != nil {
		return session.Session{}, err
	}

	id, err := s.Identity.SignUp(ctx, email, password)
	if err != nil {
		s.log.Debug("sign up failed", zap.String("email", email), zap.Error(err))
		return session.Session{}, &Error{Message: SignUpMessage(err), Err: err}
	}
	if id.Email == "" {
		id.Email = email
	}

	updated, err := s.Identity.UpdateProfile(ctx, id, DisplayNameFor(email))
	if err != nil {
		s.log.Warn("profile update failed", zap.String("email", email), zap.Error(err))
	} else {
		id = updated
	}

	sess := session.FromIdentity(id)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return session.Session{}, err
	}
	s.log.Info("signed up", zap.String("email", sess.Email))
	return sess, nil
}

// Logout clears the session. It reports whether a session existed.
func (s *Service) Logout(ctx context.Context) (bool, error) {
	_, err := s.Sessions.Load(ctx)
	existed := err == nil
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		// An unreadable session file is still cleared.
		existed = true
	}
	if err := s.Sessions.Clear(ctx); err != nil {
		return existed, err
	}
	s.log.Debug("logged out", zap.Bool("had_session", existed))
	return existed, nil
}

// DisplayNameFor returns the part of email before the '@'.
func DisplayNameFor(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
