// Package firebase implements service.IdentityProvider using the Identity
// Toolkit REST API that backs Firebase email/password authentication.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"jot/internal/config"
	"jot/internal/logging"
	"jot/internal/service"
)

// Client implements service.IdentityProvider.
type Client struct {
	svc     *identitytoolkit.Service
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// New creates a client authenticated with the project's Web API key.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Client, error) {
	if err := cfg.RequireIdentity(); err != nil {
		return nil, err
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.FirebaseAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}
	return newClient(svc, cfg.Timeout, log), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint
// (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string, log *zap.Logger) (*Client, error) {
	svc, err := identitytoolkit.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, err
	}
	return newClient(svc, config.DefaultTimeout, log), nil
}

func newClient(svc *identitytoolkit.Service, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{svc: svc, timeout: timeout, log: logging.OrNop(log), now: time.Now}
}

// SignIn verifies an email/password pair.
func (c *Client) SignIn(ctx context.Context, email, password string) (service.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return service.Identity{}, c.wrapError("sign in", err)
	}

	c.log.Debug("signed in", zap.String("email", resp.Email), zap.String("local_id", resp.LocalId))
	return service.Identity{
		LocalID:      resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       c.expiry(resp.ExpiresIn),
	}, nil
}

// SignUp creates a new email/password account.
func (c *Client) SignUp(ctx context.Context, email, password string) (service.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return service.Identity{}, c.wrapError("sign up", err)
	}

	c.log.Debug("signed up", zap.String("email", resp.Email), zap.String("local_id", resp.LocalId))
	return service.Identity{
		LocalID:      resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       c.expiry(resp.ExpiresIn),
	}, nil
}

// UpdateProfile sets the display name of id and returns the refreshed
// identity.
func (c *Client) UpdateProfile(ctx context.Context, id service.Identity, displayName string) (service.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.SetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		IdToken:           id.IDToken,
		DisplayName:       displayName,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return id, c.wrapError("update profile", err)
	}

	updated := id
	updated.DisplayName = resp.DisplayName
	if resp.IdToken != "" {
		updated.IDToken = resp.IdToken
		updated.RefreshToken = resp.RefreshToken
		updated.Expiry = c.expiry(resp.ExpiresIn)
	}
	c.log.Debug("profile updated", zap.String("email", id.Email), zap.String("display_name", updated.DisplayName))
	return updated, nil
}

func (c *Client) expiry(expiresIn int64) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return c.now().Add(time.Duration(expiresIn) * time.Second)
}

// providerCodes maps Identity Toolkit error messages to auth codes.
var providerCodes = map[string]string{
	"EMAIL_NOT_FOUND":             service.AuthUserNotFound,
	"INVALID_PASSWORD":            service.AuthWrongPassword,
	"INVALID_EMAIL":               service.AuthInvalidEmail,
	"INVALID_LOGIN_CREDENTIALS":   service.AuthInvalidCredential,
	"INVALID_IDP_RESPONSE":        service.AuthInvalidCredential,
	"EMAIL_EXISTS":                service.AuthEmailAlreadyInUse,
	"OPERATION_NOT_ALLOWED":       service.AuthOperationNotAllowed,
	"PASSWORD_LOGIN_DISABLED":     service.AuthOperationNotAllowed,
	"WEAK_PASSWORD":               service.AuthWeakPassword,
	"USER_DISABLED":               service.AuthUserDisabled,
	"TOO_MANY_ATTEMPTS_TRY_LATER": service.AuthTooManyRequests,
}

// wrapError turns provider failures into *service.AuthError. Transport
// failures are returned wrapped but untyped.
func (c *Client) wrapError(op string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: request timed out", op)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := gerr.Message
	if msg == "" && len(gerr.Errors) > 0 {
		msg = gerr.Errors[0].Message
	}
	code := ProviderCode(msg)
	c.log.Debug("identity provider rejected request",
		zap.String("op", op), zap.Int("status", gerr.Code), zap.String("message", msg), zap.String("code", code))
	return &service.AuthError{Code: code, Message: msg, Err: err}
}

// ProviderCode maps a raw provider message such as
// "WEAK_PASSWORD : Password should be at least 6 characters" to an auth code.
func ProviderCode(msg string) string {
	key := strings.TrimSpace(msg)
	if i := strings.IndexAny(key, " :"); i >= 0 {
		key = key[:i]
	}
	if code, ok := providerCodes[key]; ok {
		return code
	}
	return service.AuthUnknown
}
