package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jot/internal/account"
	"jot/internal/service"
	"jot/internal/session"
	"jot/internal/testutil"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		field    string
		want     string
	}{
		{"empty email", "", "pw", account.FieldEmail, "Email is required"},
		{"blank email", "   ", "", account.FieldEmail, "Email is required"},
		{"bad email", "ann@example", "pw", account.FieldEmail, "Enter a valid email"},
		{"space in email", "ann smith@example.com", "pw", account.FieldEmail, "Enter a valid email"},
		{"empty password", "ann@example.com", "", account.FieldPassword, "Password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := account.ValidateLogin(tt.email, tt.password)
			var ve *account.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, map[string]string{tt.field: tt.want}, ve.Fields)
		})
	}

	assert.NoError(t, account.ValidateLogin("ann@example.com", "x"))
}

func TestValidateSignUp(t *testing.T) {
	err := account.ValidateSignUp("", "", "")
	var ve *account.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{
		account.FieldEmail:    "Email is required",
		account.FieldPassword: "Password is required",
		account.FieldConfirm:  "Please confirm your password",
	}, ve.Fields)
	assert.Equal(t, "Email is required; Password is required; Please confirm your password", err.Error())

	err = account.ValidateSignUp("nope", "short", "other")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{
		account.FieldEmail:    "Please enter a valid email",
		account.FieldPassword: "Password must be at least 8 characters",
		account.FieldConfirm:  "Passwords do not match",
	}, ve.Fields)

	assert.NoError(t, account.ValidateSignUp("ann@example.com", "12345678", "12345678"))
}

func TestValidateSignUp_CountsCharacters(t *testing.T) {
	// Four two-byte characters are eight bytes but only four characters.
	err := account.ValidateSignUp("ann@example.com", "éééé", "éééé")
	var ve *account.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Password must be at least 8 characters", ve.Fields[account.FieldPassword])

	assert.NoError(t, account.ValidateSignUp("ann@example.com", "éééééééé", "éééééééé"))
}

func TestLogin(t *testing.T) {
	idp := testutil.NewFakeIdentity()
	idp.AddUser("ann@example.com", "hunter22", "ann")
	store := session.NewMemoryStore(nil)
	svc := account.New(idp, store, nil)

	sess, err := svc.Login(context.Background(), " ann@example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", sess.Email)
	assert.Equal(t, "ann", sess.DisplayName)
	require.NotNil(t, sess.Token)
	assert.Equal(t, "token-ann@example.com", sess.Token.AccessToken)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sess, stored)
}

func TestLogin_ValidationSkipsProvider(t *testing.T) {
	idp := testutil.NewFakeIdentity()
	store := session.NewMemoryStore(nil)
	svc := account.New(idp, store, nil)

	_, err := svc.Login(context.Background(), "not-an-email", "pw")
	var ve *account.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, idp.Calls)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestLogin_ProviderErrors(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{service.AuthUserNotFound, "No user found with this email."},
		{service.AuthWrongPassword, "Incorrect password. Please try again."},
		{service.AuthInvalidEmail, "Invalid email address."},
		{service.AuthInvalidCredential, "The supplied auth credential is incorrect or malformed."},
		{service.AuthTooManyRequests, "Login failed. Please try again."},
		{service.AuthUnknown, "Login failed. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			idp := testutil.NewFakeIdentity()
			idp.SignInErr = &service.AuthError{Code: tt.code}
			store := session.NewMemoryStore(nil)
			svc := account.New(idp, store, nil)

			_, err := svc.Login(context.Background(), "ann@example.com", "pw")
			require.Error(t, err)
			assert.Equal(t, tt.want, account.UserMessage(err))
			assert.Equal(t, tt.code, service.AuthCode(err))

			_, err = store.Load(context.Background())
			assert.ErrorIs(t, err, session.ErrNoSession)
		})
	}
}

func TestLogin_TransportErrorUsesFallback(t *testing.T) {
	idp := testutil.NewFakeIdentity()
	idp.SignInErr = errors.New("dial tcp: connection refused")
	svc := account.New(idp, session.NewMemoryStore(nil), nil)

	_, err := svc.Login(context.Background(), "ann@example.com", "pw")
	assert.Equal(t, "Login failed. Please try again.", account.UserMessage(err))
}

func TestSignUp(t *testing.T) {
	idp := testutil.NewFakeIdentity()
	store := session.NewMemoryStore(nil)
	svc := account.New(idp, store, nil)

	sess, err := svc.SignUp(context.Background(), "bob@example.com", "longenough", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", sess.Email)
	assert.Equal(t, "bob", sess.DisplayName)
	assert.Equal(t, "bob", idp.DisplayName("bob@example.com"))
	assert.Equal(t, []string{"signup", "update_profile"}, idp.Calls)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", stored.Email)
}

func TestSignUp_ProfileFailureIsNotFatal(t *testing.T) {
	idp := testutil.NewFakeIdentity()
	idp.UpdateProfileErr = errors.New("boom")
	store := session.NewMemoryStore(nil)
	svc := account.New(idp, store, nil)

	sess, err := svc.SignUp(context.Background(), "bob@example.com", "longenough", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", sess.Email)
	assert.Empty(t, sess.DisplayName)
}

func TestSignUp_ProviderErrors(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{service.AuthEmailAlreadyInUse, "This email address is already registered"},
		{service.AuthInvalidEmail, "Please enter a valid email address"},
		{service.AuthOperationNotAllowed, "Email/password accounts are not enabled"},
		{service.AuthWeakPassword, "Please enter a stronger password"},
		{service.AuthUnknown, "An error occurred during sign up"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			idp := testutil.NewFakeIdentity()
			idp.SignUpErr = &service.AuthError{Code: tt.code}
			svc := account.New(idp, session.NewMemoryStore(nil), nil)

			_, err := svc.SignUp(context.Background(), "bob@example.com", "longenough", "longenough")
			assert.Equal(t, tt.want, account.UserMessage(err))
			assert.Equal(t, []string{"signup"}, idp.Calls)
		})
	}
}

func TestSignUp_ValidationSkipsProvider(t *testing.T) {
	idp := testutil.NewFakeIdentity()
	svc := account.New(idp, session.NewMemoryStore(nil), nil)

	_, err := svc.SignUp(context.Background(), "bob@example.com", "longenough", "different")
	assert.Equal(t, "Passwords do not match", account.UserMessage(err))
	assert.Empty(t, idp.Calls)
}

func TestLogout(t *testing.T) {
	store := session.NewMemoryStore(&session.Session{Email: "ann@example.com"})
	svc := account.New(testutil.NewFakeIdentity(), store, nil)

	existed, err := svc.Logout(context.Background())
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.Logout(context.Background())
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestDisplayNameFor(t *testing.T) {
	assert.Equal(t, "ann", account.DisplayNameFor("ann@example.com"))
	assert.Equal(t, "plain", account.DisplayNameFor("plain"))
}
