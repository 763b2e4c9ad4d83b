package account

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field names used in ValidationError.Fields.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError holds per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	order := []string{FieldEmail, FieldPassword, FieldConfirm}
	var msgs []string
	seen := make(map[string]bool)
	for _, k := range order {
		if m, ok := e.Fields[k]; ok {
			msgs = append(msgs, m)
			seen[k] = true
		}
	}
	var rest []string
	for k := range e.Fields {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateLogin checks the login form. Only the first failing field is
// reported.
func ValidateLogin(email, password string) error {
	switch {
	case strings.TrimSpace(email) == "":
		return &ValidationError{Fields: map[string]string{FieldEmail: "Email is required"}}
	case !ValidEmail(email):
		return &ValidationError{Fields: map[string]string{FieldEmail: "Enter a valid email"}}
	case password == "":
		return &ValidationError{Fields: map[string]string{FieldPassword: "Password is required"}}
	}
	return nil
}

// ValidateSignUp checks the sign-up form and reports every failing field.
func ValidateSignUp(email, password, confirm string) error {
	fields := make(map[string]string)

	switch {
	case strings.TrimSpace(email) == "":
		fields[FieldEmail] = "Email is required"
	case !ValidEmail(email):
		fields[FieldEmail] = "Please enter a valid email"
	}

	switch {
	case password == "":
		fields[FieldPassword] = "Password is required"
	case utf8.RuneCountInString(password) < MinPasswordLength:
		fields[FieldPassword] = "Password must be at least 8 characters"
	}

	switch {
	case confirm == "":
		fields[FieldConfirm] = "Please confirm your password"
	case confirm != password:
		fields[FieldConfirm] = "Passwords do not match"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
