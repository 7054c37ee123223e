package service

import (
	"errors"
	"sort"
	"strings"
)

// Common auth errors.
var (
	// ErrInvalidCredentials covers both an unknown login id and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid covers malformed, tampered and expired tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrUnauthenticated is returned when a valid token names no existing user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when a known identity lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError names the offending input fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid input: " + strings.Join(names, ", ")
}
