// Package auth provides authentication interfaces and helpers for the
// predicate compile service.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAuthHeader is returned when the authorization header is malformed.
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")

	// ErrTokenIsEmpty is returned when the bearer token is missing or empty.
	ErrTokenIsEmpty = errors.New("authorization token is empty")

	// ErrUnauthenticated is returned when authentication fails.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Authenticator validates bearer tokens and returns user identity.
// Implementations MUST be goroutine-safe.
type Authenticator interface {
	// Authenticate validates a bearer token and returns user identity.
	// Returns error if token is invalid or expired.
	// Context allows timeout for auth backend calls.
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// EntityAuthorizer is an optional interface that Authenticator implementations
// can also implement to restrict which entities an identity may filter.
//
// When an Authenticator also implements EntityAuthorizer, AuthorizeEntity is
// called with the authenticated context before every compile request.
// A non-nil error is reported to the client as PermissionDenied.
type EntityAuthorizer interface {
	AuthorizeEntity(ctx context.Context, entity string) error
}

// noAuthenticator is an Authenticator that allows all requests.
type noAuthenticator struct{}

// NoAuth returns an Authenticator that allows all requests.
// Useful for development/testing. DO NOT use in production.
func NoAuth() Authenticator {
	return &noAuthenticator{}
}

// Authenticate implements Authenticator for noAuthenticator.
// Always returns "anonymous" as the identity.
func (n *noAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return "anonymous", nil
}
