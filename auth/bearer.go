package auth

import (
	"context"
	"strings"
)

const bearerPrefix = "Bearer "

// bearerAuthenticator wraps a user-provided validation function.
type bearerAuthenticator struct {
	validateFunc func(token string) (identity string, err error)
}

// BearerAuth creates an Authenticator from a validation function.
// This is the simplest way to add authentication.
//
// Example:
//
//	auth := BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", gridfilter.ErrUnauthorized
//	    }
//	    return user.ID, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return &bearerAuthenticator{
		validateFunc: validateFunc,
	}
}

// Authenticate implements Authenticator for bearerAuthenticator.
func (b *bearerAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.validateFunc(token)
}

// StaticTokens returns an Authenticator backed by a token to identity map.
// The map is copied.
func StaticTokens(tokens map[string]string) Authenticator {
	m := make(map[string]string, len(tokens))
	for token, identity := range tokens {
		m[token] = identity
	}
	return BearerAuth(func(token string) (string, error) {
		identity, ok := m[token]
		if !ok {
			return "", ErrUnauthenticated
		}
		return identity, nil
	})
}

// TokenFromAuthorizationHeader extracts the token of a "Bearer <token>" header.
func TokenFromAuthorizationHeader(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if token == "" {
		return "", ErrTokenIsEmpty
	}
	return token, nil
}
