package gridfilter

import (
	"context"

	"github.com/hugr-lab/gridfilter/auth"
)

// Authenticator validates bearer tokens and returns user identity.
// This is re-exported from the auth package for convenience.
type Authenticator = auth.Authenticator

// BearerAuth creates an Authenticator from a validation function.
// This is the simplest way to add authentication to the compile service.
//
// Example:
//
//	auth := gridfilter.BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", gridfilter.ErrUnauthorized
//	    }
//	    return user.ID, nil
//	})
//
//	config := gridfilter.Config{
//	    Catalog: catalog,
//	    Auth:    auth,
//	}
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return auth.BearerAuth(validateFunc)
}

// StaticTokens creates an Authenticator from a fixed token to identity map.
func StaticTokens(tokens map[string]string) Authenticator {
	return auth.StaticTokens(tokens)
}

// NoAuth returns an Authenticator that allows all requests without validation.
// Useful for development and testing. DO NOT use in production.
func NoAuth() Authenticator {
	return auth.NoAuth()
}

// IdentityFromContext retrieves the authenticated user identity from context.
// Returns empty string if no identity is set (unauthenticated request).
// Entity authorizers use it to decide which entities a caller may filter.
func IdentityFromContext(ctx context.Context) string {
	return auth.IdentityFromContext(ctx)
}
