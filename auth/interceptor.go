package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// UnaryServerInterceptor creates a gRPC unary interceptor for authentication.
// Validates bearer tokens and propagates identity via context.
// If no authenticator is provided, requests pass through without auth.
func UnaryServerInterceptor(authenticator Authenticator) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if authenticator == nil {
			return handler(ctx, req)
		}

		token, err := ExtractToken(ctx)
		if err != nil {
			return nil, err
		}

		ctx, err = ValidateToken(ctx, token, authenticator)
		if err != nil {
			return nil, err
		}

		return handler(ctx, req)
	}
}

// tokenCredentials attaches a bearer token to every client call.
type tokenCredentials struct {
	token      string
	requireTLS bool
}

// BearerToken returns per-RPC credentials sending "authorization: Bearer <token>".
// Set requireTLS to false only for loopback or test connections.
func BearerToken(token string, requireTLS bool) credentials.PerRPCCredentials {
	return tokenCredentials{token: token, requireTLS: requireTLS}
}

// GetRequestMetadata implements credentials.PerRPCCredentials.
func (c tokenCredentials) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": bearerPrefix + c.token}, nil
}

// RequireTransportSecurity implements credentials.PerRPCCredentials.
func (c tokenCredentials) RequireTransportSecurity() bool {
	return c.requireTLS
}
