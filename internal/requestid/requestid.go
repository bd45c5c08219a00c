// Package requestid propagates a request correlation ID through gRPC
// contexts so compile logs can be tied to the calling grid.
package requestid

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Header is the gRPC metadata key for the request ID.
const Header = "x-request-id"

// idKey is the unexported context key for the request ID.
type idKey struct{}

// With returns a new context with the request ID stored.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// FromContext retrieves the request ID if present.
// Returns ("", false) if no request ID is set.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(idKey{}).(string)
	return id, ok
}

// Extract returns the request ID from gRPC incoming metadata.
// Returns empty string if no request ID is present.
func Extract(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	ids := md.Get(Header)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// UnaryServerInterceptor stores the caller's request ID in the handler
// context, generating a random one when the caller sent none.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := Extract(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		return handler(With(ctx, id), req)
	}
}

// Outgoing attaches the request ID of ctx, if any, to outgoing metadata.
func Outgoing(ctx context.Context) context.Context {
	id, ok := FromContext(ctx)
	if !ok || id == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, Header, id)
}
