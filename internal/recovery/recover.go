// Package recovery converts panics in compile calls and user-provided catalog
// implementations into errors, so a faulty accessor cannot crash the server.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrPanic marks errors produced from a recovered panic.
var ErrPanic = errors.New("panic recovered")

// RecoverToValue wraps a function that returns a value and error.
// If the function panics, returns zero value and an error wrapping ErrPanic.
//
// Example:
//
//	entity, err := recovery.RecoverToValue(logger, "Entity", func() (catalog.Entity, error) {
//	    return cat.Entity(ctx, name)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(logger, operation, r)

			var zero T
			result = zero
			err = fmt.Errorf("%w: %s: %v", ErrPanic, operation, r)
		}
	}()

	return fn()
}

// UnaryServerInterceptor converts handler panics into codes.Internal.
func UnaryServerInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logPanic(logger, info.FullMethod, r)
				resp = nil
				err = status.Errorf(codes.Internal, "%s panicked: %v", info.FullMethod, r)
			}
		}()
		return handler(ctx, req)
	}
}

func logPanic(logger *slog.Logger, operation string, r any) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(debug.Stack()),
	)
}
