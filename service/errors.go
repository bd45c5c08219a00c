package service

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/gridfilter/internal/recovery"
	"github.com/hugr-lab/gridfilter/predicate"
)

// toStatus maps compiler errors to gRPC status errors.
// Errors that already carry a status are returned unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var ce *predicate.CompileError
	switch {
	case errors.As(err, &ce):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrEntityNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrEmptyRequest), errors.Is(err, ErrInvalidState):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, recovery.ErrPanic):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
