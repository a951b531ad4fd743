// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Engine error taxonomy. Components wrap these with fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound means the operation referenced a user id with no profile.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument means the request itself is malformed (bad id, self-like, unknown enum).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidPayment means the confirmed payment is not the premium product. Nothing was mutated.
	ErrInvalidPayment = errors.New("invalid payment")
	// ErrConflictRetry is a transient serialization conflict. It is retried inside the
	// repository layer and only escapes wrapped in ErrStoreUnavailable.
	ErrConflictRetry = errors.New("transient store conflict")
	// ErrStoreUnavailable means the store could not complete the operation.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Map converts repo/infra errors into gRPC-friendly status errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrInvalidPayment):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrConflictRetry):
		return status.Error(codes.Unavailable, "store unavailable, try again later")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in the transport layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
