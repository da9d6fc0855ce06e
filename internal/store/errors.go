package store

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable marks transient store failures. After a timeout the
	// effects of an issued write are unknown; callers must re-read before
	// retrying anything non-idempotent.
	ErrUnavailable = errors.New("record store unavailable")
)

// Classify maps Firestore client errors to store sentinels so callers can
// branch without importing gRPC status codes.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return ErrUnavailable
	}
	return err
}
