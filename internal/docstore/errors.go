package docstore

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrQuotaExceeded is the store's transient rate-limit signal.
	ErrQuotaExceeded = errors.New("store quota exceeded")
	// ErrIndexMissing is returned when a query needs a composite index that does not exist.
	ErrIndexMissing = errors.New("store index missing")
)

// Classify maps a gRPC status returned by the Firestore SDK onto the
// package sentinels, keeping the original error in the chain.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrIndexMissing) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %w", ErrIndexMissing, err)
	}
	return err
}

// IsNotFound reports whether err signals a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsQuotaExceeded reports whether err is the transient quota signal.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsIndexMissing reports whether err signals a missing composite index.
func IsIndexMissing(err error) bool {
	return errors.Is(err, ErrIndexMissing)
}
