// Package apperr defines the error kinds the service reports to callers.
// Callers match them with errors.Is; the api layer maps each kind to one
// HTTP status so transport signaling stays uniform.
package apperr

import "errors"

var (
	// ErrValidation marks missing or malformed input; the caller corrects and retries.
	ErrValidation = errors.New("validation error")

	// ErrAuthentication marks a missing, invalid, or expired credential.
	ErrAuthentication = errors.New("authentication required")

	// ErrForbidden marks a valid identity without rights to the target resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks an absent target resource.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation (username or email already taken).
	ErrConflict = errors.New("already exists")

	// ErrIntegrity marks a cascade or referential constraint violation.
	// Correct cascade logic never produces it; it is fatal for the request.
	ErrIntegrity = errors.New("integrity violation")

	// ErrUnavailable marks an unreachable backing store; transient, retryable by the caller.
	ErrUnavailable = errors.New("store unavailable")
)

// Wrap attaches a kind to an underlying cause so both survive errors.Is checks.
func Wrap(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return &wrapped{kind: kind, cause: cause}
}

type wrapped struct {
	kind  error
	cause error
}

func (w *wrapped) Error() string {
	return w.kind.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Is(target error) bool {
	return target == w.kind
}

func (w *wrapped) Unwrap() error {
	return w.cause
}
