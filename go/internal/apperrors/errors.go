package apperrors

import "errors"

// Sentinel errors for the failure taxonomy surfaced to API callers.
// Wrap with fmt.Errorf("context: %w", Err...) and classify with errors.Is.
var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthenticated marks a missing or unknown identity.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound marks an absent record or one not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks a timer operation illegal in the current state.
	ErrInvalidTransition = errors.New("invalid timer transition")

	// ErrInternal masks store-layer failures; details go to the log, not the caller.
	ErrInternal = errors.New("internal error")
)
