package coursechat

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")

	// ErrDuplicateTool indicates a registration under a name already taken.
	ErrDuplicateTool = errors.New("tool already registered")
)
