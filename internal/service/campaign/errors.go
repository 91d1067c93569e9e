package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound       = errors.New("campaign not found")
	ErrLogNotFound    = errors.New("email log not found")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrMissingName    = errors.New("campaign name is required")
	ErrMissingSubject = errors.New("campaign subject is required")
)
