package contact

import "errors"

// Sentinel errors for the contact service layer.
var (
	ErrNotFound       = errors.New("contact not found")
	ErrCompanyMissing = errors.New("company is required")
	ErrDuplicateEmail = errors.New("a contact with this email already exists")
)
