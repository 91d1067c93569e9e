package template

import "errors"

// Sentinel errors for the template layer.
var (
	ErrTemplateNotFound = errors.New("template_not_found")
	ErrMissingSubject   = errors.New("template has no subject")
	ErrMissingBody      = errors.New("template has no body")
)
