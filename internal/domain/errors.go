package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound          = errors.New("domain: not found")
	ErrConflict          = errors.New("domain: conflict")
	ErrUnauthorized      = errors.New("domain: unauthorized")
	ErrForbidden         = errors.New("domain: forbidden")
	ErrInvalidResource   = errors.New("domain: invalid resource name")
	ErrInvalidPermission = errors.New("domain: invalid permission level")
	ErrInvalidTransition = errors.New("domain: invalid status transition")
)
