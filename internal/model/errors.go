package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Backend lookups
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Content errors, both matching ErrNotFound
	ErrPostNotFound     = fmt.Errorf("post %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)

	// Form errors
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrPasswordUnchanged = errors.New("new password must differ from the current password")
)
