package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrEmptyCatalog       = errors.New("oil catalog is empty")
	ErrStorage            = errors.New("storage unavailable")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
