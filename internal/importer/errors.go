package importer

import "errors"

var (
	// ErrInvalidInput is returned when the caller supplies no usable input.
	ErrInvalidInput = errors.New("input is required")
	// ErrNotFound is returned when the provider has no candidate for the input.
	ErrNotFound = errors.New("no matching place found")
)
