package domain

import "errors"

// Sentinel errors shared across services and repositories.
// ErrInvalidInput marks range/shape violations the caller should surface as a
// client error; ErrNotFound marks missing records.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)
