package model

import "errors"

// Sentinel errors for malformed input.
var (
	ErrInvalidMonth  = errors.New("invalid month, want YYYY-MM")
	ErrInvalidWindow = errors.New("invalid reporting window")
	ErrInvalidEvent  = errors.New("invalid sample event")
)
