package repository

import "errors"

// Sentinel errors returned by stores.
var (
	ErrNotFound      = errors.New("participant not found")
	ErrClosed        = errors.New("store closed")
	ErrAlreadyClosed = errors.New("store already closed")
)
