package repository

import "errors"

// Sentinel kinds for timeline store errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrFrozen    = errors.New("store is frozen")
	ErrNotFrozen = errors.New("store is not frozen yet")
)
