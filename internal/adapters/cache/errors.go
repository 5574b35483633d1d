package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrClosed = errors.New("cache is closed")
)
