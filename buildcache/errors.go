package buildcache

import "errors"

var (
	ErrInvalidEntry       = errors.New("buildcache: invalid entry")
	ErrLimitExceeded      = errors.New("buildcache: limit exceeded")
	ErrUnknownCompression = errors.New("buildcache: unknown compression")
)
