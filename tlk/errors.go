package tlk

import "errors"

var (
	ErrInvalidHeader      = errors.New("tlk: invalid header")
	ErrUnsupportedVersion = errors.New("tlk: unsupported version")
	ErrInvalidPayload     = errors.New("tlk: invalid payload")
	ErrLimitExceeded      = errors.New("tlk: limit exceeded")
	ErrCapacity           = errors.New("tlk: value exceeds field capacity")
	ErrValidation         = errors.New("tlk: validation failed")
)
