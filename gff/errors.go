package gff

import "errors"

var (
	ErrInvalidHeader      = errors.New("gff: invalid header")
	ErrUnsupportedVersion = errors.New("gff: unsupported version")
	ErrInvalidPayload     = errors.New("gff: invalid payload")
	ErrLimitExceeded      = errors.New("gff: limit exceeded")
	ErrValidation         = errors.New("gff: validation failed")
	ErrCapacity           = errors.New("gff: value exceeds field capacity")
	ErrUnknownKind        = errors.New("gff: unknown field kind")
)
