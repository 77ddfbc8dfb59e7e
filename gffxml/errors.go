package gffxml

import (
	"errors"
	"fmt"

	"github.com/Liareth/anphillia-tools/gff"
)

var (
	ErrStructural    = errors.New("gffxml: structural error")
	ErrParse         = errors.New("gffxml: parse error")
	ErrDepthExceeded = errors.New("gffxml: nesting depth exceeded")
	ErrInvalidText   = errors.New("gffxml: text not representable in XML")

	// ErrCapacity and ErrUnknownKind are shared with the binary codec so one
	// errors.Is check covers both directions.
	ErrCapacity    = gff.ErrCapacity
	ErrUnknownKind = gff.ErrUnknownKind
)

// Error is returned by every conversion in this package. Path names the
// offending field as a slash separated label path, with list members
// written as [i].
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	return fmt.Sprintf("%s: %v", p, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(path string, sentinel error, format string, args ...any) error {
	return &Error{Path: path, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}

// wrap attaches path to err unless err already carries one.
func wrap(path string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Path: path, Err: err}
}
