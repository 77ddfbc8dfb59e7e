package tlkxml

import (
	"errors"
	"fmt"

	"github.com/Liareth/anphillia-tools/tlk"
)

var (
	ErrStructural  = errors.New("tlkxml: structural error")
	ErrParse       = errors.New("tlkxml: parse error")
	ErrInvalidText = errors.New("tlkxml: text not representable in XML")

	// ErrCapacity is shared with the binary codec.
	ErrCapacity = tlk.ErrCapacity
)

// Error carries the element path of a conversion failure, for example
// "/Entry[12]/SoundLength" where 12 is the StrRef.
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

func entryPath(ref uint32) string {
	return fmt.Sprintf("/Entry[%d]", ref)
}
