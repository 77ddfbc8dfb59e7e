package tlkxml

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/Liareth/anphillia-tools/tlk"
)

// Indent is the number of spaces per nesting level in Marshal output.
const Indent = 2

// Marshal exports t and serializes it as indented XML. Carriage returns are
// written as character references.
func Marshal(t *tlk.Table, opts ...Option) ([]byte, error) {
	x, err := Export(t, opts...)
	if err != nil {
		return nil, err
	}
	x.IndentWithSettings(&etree.IndentSettings{Spaces: Indent, PreserveLeafWhitespace: true})
	x.WriteSettings.CanonicalText = true
	return x.WriteToBytes()
}

// Unmarshal parses XML text and imports it.
func Unmarshal(data []byte, opts ...Option) (*tlk.Table, error) {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return nil, &Error{Err: fmt.Errorf("%w: %v", ErrParse, err)}
	}
	return Import(x, opts...)
}
