package gffxml

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/Liareth/anphillia-tools/gff"
)

// Indent is the number of spaces per nesting level in Marshal output.
const Indent = 2

// Marshal exports doc and serializes it as indented XML. Carriage returns
// in text are written as character references so they survive end of line
// normalization on the way back in.
func Marshal(doc *gff.Document, opts ...Option) ([]byte, error) {
	x, err := Export(doc, opts...)
	if err != nil {
		return nil, err
	}
	x.IndentWithSettings(&etree.IndentSettings{Spaces: Indent, PreserveLeafWhitespace: true})
	x.WriteSettings.CanonicalText = true
	return x.WriteToBytes()
}

// Unmarshal parses XML text and imports it.
func Unmarshal(data []byte, opts ...Option) (*gff.Document, error) {
	x, err := parse(data)
	if err != nil {
		return nil, err
	}
	return Import(x, opts...)
}

// ReadType returns the 4-character file type named by the root element of
// XML text, without importing the fields.
func ReadType(data []byte) (string, error) {
	x, err := parse(data)
	if err != nil {
		return "", err
	}
	_, fileType, err := checkRoot(x)
	return fileType, err
}

func parse(data []byte) (*etree.Document, error) {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return nil, &Error{Err: fmt.Errorf("%w: %v", ErrParse, err)}
	}
	return x, nil
}
