// Package convert moves GFF documents and talk tables between binary files
// and XML files.
//
// The direction is chosen by file extension: ".xml" is XML, anything else
// is binary. The format is sniffed from the data: binary input starting
// with "TLK " is a talk table, and XML input is routed by its root element.
// A destination ending in ".?" takes the lower-cased type of the document
// instead, so "nw_orc.?" becomes "nw_orc.utc" and "dialog.?" becomes
// "dialog.tlk".
package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/Liareth/anphillia-tools/gff"
	"github.com/Liareth/anphillia-tools/gffxml"
	"github.com/Liareth/anphillia-tools/internal/fsutil"
	"github.com/Liareth/anphillia-tools/tlk"
	"github.com/Liareth/anphillia-tools/tlkxml"
)

// TypeExt is the destination extension replaced by the document type.
const TypeExt = ".?"

// tlkExt is the output extension of talk tables.
const tlkExt = "tlk"

var readFile = os.ReadFile

// document holds exactly one of a GFF document or a talk table.
type document struct {
	gff *gff.Document
	tlk *tlk.Table
}

func (d document) ext() string {
	if d.tlk != nil {
		return tlkExt
	}
	return d.gff.OutputExt()
}

// IsXML reports whether path names an XML file.
func IsXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// OutputExt returns the extension a ".?" destination takes for data without
// converting it: the lower-cased GFF type or "tlk".
func OutputExt(data []byte, xml bool) (string, error) {
	if !xml {
		if tlk.HasMagic(data) {
			return tlkExt, nil
		}
		info, err := gff.ReadInfo(bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		return info.OutputExt(), nil
	}
	if isTalkTable(data) {
		return tlkExt, nil
	}
	fileType, err := gffxml.ReadType(data)
	if err != nil {
		return "", err
	}
	return (&gff.Document{FileType: fileType}).OutputExt(), nil
}

// ToXML converts a binary GFF file or talk table to XML. It also returns
// the extension of the document type.
func ToXML(data []byte, opts ...Option) ([]byte, string, error) {
	return convert(data, false, true, opts)
}

// FromXML converts XML to a binary GFF file or talk table. It also returns
// the extension of the document type.
func FromXML(data []byte, opts ...Option) ([]byte, string, error) {
	return convert(data, true, false, opts)
}

func convert(data []byte, fromXML, toXML bool, opts []Option) ([]byte, string, error) {
	c := newConfig(opts)
	doc, err := c.read(data, fromXML)
	if err != nil {
		return nil, "", err
	}
	out, err := c.write(doc, toXML)
	if err != nil {
		return nil, "", err
	}
	return out, doc.ext(), nil
}

// File converts src into dst and returns the path written. On failure no
// file is left at dst.
func File(src, dst string, opts ...Option) (string, error) {
	c := newConfig(opts)
	data, err := readFile(src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	doc, err := c.read(data, IsXML(src))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}
	if strings.HasSuffix(dst, TypeExt) {
		dst = strings.TrimSuffix(dst, TypeExt) + "." + doc.ext()
	}
	c.logger.Info("converting", "src", src, "dst", dst)

	out, err := c.write(doc, IsXML(dst))
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := fsutil.WriteFile(dst, out, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	return dst, nil
}

// isTalkTable reports whether XML text has a <Tlk> root. Text that does
// not parse is left to the GFF reader, which reports the error.
func isTalkTable(data []byte) bool {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return false
	}
	root := x.Root()
	return root != nil && root.Tag == tlkxml.RootTag
}

func (c config) read(data []byte, xml bool) (document, error) {
	if xml {
		x := etree.NewDocument()
		if err := x.ReadFromBytes(data); err != nil {
			// Reparse for the reader's own error and path.
			doc, err := gffxml.Unmarshal(data, c.xmlOptions()...)
			return document{gff: doc}, err
		}
		if root := x.Root(); root != nil && root.Tag == tlkxml.RootTag {
			t, err := tlkxml.Import(x, c.tlkXMLOptions()...)
			return document{tlk: t}, err
		}
		doc, err := gffxml.Import(x, c.xmlOptions()...)
		return document{gff: doc}, err
	}
	if tlk.HasMagic(data) {
		t, err := tlk.Decode(bytes.NewReader(data), c.tlkOptions()...)
		return document{tlk: t}, err
	}
	doc, err := gff.Decode(bytes.NewReader(data), c.readOptions()...)
	return document{gff: doc}, err
}

func (c config) write(doc document, xml bool) ([]byte, error) {
	if doc.tlk != nil {
		if xml {
			return tlkxml.Marshal(doc.tlk, c.tlkXMLOptions()...)
		}
		var buf bytes.Buffer
		if err := tlk.Encode(&buf, doc.tlk, c.tlkOptions()...); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if xml {
		return gffxml.Marshal(doc.gff, c.xmlOptions()...)
	}
	var buf bytes.Buffer
	if err := gff.Encode(&buf, doc.gff, c.writeOptions()...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
