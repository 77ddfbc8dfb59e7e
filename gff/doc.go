// Package gff implements the BioWare Generic File Format (GFF) version 3.2.
//
// GFF is a self-describing binary tree of labelled, typed fields used by
// Neverwinter Nights for creature, item, area, dialogue and module records.
// A file holds one top-level struct; structs hold fields and fields may hold
// nested structs or lists of structs.
//
// # File Format Overview
//
// A GFF file consists of:
//   - A 56-byte header with the 4-character file type ("UTC ", "IFO ", ...),
//     the version "V3.2" and six offset/size pairs
//   - A struct array of 12-byte entries (type, data or offset, field count)
//   - A field array of 12-byte entries (type, label index, data or offset)
//   - A label array of 16-byte, NUL padded labels
//   - A field data block for values that do not fit in 4 bytes
//   - Field index and list index arrays of uint32 values
//
// # Basic Usage
//
// To read a file:
//
//	f, _ := os.Open("nw_orc.utc")
//	defer f.Close()
//	doc, err := gff.Decode(f)
//
// To build and write a file:
//
//	doc := gff.NewDocument("utc")
//	doc.Root.Set("Tag", gff.String("orc"))
//	doc.Root.Set("HitPoints", gff.Short(12))
//	err := gff.Encode(w, doc)
//
// Field values form a closed set of types, one per field kind; a type switch
// over Value with the sixteen cases is exhaustive.
//
// # Text Encoding
//
// Strings are kept as raw bytes by default. Use [WithReadCharset] and
// [WithWriteCharset] with a code page from golang.org/x/text/encoding/charmap
// to hold UTF-8 in memory while reading and writing legacy encoded files.
//
// # Security Considerations
//
// Decode bounds every offset, count and nesting level by configurable
// [Limits] and rejects struct graphs that are cyclic or shared.
package gff
