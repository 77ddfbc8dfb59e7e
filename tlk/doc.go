// Package tlk implements the BioWare talk table (TLK) format version 3.0.
//
// A talk table maps string references (StrRefs) to localized text and an
// optional voice-over sound. GFF fields such as CExoLocString refer to it by
// StrRef.
//
// # File Format Overview
//
// A TLK file consists of:
//   - A 20-byte header: "TLK ", "V3.0", the language id, the entry count
//     and the offset of the string data
//   - One 40-byte entry per StrRef: flags, a 16-byte sound ResRef, volume
//     and pitch variance, the string offset and size, and the sound length
//   - The string data block
//
// Entries are dense: StrRef n is entry n. Flags say which of the text, the
// sound and the sound length are meaningful.
package tlk
