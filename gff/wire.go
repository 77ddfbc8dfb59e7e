package gff

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	headerSize      = 56
	structEntrySize = 12
	fieldEntrySize  = 12
	labelSize       = MaxLabelLen
)

type header struct {
	FileType           [4]byte
	Version            [4]byte
	StructOffset       uint32
	StructCount        uint32
	FieldOffset        uint32
	FieldCount         uint32
	LabelOffset        uint32
	LabelCount         uint32
	FieldDataOffset    uint32
	FieldDataSize      uint32
	FieldIndicesOffset uint32
	FieldIndicesSize   uint32
	ListIndicesOffset  uint32
	ListIndicesSize    uint32
}

// section is an offset/length pair in bytes.
type section struct {
	name   string
	offset uint32
	size   uint64
}

func (h header) sections() []section {
	return []section{
		{"struct array", h.StructOffset, uint64(h.StructCount) * structEntrySize},
		{"field array", h.FieldOffset, uint64(h.FieldCount) * fieldEntrySize},
		{"label array", h.LabelOffset, uint64(h.LabelCount) * labelSize},
		{"field data", h.FieldDataOffset, uint64(h.FieldDataSize)},
		{"field indices", h.FieldIndicesOffset, uint64(h.FieldIndicesSize)},
		{"list indices", h.ListIndicesOffset, uint64(h.ListIndicesSize)},
	}
}

type structEntry struct {
	Type         uint32
	DataOrOffset uint32
	FieldCount   uint32
}

type fieldEntry struct {
	Type         uint32
	LabelIndex   uint32
	DataOrOffset uint32
}

func readHeader(r io.Reader) (header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return header{}, err
	}
	var h header
	copy(h.FileType[:], buf[0:4])
	copy(h.Version[:], buf[4:8])
	u := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off : off+4]) }
	h.StructOffset = u(8)
	h.StructCount = u(12)
	h.FieldOffset = u(16)
	h.FieldCount = u(20)
	h.LabelOffset = u(24)
	h.LabelCount = u(28)
	h.FieldDataOffset = u(32)
	h.FieldDataSize = u(36)
	h.FieldIndicesOffset = u(40)
	h.FieldIndicesSize = u(44)
	h.ListIndicesOffset = u(48)
	h.ListIndicesSize = u(52)
	return h, nil
}

func writeHeader(w io.Writer, h header) error {
	var buf [headerSize]byte
	copy(buf[0:4], h.FileType[:])
	copy(buf[4:8], h.Version[:])
	put := func(off int, v uint32) { binary.LittleEndian.PutUint32(buf[off:off+4], v) }
	put(8, h.StructOffset)
	put(12, h.StructCount)
	put(16, h.FieldOffset)
	put(20, h.FieldCount)
	put(24, h.LabelOffset)
	put(28, h.LabelCount)
	put(32, h.FieldDataOffset)
	put(36, h.FieldDataSize)
	put(40, h.FieldIndicesOffset)
	put(44, h.FieldIndicesSize)
	put(48, h.ListIndicesOffset)
	put(52, h.ListIndicesSize)
	_, err := w.Write(buf[:])
	return err
}

func readStructEntry(b []byte) structEntry {
	return structEntry{
		Type:         binary.LittleEndian.Uint32(b[0:4]),
		DataOrOffset: binary.LittleEndian.Uint32(b[4:8]),
		FieldCount:   binary.LittleEndian.Uint32(b[8:12]),
	}
}

func (e structEntry) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, e.Type)
	b = binary.LittleEndian.AppendUint32(b, e.DataOrOffset)
	return binary.LittleEndian.AppendUint32(b, e.FieldCount)
}

func readFieldEntry(b []byte) fieldEntry {
	return fieldEntry{
		Type:         binary.LittleEndian.Uint32(b[0:4]),
		LabelIndex:   binary.LittleEndian.Uint32(b[4:8]),
		DataOrOffset: binary.LittleEndian.Uint32(b[8:12]),
	}
}

func (e fieldEntry) appendTo(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, e.Type)
	b = binary.LittleEndian.AppendUint32(b, e.LabelIndex)
	return binary.LittleEndian.AppendUint32(b, e.DataOrOffset)
}

// validateHeader checks the version and that every section lies inside a
// file of size n.
func validateHeader(h header, n uint64) error {
	if string(h.Version[:]) != FileVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, h.Version[:])
	}
	for _, s := range h.sections() {
		if uint64(s.offset) < headerSize && s.size > 0 {
			return fmt.Errorf("%w: %s overlaps header", ErrInvalidHeader, s.name)
		}
		if uint64(s.offset)+s.size > n {
			return fmt.Errorf("%w: %s [%d,+%d) beyond end of file (%d bytes)", ErrInvalidHeader, s.name, s.offset, s.size, n)
		}
	}
	if h.StructCount == 0 {
		return fmt.Errorf("%w: no top-level struct", ErrInvalidHeader)
	}
	if h.FieldIndicesSize%4 != 0 || h.ListIndicesSize%4 != 0 {
		return fmt.Errorf("%w: index arrays must be a multiple of 4 bytes", ErrInvalidHeader)
	}
	return nil
}
