package gff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding"
)

// Function variables for testing injection.
var readAll = io.ReadAll

// Decode reads a GFF V3.2 document from r.
//
// The whole file is read into memory, bounded by Limits.MaxFileSize, since
// the format is offset based. Decoding then:
//  1. Validates the 56-byte header and the bounds of every section
//  2. Reads the label table
//  3. Walks the struct graph from struct 0, the top-level struct
//
// Every struct may be referenced at most once, so cyclic or shared struct
// references are rejected with ErrInvalidPayload. Fields are appended in
// on-disk order. A CExoLocString whose stored size counter does not match
// its content is rejected.
//
// Decode returns ErrInvalidHeader or ErrUnsupportedVersion for a malformed
// header, ErrInvalidPayload for out-of-range offsets and indices,
// ErrLimitExceeded when a limit is exceeded and ErrCapacity for a ResRef
// longer than MaxResRefLen.
func Decode(r io.Reader, opts ...ReadOption) (*Document, error) {
	cfg := readConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	data, err := readAll(io.LimitReader(r, int64(cfg.limits.MaxFileSize)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > cfg.limits.MaxFileSize {
		return nil, fmt.Errorf("%w: file larger than %d bytes", ErrLimitExceeded, cfg.limits.MaxFileSize)
	}

	h, err := readHeader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if err := validateHeader(h, uint64(len(data))); err != nil {
		return nil, err
	}
	switch {
	case h.StructCount > cfg.limits.MaxStructs:
		return nil, fmt.Errorf("%w: %d structs", ErrLimitExceeded, h.StructCount)
	case h.FieldCount > cfg.limits.MaxFields:
		return nil, fmt.Errorf("%w: %d fields", ErrLimitExceeded, h.FieldCount)
	case h.LabelCount > cfg.limits.MaxLabels:
		return nil, fmt.Errorf("%w: %d labels", ErrLimitExceeded, h.LabelCount)
	}

	d := &decoder{
		cfg:          cfg,
		structs:      data[h.StructOffset : uint64(h.StructOffset)+uint64(h.StructCount)*structEntrySize],
		fields:       data[h.FieldOffset : uint64(h.FieldOffset)+uint64(h.FieldCount)*fieldEntrySize],
		fieldData:    data[h.FieldDataOffset : uint64(h.FieldDataOffset)+uint64(h.FieldDataSize)],
		fieldIndices: data[h.FieldIndicesOffset : uint64(h.FieldIndicesOffset)+uint64(h.FieldIndicesSize)],
		listIndices:  data[h.ListIndicesOffset : uint64(h.ListIndicesOffset)+uint64(h.ListIndicesSize)],
		visited:      make([]bool, h.StructCount),
	}
	d.labels = make([]string, h.LabelCount)
	for i := range d.labels {
		off := uint64(h.LabelOffset) + uint64(i)*labelSize
		raw := data[off : off+labelSize]
		if n := bytes.IndexByte(raw, 0); n >= 0 {
			raw = raw[:n]
		}
		d.labels[i] = string(raw)
	}

	root, err := d.readStruct(0, 0)
	if err != nil {
		return nil, err
	}
	return &Document{FileType: string(h.FileType[:]), Root: root}, nil
}

type decoder struct {
	cfg          readConfig
	structs      []byte
	fields       []byte
	labels       []string
	fieldData    []byte
	fieldIndices []byte
	listIndices  []byte
	visited      []bool
}

func (d *decoder) readStruct(idx uint32, depth int) (*Struct, error) {
	if depth > d.cfg.limits.MaxDepth {
		return nil, fmt.Errorf("%w: struct nesting deeper than %d", ErrLimitExceeded, d.cfg.limits.MaxDepth)
	}
	if uint64(idx) >= uint64(len(d.visited)) {
		return nil, fmt.Errorf("%w: struct index %d out of range", ErrInvalidPayload, idx)
	}
	if d.visited[idx] {
		return nil, fmt.Errorf("%w: struct %d referenced more than once", ErrInvalidPayload, idx)
	}
	d.visited[idx] = true

	off := uint64(idx) * structEntrySize
	e := readStructEntry(d.structs[off : off+structEntrySize])
	s := &Struct{ID: e.Type}

	switch {
	case e.FieldCount == 0:
	case e.FieldCount == 1:
		if err := d.readField(s, e.DataOrOffset, depth); err != nil {
			return nil, err
		}
	default:
		end := uint64(e.DataOrOffset) + uint64(e.FieldCount)*4
		if end > uint64(len(d.fieldIndices)) {
			return nil, fmt.Errorf("%w: struct %d field indices out of range", ErrInvalidPayload, idx)
		}
		for i := uint64(e.DataOrOffset); i < end; i += 4 {
			if err := d.readField(s, binary.LittleEndian.Uint32(d.fieldIndices[i:i+4]), depth); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (d *decoder) readField(s *Struct, idx uint32, depth int) error {
	off := uint64(idx) * fieldEntrySize
	if off+fieldEntrySize > uint64(len(d.fields)) {
		return fmt.Errorf("%w: field index %d out of range", ErrInvalidPayload, idx)
	}
	e := readFieldEntry(d.fields[off : off+fieldEntrySize])
	if uint64(e.LabelIndex) >= uint64(len(d.labels)) {
		return fmt.Errorf("%w: field %d label index %d out of range", ErrInvalidPayload, idx, e.LabelIndex)
	}
	label := d.labels[e.LabelIndex]
	v, err := d.readValue(Kind(e.Type), e.DataOrOffset, depth)
	if err != nil {
		return fmt.Errorf("field %q: %w", label, err)
	}
	s.Set(label, v)
	return nil
}

func (d *decoder) readValue(k Kind, slot uint32, depth int) (Value, error) {
	data := uint64(slot)
	switch k {
	case KindByte:
		return Byte(slot), nil
	case KindChar:
		return Char(int8(uint8(slot))), nil
	case KindWord:
		return Word(slot), nil
	case KindShort:
		return Short(int16(uint16(slot))), nil
	case KindDWord:
		return DWord(slot), nil
	case KindInt:
		return Int(int32(slot)), nil
	case KindFloat:
		return Float(math.Float32frombits(slot)), nil
	case KindDWord64:
		b, err := d.data(data, 8)
		if err != nil {
			return nil, err
		}
		return DWord64(binary.LittleEndian.Uint64(b)), nil
	case KindInt64:
		b, err := d.data(data, 8)
		if err != nil {
			return nil, err
		}
		return Int64(int64(binary.LittleEndian.Uint64(b))), nil
	case KindDouble:
		b, err := d.data(data, 8)
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(binary.LittleEndian.Uint64(b))), nil
	case KindString:
		raw, err := d.lengthPrefixed(data)
		if err != nil {
			return nil, err
		}
		text, err := decodeText(d.cfg.charset, raw)
		if err != nil {
			return nil, err
		}
		return String(text), nil
	case KindResRef:
		b, err := d.data(data, 1)
		if err != nil {
			return nil, err
		}
		if int(b[0]) > MaxResRefLen {
			return nil, fmt.Errorf("%w: ResRef of %d bytes", ErrCapacity, b[0])
		}
		raw, err := d.data(data+1, uint64(b[0]))
		if err != nil {
			return nil, err
		}
		return ResRef(raw), nil
	case KindLocString:
		return d.readLocString(data)
	case KindVoid:
		raw, err := d.lengthPrefixed(data)
		if err != nil {
			return nil, err
		}
		return Void(bytes.Clone(raw)), nil
	case KindStruct:
		return d.readStruct(slot, depth+1)
	case KindList:
		return d.readList(slot, depth)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint32(k))
	}
}

func (d *decoder) readLocString(off uint64) (*LocString, error) {
	hdr, err := d.data(off, 12)
	if err != nil {
		return nil, err
	}
	total := binary.LittleEndian.Uint32(hdr[0:4])
	count := binary.LittleEndian.Uint32(hdr[8:12])
	if uint64(count)*8 > uint64(total) {
		return nil, fmt.Errorf("%w: CExoLocString count %d exceeds its size %d", ErrInvalidPayload, count, total)
	}
	ls := &LocString{StringRef: binary.LittleEndian.Uint32(hdr[4:8])}
	if count > 0 {
		ls.SubStrings = make([]SubString, 0, count)
	}
	raw := uint64(8)
	pos := off + 12
	for i := uint32(0); i < count; i++ {
		sh, err := d.data(pos, 8)
		if err != nil {
			return nil, err
		}
		n := uint64(binary.LittleEndian.Uint32(sh[4:8]))
		text, err := d.data(pos+8, n)
		if err != nil {
			return nil, err
		}
		decoded, err := decodeText(d.cfg.charset, text)
		if err != nil {
			return nil, err
		}
		ls.Add(int32(binary.LittleEndian.Uint32(sh[0:4])), decoded)
		raw += 8 + n
		pos += 8 + n
	}
	if raw != uint64(total) {
		return nil, fmt.Errorf("%w: CExoLocString size %d, content is %d bytes", ErrInvalidPayload, total, raw)
	}
	return ls, nil
}

func (d *decoder) readList(off uint32, depth int) (List, error) {
	end := uint64(off) + 4
	if end > uint64(len(d.listIndices)) {
		return nil, fmt.Errorf("%w: list offset %d out of range", ErrInvalidPayload, off)
	}
	count := binary.LittleEndian.Uint32(d.listIndices[off:end])
	if count > d.cfg.limits.MaxListLen {
		return nil, fmt.Errorf("%w: list of %d structs", ErrLimitExceeded, count)
	}
	if end+uint64(count)*4 > uint64(len(d.listIndices)) {
		return nil, fmt.Errorf("%w: list at %d overruns list indices", ErrInvalidPayload, off)
	}
	list := make(List, 0, count)
	for i := uint64(0); i < uint64(count); i++ {
		p := end + i*4
		s, err := d.readStruct(binary.LittleEndian.Uint32(d.listIndices[p:p+4]), depth+1)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

// data returns n bytes of the field data block starting at off.
func (d *decoder) data(off, n uint64) ([]byte, error) {
	end := off + n
	if end > uint64(len(d.fieldData)) {
		return nil, fmt.Errorf("%w: field data [%d,+%d) out of range", ErrInvalidPayload, off, n)
	}
	return d.fieldData[off:end], nil
}

// lengthPrefixed returns the bytes of a uint32 length-prefixed field.
func (d *decoder) lengthPrefixed(off uint64) ([]byte, error) {
	b, err := d.data(off, 4)
	if err != nil {
		return nil, err
	}
	return d.data(off+4, uint64(binary.LittleEndian.Uint32(b)))
}

func decodeText(enc encoding.Encoding, raw []byte) (string, error) {
	if enc == nil {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return string(out), nil
}
