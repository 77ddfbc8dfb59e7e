package gff

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding"
)

// Encode writes doc to w as a GFF V3.2 file.
//
// The document is validated before writing. Validation includes checking
// that:
//   - the file type is exactly 4 bytes
//   - every label is 1 to MaxLabelLen bytes
//   - every ResRef is at most MaxResRefLen bytes (ErrCapacity otherwise)
//   - no value is nil and no struct is reachable twice
//   - nesting does not exceed Limits.MaxDepth
//
// Structs are numbered breadth-first from the top-level struct, which is
// always struct 0 and is written with type RootStructID. Fields are written
// in the order of Struct.Fields. Labels are shared between fields and stored
// in order of first use. CExoLocString size counters are computed from the
// encoded substring bytes.
func Encode(w io.Writer, doc *Document, opts ...WriteOption) error {
	cfg := writeConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	if err := validateDocument(doc, cfg.limits); err != nil {
		return err
	}

	e := &encoder{charset: cfg.charset, labelIndex: make(map[string]uint32)}
	if err := e.layout(doc.Root); err != nil {
		return err
	}

	var labels []byte
	for _, l := range e.labels {
		var slot [labelSize]byte
		copy(slot[:], l)
		labels = append(labels, slot[:]...)
	}

	h := header{
		StructCount:      uint32(len(e.structs) / structEntrySize),
		FieldCount:       uint32(len(e.fields) / fieldEntrySize),
		LabelCount:       uint32(len(e.labels)),
		FieldDataSize:    uint32(len(e.fieldData)),
		FieldIndicesSize: uint32(len(e.fieldIndices)),
		ListIndicesSize:  uint32(len(e.listIndices)),
	}
	copy(h.FileType[:], doc.FileType)
	copy(h.Version[:], FileVersion)

	off := uint64(headerSize)
	place := func(dst *uint32, n int) {
		*dst = uint32(off)
		off += uint64(n)
	}
	place(&h.StructOffset, len(e.structs))
	place(&h.FieldOffset, len(e.fields))
	place(&h.LabelOffset, len(labels))
	place(&h.FieldDataOffset, len(e.fieldData))
	place(&h.FieldIndicesOffset, len(e.fieldIndices))
	place(&h.ListIndicesOffset, len(e.listIndices))
	if off > math.MaxUint32 {
		return fmt.Errorf("%w: encoded file would be %d bytes", ErrLimitExceeded, off)
	}

	if err := writeHeader(w, h); err != nil {
		return err
	}
	for _, b := range [][]byte{e.structs, e.fields, labels, e.fieldData, e.fieldIndices, e.listIndices} {
		if len(b) == 0 {
			continue
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

type encoder struct {
	charset      encoding.Encoding
	structs      []byte
	fields       []byte
	labels       []string
	labelIndex   map[string]uint32
	fieldData    []byte
	fieldIndices []byte
	listIndices  []byte

	// queue holds structs in index order; a struct gets its index when it
	// is enqueued and its entry when it is dequeued.
	queue []*Struct
}

func (e *encoder) layout(root *Struct) error {
	e.queue = append(e.queue, root)
	for i := 0; i < len(e.queue); i++ {
		s := e.queue[i]
		first := uint32(len(e.fields) / fieldEntrySize)
		for _, f := range s.Fields() {
			fe, err := e.field(f)
			if err != nil {
				return fmt.Errorf("field %q: %w", f.Label, err)
			}
			e.fields = fe.appendTo(e.fields)
		}

		entry := structEntry{Type: s.ID, FieldCount: uint32(s.Len())}
		if i == 0 {
			entry.Type = RootStructID
		}
		switch entry.FieldCount {
		case 0:
			entry.DataOrOffset = math.MaxUint32
		case 1:
			entry.DataOrOffset = first
		default:
			entry.DataOrOffset = uint32(len(e.fieldIndices))
			for n := uint32(0); n < entry.FieldCount; n++ {
				e.fieldIndices = binary.LittleEndian.AppendUint32(e.fieldIndices, first+n)
			}
		}
		e.structs = entry.appendTo(e.structs)
	}
	return nil
}

func (e *encoder) label(l string) uint32 {
	if i, ok := e.labelIndex[l]; ok {
		return i
	}
	i := uint32(len(e.labels))
	e.labels = append(e.labels, l)
	e.labelIndex[l] = i
	return i
}

func (e *encoder) enqueue(s *Struct) uint32 {
	e.queue = append(e.queue, s)
	return uint32(len(e.queue) - 1)
}

func (e *encoder) field(f Field) (fieldEntry, error) {
	fe := fieldEntry{Type: uint32(f.Value.Kind()), LabelIndex: e.label(f.Label)}
	le := binary.LittleEndian
	switch v := f.Value.(type) {
	case Byte:
		fe.DataOrOffset = uint32(v)
	case Char:
		fe.DataOrOffset = uint32(uint8(v))
	case Word:
		fe.DataOrOffset = uint32(v)
	case Short:
		fe.DataOrOffset = uint32(uint16(v))
	case DWord:
		fe.DataOrOffset = uint32(v)
	case Int:
		fe.DataOrOffset = uint32(v)
	case Float:
		fe.DataOrOffset = math.Float32bits(float32(v))
	case DWord64:
		fe.DataOrOffset = e.dataOffset()
		e.fieldData = le.AppendUint64(e.fieldData, uint64(v))
	case Int64:
		fe.DataOrOffset = e.dataOffset()
		e.fieldData = le.AppendUint64(e.fieldData, uint64(v))
	case Double:
		fe.DataOrOffset = e.dataOffset()
		e.fieldData = le.AppendUint64(e.fieldData, math.Float64bits(float64(v)))
	case String:
		raw, err := encodeText(e.charset, string(v))
		if err != nil {
			return fe, err
		}
		fe.DataOrOffset = e.dataOffset()
		e.fieldData = le.AppendUint32(e.fieldData, uint32(len(raw)))
		e.fieldData = append(e.fieldData, raw...)
	case ResRef:
		fe.DataOrOffset = e.dataOffset()
		e.fieldData = append(e.fieldData, uint8(len(v)))
		e.fieldData = append(e.fieldData, string(v)...)
	case *LocString:
		subs := make([][]byte, len(v.SubStrings))
		total := uint32(8)
		for i, s := range v.SubStrings {
			raw, err := encodeText(e.charset, s.Text)
			if err != nil {
				return fe, err
			}
			subs[i] = raw
			total += 8 + uint32(len(raw))
		}
		fe.DataOrOffset = e.dataOffset()
		e.fieldData = le.AppendUint32(e.fieldData, total)
		e.fieldData = le.AppendUint32(e.fieldData, v.StringRef)
		e.fieldData = le.AppendUint32(e.fieldData, uint32(len(subs)))
		for i, s := range v.SubStrings {
			e.fieldData = le.AppendUint32(e.fieldData, uint32(s.ID))
			e.fieldData = le.AppendUint32(e.fieldData, uint32(len(subs[i])))
			e.fieldData = append(e.fieldData, subs[i]...)
		}
	case Void:
		fe.DataOrOffset = e.dataOffset()
		e.fieldData = le.AppendUint32(e.fieldData, uint32(len(v)))
		e.fieldData = append(e.fieldData, v...)
	case *Struct:
		fe.DataOrOffset = e.enqueue(v)
	case List:
		fe.DataOrOffset = uint32(len(e.listIndices))
		e.listIndices = le.AppendUint32(e.listIndices, uint32(len(v)))
		for _, s := range v {
			e.listIndices = le.AppendUint32(e.listIndices, e.enqueue(s))
		}
	default:
		return fe, fmt.Errorf("%w: %T", ErrUnknownKind, f.Value)
	}
	return fe, nil
}

func (e *encoder) dataOffset() uint32 {
	return uint32(len(e.fieldData))
}

func encodeText(enc encoding.Encoding, s string) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: text %q not representable: %v", ErrValidation, s, err)
	}
	return out, nil
}
