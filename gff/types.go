package gff

import "strings"

// FileVersion is the only GFF version this package reads and writes.
const FileVersion = "V3.2"

const (
	// MaxLabelLen is the capacity of a field label in the label table.
	MaxLabelLen = 16
	// MaxResRefLen is the capacity of a ResRef value.
	MaxResRefLen = 32

	// RootStructID is the struct type written for the top-level struct.
	RootStructID uint32 = 0xFFFFFFFF
	// NoStringRef marks a LocString that has no talk table entry.
	NoStringRef uint32 = 0xFFFFFFFF
)

// Kind is the on-disk field type of a GFF field.
type Kind uint32

const (
	KindByte      Kind = 0
	KindChar      Kind = 1
	KindWord      Kind = 2
	KindShort     Kind = 3
	KindDWord     Kind = 4
	KindInt       Kind = 5
	KindDWord64   Kind = 6
	KindInt64     Kind = 7
	KindFloat     Kind = 8
	KindDouble    Kind = 9
	KindString    Kind = 10
	KindResRef    Kind = 11
	KindLocString Kind = 12
	KindVoid      Kind = 13
	KindStruct    Kind = 14
	KindList      Kind = 15
)

var kindNames = [...]string{
	KindByte:      "BYTE",
	KindChar:      "CHAR",
	KindWord:      "WORD",
	KindShort:     "SHORT",
	KindDWord:     "DWORD",
	KindInt:       "INT",
	KindDWord64:   "DWORD64",
	KindInt64:     "INT64",
	KindFloat:     "FLOAT",
	KindDouble:    "DOUBLE",
	KindString:    "CExoString",
	KindResRef:    "ResRef",
	KindLocString: "CExoLocString",
	KindVoid:      "VOID",
	KindStruct:    "Struct",
	KindList:      "List",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a field value. The set of implementations is closed: Byte, Char,
// Word, Short, DWord, Int, DWord64, Int64, Float, Double, String, ResRef,
// *LocString, Void, *Struct and List.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	Byte    uint8
	Char    int8
	Word    uint16
	Short   int16
	DWord   uint32
	Int     int32
	DWord64 uint64
	Int64   int64
	Float   float32
	Double  float64
	// String is a CExoString.
	String string
	// ResRef is a resource reference of at most MaxResRefLen bytes.
	ResRef string
	// Void is an opaque binary blob.
	Void []byte
	// List is an ordered sequence of unnamed structs.
	List []*Struct
)

func (Byte) Kind() Kind       { return KindByte }
func (Char) Kind() Kind       { return KindChar }
func (Word) Kind() Kind       { return KindWord }
func (Short) Kind() Kind      { return KindShort }
func (DWord) Kind() Kind      { return KindDWord }
func (Int) Kind() Kind        { return KindInt }
func (DWord64) Kind() Kind    { return KindDWord64 }
func (Int64) Kind() Kind      { return KindInt64 }
func (Float) Kind() Kind      { return KindFloat }
func (Double) Kind() Kind     { return KindDouble }
func (String) Kind() Kind     { return KindString }
func (ResRef) Kind() Kind     { return KindResRef }
func (*LocString) Kind() Kind { return KindLocString }
func (Void) Kind() Kind       { return KindVoid }
func (*Struct) Kind() Kind    { return KindStruct }
func (List) Kind() Kind       { return KindList }

func (Byte) isValue()       {}
func (Char) isValue()       {}
func (Word) isValue()       {}
func (Short) isValue()      {}
func (DWord) isValue()      {}
func (Int) isValue()        {}
func (DWord64) isValue()    {}
func (Int64) isValue()      {}
func (Float) isValue()      {}
func (Double) isValue()     {}
func (String) isValue()     {}
func (ResRef) isValue()     {}
func (*LocString) isValue() {}
func (Void) isValue()       {}
func (*Struct) isValue()    {}
func (List) isValue()       {}

// SubString is one per-language override of a LocString. ID encodes the
// language and gender as language*2 + gender.
type SubString struct {
	ID   int32
	Text string
}

// LocString is a localized string: a talk table reference plus an ordered
// list of per-language overrides.
type LocString struct {
	StringRef  uint32
	SubStrings []SubString
}

// Add appends a substring.
func (l *LocString) Add(id int32, text string) {
	l.SubStrings = append(l.SubStrings, SubString{ID: id, Text: text})
}

// Size returns the serialized size counter of l: the string ref and count
// header plus, per substring, its id, its length and its bytes. The counter
// excludes its own 4 bytes.
func (l *LocString) Size() uint32 {
	n := uint32(8)
	for _, s := range l.SubStrings {
		n += 8 + uint32(len(s.Text))
	}
	return n
}

// Field is a labelled value within a Struct.
type Field struct {
	Label string
	Value Value
}

// Struct is an ordered collection of uniquely labelled fields plus a
// user-defined id. Fields keep insertion order; setting an existing label
// replaces its value in place.
//
// The zero value is an empty struct with id 0.
type Struct struct {
	ID     uint32
	fields []Field
	index  map[string]int
}

// NewStruct returns an empty struct with the given id.
func NewStruct(id uint32) *Struct {
	return &Struct{ID: id}
}

// Set stores v under label.
func (s *Struct) Set(label string, v Value) {
	if i, ok := s.index[label]; ok {
		s.fields[i].Value = v
		return
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[label] = len(s.fields)
	s.fields = append(s.fields, Field{Label: label, Value: v})
}

// Get returns the value stored under label.
func (s *Struct) Get(label string) (Value, bool) {
	i, ok := s.index[label]
	if !ok {
		return nil, false
	}
	return s.fields[i].Value, true
}

// Fields returns the fields of s in order. The slice must not be modified.
func (s *Struct) Fields() []Field {
	return s.fields
}

// Len returns the number of fields in s.
func (s *Struct) Len() int {
	return len(s.fields)
}

// Document is a complete GFF file: a 4-character file type and the
// top-level struct.
type Document struct {
	FileType string
	Root     *Struct
}

// NewDocument returns a document with an empty top-level struct. The file
// type is upper-cased and space padded to 4 characters, so "utc" becomes
// "UTC ".
func NewDocument(fileType string) *Document {
	return &Document{FileType: NormalizeFileType(fileType), Root: &Struct{}}
}

// NormalizeFileType upper-cases t and pads or truncates it to 4 bytes.
func NormalizeFileType(t string) string {
	t = strings.ToUpper(t)
	if len(t) > 4 {
		return t[:4]
	}
	return t + strings.Repeat(" ", 4-len(t))
}

// OutputExt returns the file extension associated with the document type,
// lower-cased and without padding ("UTC " yields "utc").
func (d *Document) OutputExt() string {
	return outputExt(d.FileType)
}

func outputExt(fileType string) string {
	return strings.ToLower(strings.TrimRight(fileType, " \x00"))
}
