package tlk

const (
	// FileType is the magic at the start of every talk table.
	FileType = "TLK "
	// FileVersion is the only version this package reads and writes.
	FileVersion = "V3.0"

	// MaxSoundResRefLen is the capacity of an entry's sound ResRef.
	MaxSoundResRefLen = 16
)

// Flags say which parts of an entry are present.
type Flags uint32

const (
	FlagText        Flags = 0x1
	FlagSound       Flags = 0x2
	FlagSoundLength Flags = 0x4

	knownFlags = FlagText | FlagSound | FlagSoundLength
)

// Entry is the talk table record of one StrRef.
type Entry struct {
	Flags          Flags
	Text           string
	SoundResRef    string
	VolumeVariance uint32
	PitchVariance  uint32
	// SoundLength is the duration of the sound in seconds.
	SoundLength float32
}

// IsZero reports whether e carries nothing at all.
func (e Entry) IsZero() bool {
	return e == Entry{}
}

// Table is a talk table. Entries is indexed by StrRef.
type Table struct {
	LanguageID uint32
	Entries    []Entry
}

// New returns an empty table for the given language.
func New(languageID uint32) *Table {
	return &Table{LanguageID: languageID}
}

// Set stores e at ref, growing the table with empty entries as needed.
func (t *Table) Set(ref uint32, e Entry) {
	if int(ref) >= len(t.Entries) {
		t.Entries = append(t.Entries, make([]Entry, int(ref)+1-len(t.Entries))...)
	}
	t.Entries[ref] = e
}

// Get returns the entry at ref.
func (t *Table) Get(ref uint32) (Entry, bool) {
	if int(ref) >= len(t.Entries) {
		return Entry{}, false
	}
	return t.Entries[ref], true
}

// HasMagic reports whether b starts with the talk table file type.
func HasMagic(b []byte) bool {
	return len(b) >= len(FileType) && string(b[:len(FileType)]) == FileType
}
