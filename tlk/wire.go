package tlk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	headerSize = 20
	entrySize  = 40
)

type header struct {
	FileType      [4]byte
	Version       [4]byte
	LanguageID    uint32
	StringCount   uint32
	StringsOffset uint32
}

type entry struct {
	Flags          uint32
	SoundResRef    [MaxSoundResRefLen]byte
	VolumeVariance uint32
	PitchVariance  uint32
	Offset         uint32
	Size           uint32
	SoundLength    float32
}

func parseHeader(b []byte) (header, error) {
	if len(b) < headerSize {
		return header{}, fmt.Errorf("%w: %d bytes, want at least %d", ErrInvalidHeader, len(b), headerSize)
	}
	var h header
	copy(h.FileType[:], b[0:4])
	copy(h.Version[:], b[4:8])
	h.LanguageID = binary.LittleEndian.Uint32(b[8:12])
	h.StringCount = binary.LittleEndian.Uint32(b[12:16])
	h.StringsOffset = binary.LittleEndian.Uint32(b[16:20])
	if string(h.FileType[:]) != FileType {
		return header{}, fmt.Errorf("%w: file type %q", ErrInvalidHeader, h.FileType[:])
	}
	if string(h.Version[:]) != FileVersion {
		return header{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, h.Version[:])
	}
	return h, nil
}

func (h header) validate(n uint64) error {
	end := headerSize + uint64(h.StringCount)*entrySize
	if end > n {
		return fmt.Errorf("%w: %d entries need %d bytes, file has %d", ErrInvalidHeader, h.StringCount, end, n)
	}
	if uint64(h.StringsOffset) < end || uint64(h.StringsOffset) > n {
		return fmt.Errorf("%w: string data offset %d outside [%d,%d]", ErrInvalidHeader, h.StringsOffset, end, n)
	}
	return nil
}

func parseEntry(b []byte) entry {
	var e entry
	e.Flags = binary.LittleEndian.Uint32(b[0:4])
	copy(e.SoundResRef[:], b[4:20])
	e.VolumeVariance = binary.LittleEndian.Uint32(b[20:24])
	e.PitchVariance = binary.LittleEndian.Uint32(b[24:28])
	e.Offset = binary.LittleEndian.Uint32(b[28:32])
	e.Size = binary.LittleEndian.Uint32(b[32:36])
	e.SoundLength = math.Float32frombits(binary.LittleEndian.Uint32(b[36:40]))
	return e
}

func (e entry) appendTo(b []byte) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, e.Flags)
	b = append(b, e.SoundResRef[:]...)
	b = le.AppendUint32(b, e.VolumeVariance)
	b = le.AppendUint32(b, e.PitchVariance)
	b = le.AppendUint32(b, e.Offset)
	b = le.AppendUint32(b, e.Size)
	return le.AppendUint32(b, math.Float32bits(e.SoundLength))
}

func (h header) appendTo(b []byte) []byte {
	le := binary.LittleEndian
	b = append(b, h.FileType[:]...)
	b = append(b, h.Version[:]...)
	b = le.AppendUint32(b, h.LanguageID)
	b = le.AppendUint32(b, h.StringCount)
	return le.AppendUint32(b, h.StringsOffset)
}

// resRef returns the NUL padded ResRef text.
func resRef(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
