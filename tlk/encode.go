package tlk

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
)

// Encode writes t to w. Text is laid out in StrRef order with no sharing.
// A sound ResRef longer than MaxSoundResRefLen is ErrCapacity; text the
// configured code page cannot represent is ErrValidation.
func Encode(w io.Writer, t *Table, opts ...Option) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrValidation)
	}
	cfg := newConfig(opts)
	if uint64(len(t.Entries)) > uint64(cfg.limits.MaxEntries) {
		return fmt.Errorf("%w: %d entries", ErrLimitExceeded, len(t.Entries))
	}

	entries := make([]byte, 0, len(t.Entries)*entrySize)
	var text []byte
	for i, e := range t.Entries {
		if len(e.SoundResRef) > MaxSoundResRefLen {
			return fmt.Errorf("%w: entry %d sound ResRef %q is %d bytes, max %d",
				ErrCapacity, i, e.SoundResRef, len(e.SoundResRef), MaxSoundResRefLen)
		}
		raw, err := encodeText(cfg.charset, e.Text)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if uint64(len(text))+uint64(len(raw)) > uint64(^uint32(0)) {
			return fmt.Errorf("%w: string data larger than 4 GiB", ErrLimitExceeded)
		}
		re := entry{
			Flags:          uint32(e.Flags),
			VolumeVariance: e.VolumeVariance,
			PitchVariance:  e.PitchVariance,
			SoundLength:    e.SoundLength,
		}
		copy(re.SoundResRef[:], e.SoundResRef)
		if len(raw) > 0 {
			re.Offset = uint32(len(text))
			re.Size = uint32(len(raw))
			text = append(text, raw...)
		}
		entries = re.appendTo(entries)
	}

	h := header{
		LanguageID:    t.LanguageID,
		StringCount:   uint32(len(t.Entries)),
		StringsOffset: uint32(headerSize + len(entries)),
	}
	copy(h.FileType[:], FileType)
	copy(h.Version[:], FileVersion)

	out := h.appendTo(make([]byte, 0, headerSize+len(entries)+len(text)))
	out = append(out, entries...)
	out = append(out, text...)
	_, err := w.Write(out)
	return err
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
