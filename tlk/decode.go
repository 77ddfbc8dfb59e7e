package tlk

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
)

// Function variables for testing injection.
var readAll = io.ReadAll

// Decode reads a talk table from r. Entry text is read whenever its size is
// non-zero, whatever the flags say, so that Encode writes it back.
//
// Decode returns ErrInvalidHeader or ErrUnsupportedVersion for a malformed
// header, ErrInvalidPayload for text outside the string data block and
// ErrLimitExceeded when a limit is exceeded.
func Decode(r io.Reader, opts ...Option) (*Table, error) {
	cfg := newConfig(opts)
	data, err := readAll(io.LimitReader(r, int64(cfg.limits.MaxFileSize)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > cfg.limits.MaxFileSize {
		return nil, fmt.Errorf("%w: file larger than %d bytes", ErrLimitExceeded, cfg.limits.MaxFileSize)
	}
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.StringCount > cfg.limits.MaxEntries {
		return nil, fmt.Errorf("%w: %d entries", ErrLimitExceeded, h.StringCount)
	}
	if err := h.validate(uint64(len(data))); err != nil {
		return nil, err
	}

	pool := data[h.StringsOffset:]
	t := &Table{LanguageID: h.LanguageID, Entries: make([]Entry, h.StringCount)}
	for i := range t.Entries {
		off := headerSize + i*entrySize
		raw := parseEntry(data[off : off+entrySize])
		e := Entry{
			Flags:          Flags(raw.Flags),
			SoundResRef:    resRef(raw.SoundResRef[:]),
			VolumeVariance: raw.VolumeVariance,
			PitchVariance:  raw.PitchVariance,
			SoundLength:    raw.SoundLength,
		}
		if raw.Size > 0 {
			end := uint64(raw.Offset) + uint64(raw.Size)
			if end > uint64(len(pool)) {
				return nil, fmt.Errorf("%w: entry %d text [%d,+%d) beyond string data (%d bytes)",
					ErrInvalidPayload, i, raw.Offset, raw.Size, len(pool))
			}
			e.Text, err = decodeText(cfg.charset, pool[raw.Offset:end])
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
		}
		t.Entries[i] = e
	}
	return t, nil
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
