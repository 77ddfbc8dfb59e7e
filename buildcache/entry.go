package buildcache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	entryMagic      = "GXC1"
	entryHeaderSize = 16
	entryExt        = ".gxc"
)

type entryHeader struct {
	Magic           [4]byte
	Compression     uint8
	Flags           uint8
	Reserved        uint16
	UncompressedLen uint64
}

func readEntryHeader(r io.Reader) (entryHeader, error) {
	var h entryHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return entryHeader{}, fmt.Errorf("%w: truncated header", ErrInvalidEntry)
		}
		return entryHeader{}, err
	}
	return h, nil
}

func writeEntryHeader(w io.Writer, h entryHeader) error {
	return binary.Write(w, binary.LittleEndian, h)
}

func (h entryHeader) validate(maxSize uint64) error {
	if string(h.Magic[:]) != entryMagic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidEntry, h.Magic[:])
	}
	if h.Flags != 0 || h.Reserved != 0 {
		return fmt.Errorf("%w: reserved header bits set", ErrInvalidEntry)
	}
	if !Compression(h.Compression).valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
	if h.UncompressedLen > maxSize {
		return fmt.Errorf("%w: entry of %d bytes exceeds %d", ErrLimitExceeded, h.UncompressedLen, maxSize)
	}
	return nil
}

// encodeEntry returns the on-disk form of data.
func encodeEntry(comp Compression, data []byte) ([]byte, error) {
	payload, err := compress(comp, data)
	if err != nil {
		return nil, err
	}
	h := entryHeader{Compression: uint8(comp), UncompressedLen: uint64(len(data))}
	copy(h.Magic[:], entryMagic)

	var buf bytes.Buffer
	buf.Grow(entryHeaderSize + len(payload))
	if err := writeEntryHeader(&buf, h); err != nil {
		return nil, err
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

// decodeEntry reads an entry from r. At most maxPayload(maxSize) payload
// bytes are read and at most maxSize bytes are produced.
func decodeEntry(r io.Reader, maxSize uint64) ([]byte, error) {
	h, err := readEntryHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.validate(maxSize); err != nil {
		return nil, err
	}
	limit := maxPayload(h.UncompressedLen)
	payload, err := readAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) > limit {
		return nil, fmt.Errorf("%w: payload larger than %d bytes", ErrInvalidEntry, limit)
	}
	return decompress(Compression(h.Compression), payload, h.UncompressedLen)
}

// maxPayload bounds the stored size of an n byte entry. Compressors may
// expand incompressible input slightly.
func maxPayload(n uint64) uint64 {
	return n + n/8 + 4096
}
