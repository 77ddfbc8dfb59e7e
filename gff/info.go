package gff

import (
	"fmt"
	"io"
)

// Info is the header summary of a GFF file.
type Info struct {
	FileType      string `json:"file_type"`
	Version       string `json:"version"`
	Structs       uint32 `json:"structs"`
	Fields        uint32 `json:"fields"`
	Labels        uint32 `json:"labels"`
	FieldDataSize uint32 `json:"field_data_size"`
	ListIndices   uint32 `json:"list_indices"`
}

// ReadInfo reads the header at the start of r without decoding the rest of
// the file.
func ReadInfo(r io.Reader) (Info, error) {
	h, err := readHeader(r)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if string(h.Version[:]) != FileVersion {
		return Info{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, h.Version[:])
	}
	return Info{
		FileType:      string(h.FileType[:]),
		Version:       string(h.Version[:]),
		Structs:       h.StructCount,
		Fields:        h.FieldCount,
		Labels:        h.LabelCount,
		FieldDataSize: h.FieldDataSize,
		ListIndices:   h.ListIndicesSize / 4,
	}, nil
}

// OutputExt returns the lower-cased file type without padding.
func (i Info) OutputExt() string {
	return outputExt(i.FileType)
}
