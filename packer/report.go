package packer

import (
	"errors"
	"fmt"
)

// Mode is the direction of a run.
type Mode int

const (
	ModeToXML Mode = iota
	ModeToGFF
)

func (m Mode) String() string {
	switch m {
	case ModeToXML:
		return "gff -> xml"
	case ModeToGFF:
		return "xml -> gff"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Entry is one converted file.
type Entry struct {
	Src    string
	Dst    string
	Cached bool
}

// Failure is one file that could not be converted.
type Failure struct {
	Src string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Src, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report summarizes a run. Entries are sorted by source path.
type Report struct {
	Mode        Mode
	Converted   []Entry
	Unprocessed []string
	Failed      []Failure
}

// Cached returns the number of conversions served from the cache.
func (r *Report) Cached() int {
	n := 0
	for _, e := range r.Converted {
		if e.Cached {
			n++
		}
	}
	return n
}

// Err joins every failure, or returns nil when all files converted.
func (r *Report) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}
