package gff

type Limits struct {
	MaxFileSize uint64 // bytes read from the source
	MaxStructs  uint32
	MaxFields   uint32
	MaxLabels   uint32
	MaxListLen  uint32 // members of a single list
	MaxDepth    int    // struct nesting below the top level
}

func defaultLimits() Limits {
	return Limits{
		MaxFileSize: 256 << 20, // 256 MiB
		MaxStructs:  1 << 22,
		MaxFields:   1 << 24,
		MaxLabels:   1 << 20,
		MaxListLen:  1 << 20,
		MaxDepth:    512,
	}
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return defaultLimits()
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxFileSize == 0 {
		l.MaxFileSize = d.MaxFileSize
	}
	if l.MaxStructs == 0 {
		l.MaxStructs = d.MaxStructs
	}
	if l.MaxFields == 0 {
		l.MaxFields = d.MaxFields
	}
	if l.MaxLabels == 0 {
		l.MaxLabels = d.MaxLabels
	}
	if l.MaxListLen == 0 {
		l.MaxListLen = d.MaxListLen
	}
	if l.MaxDepth == 0 {
		l.MaxDepth = d.MaxDepth
	}
	return l
}
