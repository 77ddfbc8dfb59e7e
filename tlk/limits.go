package tlk

type Limits struct {
	MaxFileSize uint64 // bytes read from the source
	MaxEntries  uint32
}

func defaultLimits() Limits {
	return Limits{
		MaxFileSize: 256 << 20, // 256 MiB
		MaxEntries:  1 << 24,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxFileSize == 0 {
		l.MaxFileSize = d.MaxFileSize
	}
	if l.MaxEntries == 0 {
		l.MaxEntries = d.MaxEntries
	}
	return l
}
