package gff

import "fmt"

func validateDocument(doc *Document, limits Limits) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrValidation)
	}
	if len(doc.FileType) != 4 {
		return fmt.Errorf("%w: file type %q must be 4 bytes", ErrValidation, doc.FileType)
	}
	if doc.Root == nil {
		return fmt.Errorf("%w: top-level struct is nil", ErrValidation)
	}
	v := validator{limits: limits, seen: make(map[*Struct]struct{})}
	return v.walk(doc.Root, 0)
}

type validator struct {
	limits Limits
	seen   map[*Struct]struct{}
	count  uint32
}

func (v *validator) walk(s *Struct, depth int) error {
	if depth > v.limits.MaxDepth {
		return fmt.Errorf("%w: struct nesting deeper than %d", ErrLimitExceeded, v.limits.MaxDepth)
	}
	if _, ok := v.seen[s]; ok {
		return fmt.Errorf("%w: struct reachable more than once", ErrValidation)
	}
	v.seen[s] = struct{}{}
	v.count++
	if v.count > v.limits.MaxStructs {
		return fmt.Errorf("%w: more than %d structs", ErrLimitExceeded, v.limits.MaxStructs)
	}
	for _, f := range s.Fields() {
		if err := validateLabel(f.Label); err != nil {
			return err
		}
		if err := v.value(f, depth); err != nil {
			return fmt.Errorf("field %q: %w", f.Label, err)
		}
	}
	return nil
}

func (v *validator) value(f Field, depth int) error {
	switch val := f.Value.(type) {
	case nil:
		return fmt.Errorf("%w: nil value", ErrValidation)
	case ResRef:
		if len(val) > MaxResRefLen {
			return fmt.Errorf("%w: ResRef %q is %d bytes, limit %d", ErrCapacity, string(val), len(val), MaxResRefLen)
		}
	case *LocString:
		if val == nil {
			return fmt.Errorf("%w: nil CExoLocString", ErrValidation)
		}
	case *Struct:
		if val == nil {
			return fmt.Errorf("%w: nil struct", ErrValidation)
		}
		return v.walk(val, depth+1)
	case List:
		if uint32(len(val)) > v.limits.MaxListLen {
			return fmt.Errorf("%w: list of %d structs", ErrLimitExceeded, len(val))
		}
		for i, s := range val {
			if s == nil {
				return fmt.Errorf("%w: nil list member %d", ErrValidation, i)
			}
			if err := v.walk(s, depth+1); err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
		}
	}
	return nil
}

func validateLabel(l string) error {
	if l == "" {
		return fmt.Errorf("%w: empty field label", ErrValidation)
	}
	if len(l) > MaxLabelLen {
		return fmt.Errorf("%w: label %q is %d bytes, limit %d", ErrCapacity, l, len(l), MaxLabelLen)
	}
	return nil
}

// ValidateLabel reports whether l fits the label table: 1 to MaxLabelLen
// bytes.
func ValidateLabel(l string) error {
	return validateLabel(l)
}

// ValidateResRef reports whether r fits a ResRef field.
func ValidateResRef(r string) error {
	if len(r) > MaxResRefLen {
		return fmt.Errorf("%w: ResRef %q is %d bytes, limit %d", ErrCapacity, r, len(r), MaxResRefLen)
	}
	return nil
}
