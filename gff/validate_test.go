package gff

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLimitsWithDefaults(t *testing.T) {
	l := (Limits{}).withDefaults()
	if l.MaxFileSize == 0 || l.MaxStructs == 0 || l.MaxDepth == 0 || l.MaxListLen == 0 {
		t.Fatal("expected defaults")
	}

	custom := Limits{MaxDepth: 7}
	custom = custom.withDefaults()
	if custom.MaxDepth != 7 {
		t.Fatalf("expected custom MaxDepth, got %d", custom.MaxDepth)
	}
	if DefaultLimits() != defaultLimits() {
		t.Fatal("DefaultLimits differs from defaults")
	}
}

func TestValidateDocument(t *testing.T) {
	shared := NewStruct(1)
	cases := []struct {
		name  string
		build func() *Document
		want  error
	}{
		{"nil document", func() *Document { return nil }, ErrValidation},
		{"short file type", func() *Document { return &Document{FileType: "UT", Root: &Struct{}} }, ErrValidation},
		{"nil root", func() *Document { return &Document{FileType: "UTC "} }, ErrValidation},
		{"empty label", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("", Int(1))
			return d
		}, ErrValidation},
		{"long label", func() *Document {
			d := NewDocument("utc")
			d.Root.Set(strings.Repeat("L", MaxLabelLen+1), Int(1))
			return d
		}, ErrCapacity},
		{"long resref", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("R", ResRef(strings.Repeat("r", MaxResRefLen+1)))
			return d
		}, ErrCapacity},
		{"nil value", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("V", nil)
			return d
		}, ErrValidation},
		{"nil locstring", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("V", (*LocString)(nil))
			return d
		}, ErrValidation},
		{"nil struct", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("V", (*Struct)(nil))
			return d
		}, ErrValidation},
		{"nil list member", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("L", List{NewStruct(0), nil})
			return d
		}, ErrValidation},
		{"shared struct", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("A", shared)
			d.Root.Set("L", List{shared})
			return d
		}, ErrValidation},
		{"cycle", func() *Document {
			d := NewDocument("utc")
			d.Root.Set("Self", d.Root)
			return d
		}, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Encode(io.Discard, tc.build())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	d := NewDocument("utc")
	d.Root.Set(strings.Repeat("L", MaxLabelLen), ResRef(strings.Repeat("r", MaxResRefLen)))
	d.Root.Set("Empty", ResRef(""))
	if err := Encode(io.Discard, d); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateResRef(strings.Repeat("r", MaxResRefLen)); err != nil {
		t.Fatal(err)
	}
	if err := ValidateResRef(strings.Repeat("r", MaxResRefLen+1)); !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if err := ValidateLabel("Tag"); err != nil {
		t.Fatal(err)
	}
}

func TestEncodeDepthLimit(t *testing.T) {
	d := NewDocument("dlg")
	cur := d.Root
	for i := 0; i < 5; i++ {
		next := NewStruct(0)
		cur.Set("C", List{next})
		cur = next
	}
	err := Encode(io.Discard, d, WithWriteLimits(Limits{MaxDepth: 4}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if err := Encode(io.Discard, d, WithWriteLimits(Limits{MaxDepth: 5})); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	if KindLocString.String() != "CExoLocString" || KindList.String() != "List" {
		t.Fatal("unexpected kind names")
	}
	if Kind(99).String() != "unknown" {
		t.Fatal("expected unknown")
	}
}
