package tlkxml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/Liareth/anphillia-tools/tlk"
)

// Import rebuilds a talk table from an XML element tree. Entries may come
// in any order; a StrRef may appear once. Gaps become empty entries.
func Import(doc *etree.Document, opts ...Option) (*tlk.Table, error) {
	var root *etree.Element
	if doc != nil {
		root = doc.Root()
	}
	if root == nil {
		return nil, errorf("", ErrStructural, "no root element")
	}
	if root.Tag != RootTag {
		return nil, errorf("", ErrStructural, "root element is <%s>, want <%s>", root.Tag, RootTag)
	}
	if v := root.SelectAttr(attrVersion); v != nil && strings.TrimSpace(v.Value) != formatVersion {
		return nil, errorf("", ErrStructural, "unsupported version %q", v.Value)
	}
	lang, err := uintAttr(root, attrLanguageID)
	if err != nil {
		return nil, err
	}
	count, err := uintAttr(root, attrCount)
	if err != nil {
		return nil, err
	}

	t := tlk.New(uint32(lang))
	seen := make(map[uint32]bool)
	for _, el := range root.ChildElements() {
		if el.Tag != tagEntry {
			return nil, errorf("", ErrStructural, "unexpected <%s> in <%s>", el.Tag, RootTag)
		}
		if el.SelectAttr(attrStrRef) == nil {
			return nil, errorf("", ErrStructural, "<%s> has no %s attribute", tagEntry, attrStrRef)
		}
		ref, err := uintAttr(el, attrStrRef)
		if err != nil {
			return nil, err
		}
		path := entryPath(uint32(ref))
		if seen[uint32(ref)] {
			return nil, errorf(path, ErrStructural, "duplicate StrRef")
		}
		seen[uint32(ref)] = true
		e, err := readEntry(el, path)
		if err != nil {
			return nil, err
		}
		t.Set(uint32(ref), e)
	}
	if int(count) > len(t.Entries) {
		t.Set(uint32(count)-1, tlk.Entry{})
	}
	return t, nil
}

func readEntry(el *etree.Element, path string) (tlk.Entry, error) {
	var e tlk.Entry
	seen := make(map[string]bool)
	for _, part := range el.ChildElements() {
		p := path + "/" + part.Tag
		if seen[part.Tag] {
			return e, errorf(p, ErrStructural, "element repeated")
		}
		seen[part.Tag] = true
		text := part.Text()
		switch part.Tag {
		case tagString:
			e.Flags |= tlk.FlagText
			e.Text = text
		case tagSoundResRef:
			if len(text) > tlk.MaxSoundResRefLen {
				return e, &Error{Path: p, Err: fmt.Errorf("%w: %q is %d bytes, max %d", ErrCapacity, text, len(text), tlk.MaxSoundResRefLen)}
			}
			e.Flags |= tlk.FlagSound
			e.SoundResRef = text
		case tagSoundLength:
			f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
			if err != nil {
				return e, errorf(p, ErrParse, "%q is not a 32-bit float", text)
			}
			e.Flags |= tlk.FlagSoundLength
			e.SoundLength = float32(f)
		case tagVolumeVariance, tagPitchVariance:
			n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
			if err != nil {
				return e, errorf(p, ErrParse, "%q is not a 32-bit unsigned integer", text)
			}
			if part.Tag == tagVolumeVariance {
				e.VolumeVariance = uint32(n)
			} else {
				e.PitchVariance = uint32(n)
			}
		default:
			return e, errorf(path, ErrStructural, "unknown element <%s>", part.Tag)
		}
	}
	return e, nil
}

// uintAttr parses an optional uint32 attribute, 0 when absent.
func uintAttr(el *etree.Element, name string) (uint64, error) {
	a := el.SelectAttr(name)
	if a == nil {
		return 0, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(a.Value), 10, 32)
	if err != nil {
		return 0, errorf("", ErrParse, "%s %q is not a 32-bit unsigned integer", name, a.Value)
	}
	return n, nil
}
