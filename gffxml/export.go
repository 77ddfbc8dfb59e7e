package gffxml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/Liareth/anphillia-tools/gff"
)

// Export renders doc as an XML element tree rooted at
// <Gff Version="1" Type="UTC">. The top-level struct's fields become the
// children of the root element; its id is not written.
//
// Text holding bytes that are not UTF-8, or characters XML 1.0 cannot
// carry, fails with ErrInvalidText naming the field.
//
// VOID fields have no textual form. They are left out and reported to the
// logger at WARN level.
func Export(doc *gff.Document, opts ...Option) (*etree.Document, error) {
	if doc == nil || doc.Root == nil {
		return nil, errorf("", ErrStructural, "document has no top-level struct")
	}
	if len(doc.FileType) < 3 {
		return nil, errorf("", ErrStructural, "file type %q is shorter than 3 characters", doc.FileType)
	}
	x := exporter{cfg: newConfig(opts)}

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := out.CreateElement(tagRoot)
	root.CreateAttr(attrVersion, formatVersion)
	root.CreateAttr(attrType, doc.FileType[:3])
	if err := x.fields(root, doc.Root, "", 0); err != nil {
		return nil, err
	}
	return out, nil
}

type exporter struct {
	cfg config
}

func (x *exporter) fields(el *etree.Element, s *gff.Struct, path string, depth int) error {
	if depth > x.cfg.maxDepth {
		return errorf(path, ErrDepthExceeded, "struct nesting deeper than %d", x.cfg.maxDepth)
	}
	for _, f := range s.Fields() {
		if err := x.field(el, f, path+"/"+f.Label, depth); err != nil {
			return err
		}
	}
	return nil
}

func (x *exporter) field(parent *etree.Element, f gff.Field, path string, depth int) error {
	switch v := f.Value.(type) {
	case gff.Void:
		x.cfg.logger.Warn("dropping VOID field", "label", f.Label, "path", path, "bytes", len(v))
		return nil

	case *gff.LocString:
		if v == nil {
			return errorf(path, ErrStructural, "nil CExoLocString")
		}
		el := named(parent, tags[gff.KindLocString], f.Label)
		ref := named(el, tags[gff.KindDWord], labelStringRef)
		ref.SetText(strconv.FormatUint(uint64(v.StringRef), 10))
		for i, sub := range v.SubStrings {
			if err := checkText(sub.Text); err != nil {
				return wrap(fmt.Sprintf("%s[%d]", path, i), err)
			}
			s := el.CreateElement(tagSubString)
			named(s, tags[gff.KindInt], labelStringID).SetText(strconv.FormatInt(int64(sub.ID), 10))
			setText(named(s, tags[gff.KindString], labelString), sub.Text)
		}
		return nil

	case *gff.Struct:
		if v == nil {
			return errorf(path, ErrStructural, "nil struct")
		}
		el := named(parent, tags[gff.KindStruct], f.Label)
		el.CreateAttr(attrID, strconv.FormatUint(uint64(v.ID), 10))
		return x.fields(el, v, path, depth+1)

	case gff.List:
		el := named(parent, tags[gff.KindList], f.Label)
		for i, m := range v {
			p := fmt.Sprintf("%s[%d]", path, i)
			if m == nil {
				return errorf(p, ErrStructural, "nil list member")
			}
			member := el.CreateElement(tags[gff.KindStruct])
			member.CreateAttr(attrID, strconv.FormatUint(uint64(m.ID), 10))
			if err := x.fields(member, m, p, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	text, err := formatScalar(f.Value)
	if err != nil {
		return wrap(path, err)
	}
	setText(named(parent, tags[f.Value.Kind()], f.Label), text)
	return nil
}

func named(parent *etree.Element, tag, label string) *etree.Element {
	el := parent.CreateElement(tag)
	el.CreateAttr(attrName, label)
	return el
}

// setText leaves empty values as self-closing elements.
func setText(el *etree.Element, text string) {
	if text != "" {
		el.SetText(text)
	}
}
