package gffxml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/Liareth/anphillia-tools/gff"
)

// Import rebuilds a document from an XML element tree produced by Export or
// written by hand. Children are read in document order and every element
// is checked against the shape Export writes; anything else is rejected
// with ErrStructural.
func Import(doc *etree.Document, opts ...Option) (*gff.Document, error) {
	root, fileType, err := checkRoot(doc)
	if err != nil {
		return nil, err
	}
	x := importer{cfg: newConfig(opts)}
	top, err := x.structElem(root, "", 0)
	if err != nil {
		return nil, err
	}
	return &gff.Document{FileType: fileType, Root: top}, nil
}

// checkRoot validates the <Gff> element and returns it with the 4-character
// file type it names.
func checkRoot(doc *etree.Document) (*etree.Element, string, error) {
	var root *etree.Element
	if doc != nil {
		root = doc.Root()
	}
	if root == nil {
		return nil, "", errorf("", ErrStructural, "no root element")
	}
	if root.Tag != tagRoot {
		return nil, "", errorf("", ErrStructural, "root element is <%s>, want <%s>", root.Tag, tagRoot)
	}
	if v := root.SelectAttr(attrVersion); v != nil && strings.TrimSpace(v.Value) != formatVersion {
		return nil, "", errorf("", ErrStructural, "unsupported version %q", v.Value)
	}
	typ := root.SelectAttrValue(attrType, "")
	if len(typ) != 3 {
		return nil, "", errorf("", ErrStructural, "Type %q must be 3 characters", typ)
	}
	return root, typ + " ", nil
}

type importer struct {
	cfg config
}

func (x *importer) structElem(el *etree.Element, path string, depth int) (*gff.Struct, error) {
	if depth > x.cfg.maxDepth {
		return nil, errorf(path, ErrDepthExceeded, "struct nesting deeper than %d", x.cfg.maxDepth)
	}
	id, err := readID(el, path)
	if err != nil {
		return nil, err
	}
	s := gff.NewStruct(id)
	for _, child := range el.ChildElements() {
		if err := x.field(s, child, path, depth); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (x *importer) field(s *gff.Struct, el *etree.Element, parent string, depth int) error {
	kind, ok := KindFor(el.Tag)
	if !ok {
		return errorf(parent, ErrStructural, "unknown element <%s>", el.Tag)
	}
	name := el.SelectAttr(attrName)
	if name == nil {
		return errorf(parent, ErrStructural, "<%s> has no %s attribute", el.Tag, attrName)
	}
	path := parent + "/" + name.Value

	var v gff.Value
	var err error
	switch kind {
	case gff.KindLocString:
		v, err = readLocString(el, path)
	case gff.KindStruct:
		v, err = x.structElem(el, path, depth+1)
	case gff.KindList:
		v, err = x.list(el, path, depth)
	default:
		v, err = parseScalar(kind, el.Text())
		if err != nil {
			err = wrap(path, err)
		}
	}
	if err != nil {
		return err
	}
	s.Set(name.Value, v)
	return nil
}

func (x *importer) list(el *etree.Element, path string, depth int) (gff.List, error) {
	children := el.ChildElements()
	list := make(gff.List, 0, len(children))
	for i, child := range children {
		p := fmt.Sprintf("%s[%d]", path, i)
		if child.Tag != tags[gff.KindStruct] {
			return nil, errorf(p, ErrStructural, "list member is <%s>, want <%s>", child.Tag, tags[gff.KindStruct])
		}
		m, err := x.structElem(child, p, depth+1)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

func readLocString(el *etree.Element, path string) (*gff.LocString, error) {
	children := el.ChildElements()
	if len(children) == 0 || children[0].Tag != tags[gff.KindDWord] {
		return nil, errorf(path, ErrStructural, "CExoLocString must start with a <%s> string ref", tags[gff.KindDWord])
	}
	ref, err := parseUint(children[0].Text(), 32)
	if err != nil {
		return nil, wrap(path+"/"+labelStringRef, err)
	}
	ls := &gff.LocString{StringRef: uint32(ref)}
	for i, sub := range children[1:] {
		p := fmt.Sprintf("%s[%d]", path, i)
		if sub.Tag != tagSubString {
			return nil, errorf(p, ErrStructural, "unexpected <%s> in CExoLocString", sub.Tag)
		}
		id, text, err := readSubString(sub, p)
		if err != nil {
			return nil, err
		}
		ls.Add(id, text)
	}
	return ls, nil
}

func readSubString(el *etree.Element, path string) (int32, string, error) {
	var (
		id               int32
		text             string
		haveID, haveText bool
	)
	for _, part := range el.ChildElements() {
		switch {
		case part.Tag == tags[gff.KindInt] && !haveID:
			n, err := parseInt(part.Text(), 32)
			if err != nil {
				return 0, "", wrap(path+"/"+labelStringID, err)
			}
			id, haveID = int32(n), true
		case part.Tag == tags[gff.KindString] && !haveText:
			text, haveText = part.Text(), true
		default:
			return 0, "", errorf(path, ErrStructural, "unexpected <%s> in SubString", part.Tag)
		}
	}
	if !haveID || !haveText {
		return 0, "", errorf(path, ErrStructural, "SubString needs one <%s> and one <%s>", tags[gff.KindInt], tags[gff.KindString])
	}
	return id, text, nil
}

func readID(el *etree.Element, path string) (uint32, error) {
	a := el.SelectAttr(attrID)
	if a == nil {
		return 0, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(a.Value), 10, 32)
	if err != nil {
		return 0, errorf(path, ErrParse, "struct id %q", a.Value)
	}
	return uint32(n), nil
}
