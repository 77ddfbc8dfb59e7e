package gffxml

import "github.com/Liareth/anphillia-tools/gff"

const (
	tagRoot      = "Gff"
	tagSubString = "SubString"

	attrName    = "Name"
	attrID      = "Id"
	attrType    = "Type"
	attrVersion = "Version"

	formatVersion = "1"

	// Labels of the fixed children of a CExoLocString element.
	labelStringRef = "StringRef"
	labelStringID  = "StringID"
	labelString    = "String"
)

// tags maps each kind to its element name. VOID has no textual form.
var tags = [...]string{
	gff.KindByte:      "Byte",
	gff.KindChar:      "Char",
	gff.KindWord:      "Word",
	gff.KindShort:     "Short",
	gff.KindDWord:     "DWord",
	gff.KindInt:       "Int",
	gff.KindDWord64:   "DWord64",
	gff.KindInt64:     "Int64",
	gff.KindFloat:     "Float",
	gff.KindDouble:    "Double",
	gff.KindString:    "CExoString",
	gff.KindResRef:    "ResRef",
	gff.KindLocString: "CExoLocString",
	gff.KindVoid:      "",
	gff.KindStruct:    "Struct",
	gff.KindList:      "List",
}

var kindsByTag = func() map[string]gff.Kind {
	m := make(map[string]gff.Kind, len(tags))
	for k, tag := range tags {
		if tag != "" {
			m[tag] = gff.Kind(k)
		}
	}
	return m
}()

// TagFor returns the element name used for kind k. The second result is
// false for VOID and for kinds outside the catalog.
func TagFor(k gff.Kind) (string, bool) {
	if int(k) >= len(tags) || tags[k] == "" {
		return "", false
	}
	return tags[k], true
}

// KindFor returns the kind stored by elements named tag.
func KindFor(tag string) (gff.Kind, bool) {
	k, ok := kindsByTag[tag]
	return k, ok
}
