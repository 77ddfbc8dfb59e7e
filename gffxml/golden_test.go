package gffxml

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Liareth/anphillia-tools/gff"
)

var update = flag.Bool("update", false, "update golden files")

func orcDoc() *gff.Document {
	doc := gff.NewDocument("utc")
	r := doc.Root
	r.Set("TemplateResRef", gff.ResRef("nw_orca"))
	r.Set("Tag", gff.String("NW_ORC"))
	name := &gff.LocString{StringRef: 5012}
	name.Add(0, "Orc")
	r.Set("FirstName", name)
	r.Set("LastName", &gff.LocString{StringRef: gff.NoStringRef})
	r.Set("Gender", gff.Byte(0))
	r.Set("NaturalAC", gff.Char(-1))
	r.Set("Appearance_Type", gff.Word(140))
	r.Set("HitPoints", gff.Short(12))
	r.Set("Gold", gff.DWord(15))
	r.Set("Experience", gff.Int(-3))
	r.Set("Serial", gff.DWord64(18446744073709551615))
	r.Set("Offset", gff.Int64(-9000000000))
	r.Set("ChallengeRate", gff.Float(0.5))
	r.Set("Scale", gff.Double(1.25))
	r.Set("Conversation", gff.ResRef(""))
	r.Set("Description", gff.String(""))

	stats := gff.NewStruct(7)
	stats.Set("Str", gff.Byte(16))
	r.Set("Stats", stats)

	item := gff.NewStruct(1)
	item.Set("InventoryRes", gff.ResRef("nw_wswss001"))
	item.Set("Repos_PosX", gff.Word(0))
	r.Set("ItemList", gff.List{item, gff.NewStruct(2)})
	r.Set("Equip_ItemList", gff.List{})
	return doc
}

var structCmp = cmp.AllowUnexported(gff.Struct{})

func TestGolden(t *testing.T) {
	goldenFile := filepath.Join("testdata", "orc.xml")

	actual, err := Marshal(orcDoc())
	require.NoError(t, err)
	if *update {
		require.NoError(t, os.WriteFile(goldenFile, actual, 0o644))
	}
	expected, err := os.ReadFile(goldenFile)
	require.NoError(t, err, "Golden file not found. Run with -update to create it.")
	require.Equal(t, string(expected), string(actual))

	got, err := Unmarshal(expected)
	require.NoError(t, err)
	if diff := cmp.Diff(orcDoc(), got, structCmp); diff != "" {
		t.Fatalf("import mismatch (-want +got):\n%s", diff)
	}
}
