package packer

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Liareth/anphillia-tools/gff"
	"github.com/Liareth/anphillia-tools/gffxml"
	"github.com/Liareth/anphillia-tools/tlk"
)

func encodeDoc(t *testing.T, doc *gff.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gff.Encode(&buf, doc))
	return buf.Bytes()
}

func creature(tag string) []byte {
	doc := gff.NewDocument("utc")
	doc.Root.Set("Tag", gff.String(tag))
	doc.Root.Set("Appearance_Type", gff.Word(140))
	item := gff.NewStruct(1)
	item.Set("InventoryRes", gff.ResRef("nw_wswss001"))
	doc.Root.Set("ItemList", gff.List{item})
	var buf bytes.Buffer
	if err := gff.Encode(&buf, doc); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func dialog() []byte {
	doc := gff.NewDocument("dlg")
	entry := gff.NewStruct(0)
	text := &gff.LocString{StringRef: gff.NoStringRef}
	text.Add(0, "Hello there.")
	entry.Set("Text", text)
	doc.Root.Set("EntryList", gff.List{entry})
	doc.Root.Set("NumWords", gff.DWord(2))
	var buf bytes.Buffer
	if err := gff.Encode(&buf, doc); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func writeFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
}

func testConfig(in, out string) *Config {
	cfg := Default()
	cfg.In = in
	cfg.Out = out
	cfg.Workers = 2
	return cfg
}

func TestRunRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{
		"nw_orc.utc":      creature("NW_ORC"),
		"NW_GOBLIN.UTC":   creature("NW_GOBLIN"),
		"hello.dlg":       dialog(),
		"readme.txt":      []byte("not a gff"),
		"sub/ignored.utc": creature("DEEP"),
	})

	xmlDir := filepath.Join(t.TempDir(), "xml")
	report, err := Run(context.Background(), testConfig(src, xmlDir))
	require.NoError(t, err)
	require.Equal(t, ModeToXML, report.Mode)
	require.Len(t, report.Converted, 3)
	require.Empty(t, report.Failed)
	require.Equal(t, []string{filepath.Join(src, "readme.txt")}, report.Unprocessed)

	for _, p := range []string{"utc/nw_orc.xml", "utc/NW_GOBLIN.xml", "dlg/hello.xml", RepoRoot} {
		_, err := os.Stat(filepath.Join(xmlDir, p))
		require.NoError(t, err, p)
	}
	_, err = os.Stat(filepath.Join(xmlDir, "utc", "ignored.xml"))
	require.ErrorIs(t, err, fs.ErrNotExist, "input is not walked recursively")

	list, err := os.ReadFile(filepath.Join(xmlDir, UnprocessedFile))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(src, "readme.txt")+"\n", string(list))

	xml, err := os.ReadFile(filepath.Join(xmlDir, "dlg", "hello.xml"))
	require.NoError(t, err)
	require.Contains(t, string(xml), `<CExoString Name="String">Hello there.</CExoString>`)

	gffDir := filepath.Join(t.TempDir(), "gff")
	report, err = Run(context.Background(), testConfig(xmlDir, gffDir))
	require.NoError(t, err)
	require.Equal(t, ModeToGFF, report.Mode)
	require.Len(t, report.Converted, 3)
	require.Equal(t, []string{filepath.Join(xmlDir, UnprocessedFile)}, report.Unprocessed)

	got, err := os.ReadFile(filepath.Join(gffDir, "nw_orc.utc"))
	require.NoError(t, err)
	require.Equal(t, creature("NW_ORC"), got)
	got, err = os.ReadFile(filepath.Join(gffDir, "NW_GOBLIN.utc"))
	require.NoError(t, err)
	require.Equal(t, creature("NW_GOBLIN"), got)
	got, err = os.ReadFile(filepath.Join(gffDir, "hello.dlg"))
	require.NoError(t, err)
	require.Equal(t, dialog(), got)

	_, err = os.Stat(filepath.Join(gffDir, RepoRoot))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRunNoUnprocessedFile(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"a.utc": creature("A")})
	out := t.TempDir()
	_, err := Run(context.Background(), testConfig(src, out))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, UnprocessedFile))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRunCollectsFailures(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{
		"good.utc":   creature("GOOD"),
		"broken.utc": []byte("garbage"),
		"also.uti":   []byte(strings.Repeat("x", 80)),
	})
	out := t.TempDir()
	report, err := Run(context.Background(), testConfig(src, out))
	require.Error(t, err)
	require.ErrorIs(t, err, gff.ErrInvalidHeader)
	require.Len(t, report.Converted, 1)
	require.Len(t, report.Failed, 2)
	require.Equal(t, filepath.Join(src, "also.uti"), report.Failed[0].Src)
	require.Equal(t, filepath.Join(src, "broken.utc"), report.Failed[1].Src)
	require.Contains(t, err.Error(), "broken.utc")

	_, statErr := os.Stat(filepath.Join(out, "utc", "good.xml"))
	require.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(out, "utc", "broken.xml"))
	require.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestRunCache(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"a.utc": creature("A"), "b.dlg": dialog()})
	cacheDir := t.TempDir()

	run := func(in, out string) *Report {
		cfg := testConfig(in, out)
		cfg.Cache.Dir = cacheDir
		cfg.Cache.Compression = "lz4"
		report, err := Run(context.Background(), cfg)
		require.NoError(t, err)
		return report
	}

	xml1 := filepath.Join(t.TempDir(), "x1")
	first := run(src, xml1)
	require.Equal(t, 0, first.Cached())

	xml2 := filepath.Join(t.TempDir(), "x2")
	second := run(src, xml2)
	require.Equal(t, 2, second.Cached())
	for _, name := range []string{"utc/a.xml", "dlg/b.xml"} {
		a, err := os.ReadFile(filepath.Join(xml1, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(xml2, name))
		require.NoError(t, err)
		require.Equal(t, a, b)
	}

	// The reverse direction uses its own domain and resolves the type
	// extension from cached bytes.
	gff1 := filepath.Join(t.TempDir(), "g1")
	require.Equal(t, 0, run(xml1, gff1).Cached())
	gff2 := filepath.Join(t.TempDir(), "g2")
	require.Equal(t, 2, run(xml1, gff2).Cached())
	got, err := os.ReadFile(filepath.Join(gff2, "a.utc"))
	require.NoError(t, err)
	require.Equal(t, creature("A"), got)
}

func TestRunCanceled(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"a.utc": creature("A")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := Run(ctx, testConfig(src, t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, report.Converted)
}

func TestRunReadError(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"a.utc": creature("A")})
	orig := readFile
	defer func() { readFile = orig }()
	boom := errors.New("boom")
	readFile = func(string) ([]byte, error) { return nil, boom }

	report, err := Run(context.Background(), testConfig(src, t.TempDir()))
	require.ErrorIs(t, err, boom)
	require.Len(t, report.Failed, 1)
}

func TestRunCharset(t *testing.T) {
	doc := gff.NewDocument("dlg")
	doc.Root.Set("Text", gff.String("Grüße"))
	var buf bytes.Buffer
	enc, err := (&Config{Charset: "windows-1252"}).encoding()
	require.NoError(t, err)
	require.NoError(t, gff.Encode(&buf, doc, gff.WithWriteCharset(enc)))

	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"greet.dlg": buf.Bytes()})
	out := t.TempDir()
	cfg := testConfig(src, out)
	cfg.Charset = "windows-1252"
	_, err = Run(context.Background(), cfg)
	require.NoError(t, err)
	xml, err := os.ReadFile(filepath.Join(out, "dlg", "greet.xml"))
	require.NoError(t, err)
	require.Contains(t, string(xml), ">Grüße<")
}

func TestRunMissingInput(t *testing.T) {
	_, err := Run(context.Background(), testConfig(filepath.Join(t.TempDir(), "nope"), t.TempDir()))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDetectMode(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, ModeToXML, DetectMode(dir))
	writeFiles(t, dir, map[string][]byte{RepoRoot: nil})
	require.Equal(t, ModeToGFF, DetectMode(dir))
	require.Equal(t, "xml -> gff", ModeToGFF.String())
}

func marshalXML(t *testing.T, fileType, tag string) []byte {
	t.Helper()
	doc := gff.NewDocument(fileType)
	doc.Root.Set("Tag", gff.String(tag))
	b, err := gffxml.Marshal(doc)
	require.NoError(t, err)
	return b
}

func TestRunDuplicateOutputToGFF(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{
		RepoRoot:    nil,
		"a/x.xml":   marshalXML(t, "utc", "FIRST"),
		"b/x.xml":   marshalXML(t, "utc", "SECOND"),
		"utc/y.xml": marshalXML(t, "utc", "CREATURE"),
		"dlg/y.xml": marshalXML(t, "dlg", "DIALOG"),
		"c/z.xml":   []byte("<broken"),
		"d/z.xml":   []byte("<broken"),
	})
	out := t.TempDir()
	report, err := Run(context.Background(), testConfig(src, out))
	require.ErrorIs(t, err, ErrDuplicateOutput)

	require.Len(t, report.Converted, 3)
	var dups, parse int
	for _, f := range report.Failed {
		switch {
		case errors.Is(f.Err, ErrDuplicateOutput):
			dups++
			require.Equal(t, filepath.Join(src, "b", "x.xml"), f.Src)
			require.Contains(t, f.Err.Error(), filepath.Join(src, "a", "x.xml"))
		case errors.Is(f.Err, gffxml.ErrParse):
			parse++
		}
	}
	require.Equal(t, 1, dups)
	require.Equal(t, 2, parse, "unreadable sources fail on their own error")

	doc, err := os.ReadFile(filepath.Join(out, "x.utc"))
	require.NoError(t, err)
	got, err := gff.Decode(bytes.NewReader(doc))
	require.NoError(t, err)
	tag, _ := got.Root.Get("Tag")
	require.Equal(t, gff.String("FIRST"), tag)

	for _, name := range []string{"y.utc", "y.dlg"} {
		_, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
	}
}

func TestRunDuplicateOutputToXML(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{
		"orc.UTC": creature("UPPER"),
		"orc.utc": creature("LOWER"),
	})
	out := t.TempDir()
	report, err := Run(context.Background(), testConfig(src, out))
	require.ErrorIs(t, err, ErrDuplicateOutput)
	require.Len(t, report.Converted, 1)
	require.Equal(t, filepath.Join(src, "orc.UTC"), report.Converted[0].Src)
	require.Len(t, report.Failed, 1)
	require.Equal(t, filepath.Join(src, "orc.utc"), report.Failed[0].Src)
}

func TestRunTalkTable(t *testing.T) {
	table := tlk.New(0)
	table.Set(0, tlk.Entry{Flags: tlk.FlagText, Text: "Bad Strref"})
	table.Set(5, tlk.Entry{Flags: tlk.FlagText | tlk.FlagSound, Text: "Grüße", SoundResRef: "vs_greet"})
	enc, err := (&Config{Charset: DefaultCharset}).encoding()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tlk.Encode(&buf, table, tlk.WithCharset(enc)))

	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"dialog.tlk": buf.Bytes(), "nw_orc.utc": creature("NW_ORC")})
	xmlDir := filepath.Join(t.TempDir(), "xml")
	report, err := Run(context.Background(), testConfig(src, xmlDir))
	require.NoError(t, err)
	require.Len(t, report.Converted, 2)

	xml, err := os.ReadFile(filepath.Join(xmlDir, "tlk", "dialog.xml"))
	require.NoError(t, err)
	require.Contains(t, string(xml), "<String>Grüße</String>")

	gffDir := filepath.Join(t.TempDir(), "gff")
	report, err = Run(context.Background(), testConfig(xmlDir, gffDir))
	require.NoError(t, err)
	require.Len(t, report.Converted, 2)
	got, err := os.ReadFile(filepath.Join(gffDir, "dialog.tlk"))
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), got)
}
