package tlkxml

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Liareth/anphillia-tools/tlk"
)

func dialogTable() *tlk.Table {
	t := tlk.New(0)
	t.Set(0, tlk.Entry{Flags: tlk.FlagText, Text: "Bad Strref"})
	t.Set(1, tlk.Entry{
		Flags:       tlk.FlagText | tlk.FlagSound | tlk.FlagSoundLength,
		Text:        "Greetings, traveller.",
		SoundResRef: "vs_nwgreet",
		SoundLength: 2.25,
	})
	t.Set(3, tlk.Entry{Flags: tlk.FlagText, Text: "line1\r\nline2 <&> \"q\"", VolumeVariance: 3, PitchVariance: 7})
	t.Set(4, tlk.Entry{Flags: tlk.FlagText})
	t.Set(5, tlk.Entry{Flags: tlk.FlagSoundLength, SoundLength: 0.1})
	return t
}

func TestMarshal(t *testing.T) {
	b, err := Marshal(dialogTable())
	require.NoError(t, err)
	want := `<?xml version="1.0" encoding="UTF-8"?>
<Tlk Version="1" LanguageId="0">
  <Entry StrRef="0">
    <String>Bad Strref</String>
  </Entry>
  <Entry StrRef="1">
    <String>Greetings, traveller.</String>
    <SoundResRef>vs_nwgreet</SoundResRef>
    <SoundLength>2.25</SoundLength>
  </Entry>
  <Entry StrRef="3">
    <String>line1&#xD;
line2 &lt;&amp;&gt; "q"</String>
    <VolumeVariance>3</VolumeVariance>
    <PitchVariance>7</PitchVariance>
  </Entry>
  <Entry StrRef="4">
    <String/>
  </Entry>
  <Entry StrRef="5">
    <SoundLength>0.1</SoundLength>
  </Entry>
</Tlk>
`
	require.Equal(t, want, string(b))
}

func TestRoundTrip(t *testing.T) {
	in := dialogTable()
	b, err := Marshal(in)
	require.NoError(t, err)
	out, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, in, out)

	var bin1, bin2 bytes.Buffer
	require.NoError(t, tlk.Encode(&bin1, in))
	require.NoError(t, tlk.Encode(&bin2, out))
	require.Equal(t, bin1.Bytes(), bin2.Bytes())
}

func TestTrailingEmptyEntriesKeepCount(t *testing.T) {
	in := tlk.New(2)
	in.Set(0, tlk.Entry{Flags: tlk.FlagText, Text: "a"})
	in.Set(6, tlk.Entry{})
	b, err := Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(b), `<Tlk Version="1" LanguageId="2" Count="7">`)
	out, err := Unmarshal(b)
	require.NoError(t, err)
	require.Len(t, out.Entries, 7)
	require.Equal(t, in, out)
}

func TestUnflaggedDataDropped(t *testing.T) {
	in := tlk.New(0)
	in.Set(0, tlk.Entry{Text: "orphan", SoundResRef: "snd", SoundLength: 1, Flags: 0x10})
	in.Set(1, tlk.Entry{Flags: tlk.FlagText, Text: "kept"})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	b, err := Marshal(in, WithLogger(logger))
	require.NoError(t, err)
	require.NotContains(t, string(b), "orphan")
	for _, msg := range []string{"dropping unflagged text", "dropping unflagged sound", "dropping unflagged sound length", "dropping unknown entry flags"} {
		require.Contains(t, logs.String(), msg)
	}
	require.Contains(t, logs.String(), "path=/Entry[0]")

	out, err := Unmarshal(b)
	require.NoError(t, err)
	require.Len(t, out.Entries, 2)
	require.True(t, out.Entries[0].IsZero())
}

func TestImportHandWritten(t *testing.T) {
	out, err := Unmarshal([]byte(`<Tlk LanguageId="1">
  <Entry StrRef="2"><SoundLength> 1.5 </SoundLength><String>b</String></Entry>
  <Entry StrRef="0"><String>a</String></Entry>
</Tlk>`))
	require.NoError(t, err)
	require.Equal(t, uint32(1), out.LanguageID)
	require.Len(t, out.Entries, 3)
	require.Equal(t, tlk.Entry{Flags: tlk.FlagText | tlk.FlagSoundLength, Text: "b", SoundLength: 1.5}, out.Entries[2])
	require.True(t, out.Entries[1].IsZero())
}

func TestImportErrors(t *testing.T) {
	cases := []struct {
		name string
		xml  string
		want error
		path string
	}{
		{"malformed", `<Tlk`, ErrParse, ""},
		{"wrong root", `<Gff Type="UTC"/>`, ErrStructural, ""},
		{"bad version", `<Tlk Version="2"/>`, ErrStructural, ""},
		{"bad language", `<Tlk LanguageId="x"/>`, ErrParse, ""},
		{"bad count", `<Tlk Count="-1"/>`, ErrParse, ""},
		{"stray child", `<Tlk><String/></Tlk>`, ErrStructural, ""},
		{"no strref", `<Tlk><Entry/></Tlk>`, ErrStructural, ""},
		{"bad strref", `<Tlk><Entry StrRef="4294967296"/></Tlk>`, ErrParse, ""},
		{"duplicate strref", `<Tlk><Entry StrRef="1"/><Entry StrRef="1"/></Tlk>`, ErrStructural, "/Entry[1]"},
		{"repeated element", `<Tlk><Entry StrRef="1"><String/><String/></Entry></Tlk>`, ErrStructural, "/Entry[1]/String"},
		{"unknown element", `<Tlk><Entry StrRef="1"><Text/></Entry></Tlk>`, ErrStructural, "/Entry[1]"},
		{"bad sound length", `<Tlk><Entry StrRef="3"><SoundLength>long</SoundLength></Entry></Tlk>`, ErrParse, "/Entry[3]/SoundLength"},
		{"bad variance", `<Tlk><Entry StrRef="3"><PitchVariance>-1</PitchVariance></Entry></Tlk>`, ErrParse, "/Entry[3]/PitchVariance"},
		{"long resref", `<Tlk><Entry StrRef="3"><SoundResRef>` + strings.Repeat("s", 17) + `</SoundResRef></Entry></Tlk>`, ErrCapacity, "/Entry[3]/SoundResRef"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.xml))
			require.ErrorIs(t, err, tc.want)
			var e *Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, tc.path, e.Path)
		})
	}
}

func TestExportErrors(t *testing.T) {
	_, err := Export(nil)
	require.ErrorIs(t, err, ErrStructural)

	for _, text := range []string{"caf\xe9", "bell\x07"} {
		in := tlk.New(0)
		in.Set(2, tlk.Entry{Flags: tlk.FlagText, Text: text})
		_, err := Marshal(in)
		require.ErrorIs(t, err, ErrInvalidText)
		require.ErrorContains(t, err, "/Entry[2]/String")
	}

	in := tlk.New(0)
	in.Set(0, tlk.Entry{Flags: tlk.FlagSound, SoundResRef: strings.Repeat("s", tlk.MaxSoundResRefLen+1)})
	_, err = Marshal(in)
	require.ErrorIs(t, err, ErrCapacity)
}
