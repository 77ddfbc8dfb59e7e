package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/Liareth/anphillia-tools/gff"
	"github.com/Liareth/anphillia-tools/packer"
)

func TestApplyFlags(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.Int("workers", 0, "")
	flagSet.StringSlice("types", nil, "")
	flagSet.String("cache-dir", "", "")
	flagSet.String("cache-compression", "", "")
	flagSet.String("charset", "", "")
	flagSet.Int("max-depth", 0, "")
	require.NoError(t, flagSet.Parse([]string{"--workers=3", "--types=utc,uti", "--cache-compression=lz4"}))

	cfg := packer.Default()
	cfg.Charset = "windows-1252"
	require.NoError(t, applyFlags(flagSet, cfg))
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, []string{"utc", "uti"}, cfg.Types)
	require.Equal(t, "lz4", cfg.Cache.Compression)
	require.Equal(t, "windows-1252", cfg.Charset, "unset flags keep file values")
}

func TestRun(t *testing.T) {
	color.NoColor = true
	in := t.TempDir()
	doc := gff.NewDocument("uti")
	doc.Root.Set("Tag", gff.String("SWORD"))
	var buf bytes.Buffer
	require.NoError(t, gff.Encode(&buf, doc))
	require.NoError(t, os.WriteFile(filepath.Join(in, "sword.uti"), buf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.uti"), []byte("nope"), 0o644))

	config := filepath.Join(t.TempDir(), "gffpack.yaml")
	require.NoError(t, os.WriteFile(config, []byte("workers: 1\ntypes: [uti]\n"), 0o644))

	out := t.TempDir()
	var stdout bytes.Buffer
	err := run([]string{"--config", config, out, in}, &stdout)
	require.EqualError(t, err, "1 files failed")
	require.Contains(t, stdout.String(), "gff -> xml: 1 converted (0 from cache), 0 unprocessed")
	require.Contains(t, stdout.String(), "bad.uti")
	_, err = os.Stat(filepath.Join(out, "uti", "sword.xml"))
	require.NoError(t, err)
}

func TestRunUsage(t *testing.T) {
	require.Error(t, run([]string{"only-one"}, &bytes.Buffer{}))
	require.Error(t, run([]string{"--workers=0", t.TempDir(), t.TempDir()}, &bytes.Buffer{}))
}

func TestFinish(t *testing.T) {
	color.NoColor = true
	failed := &packer.Report{Failed: []packer.Failure{{Src: "bad.utc", Err: gff.ErrInvalidHeader}}}

	var stdout bytes.Buffer
	err := finish(&stdout, failed, errors.Join(context.Canceled, failed.Err()))
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, err.Error(), "interrupted")
	require.Contains(t, stdout.String(), "bad.utc")

	stdout.Reset()
	err = finish(&stdout, &packer.Report{}, context.Canceled)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, stdout.String())

	err = finish(&stdout, failed, failed.Err())
	require.EqualError(t, err, "1 files failed")

	stdout.Reset()
	require.NoError(t, finish(&stdout, &packer.Report{}, nil))
	require.Contains(t, stdout.String(), "0 converted")
}
