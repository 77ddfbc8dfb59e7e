// gffxml converts a single file between binary GFF or TLK and XML.
//
//	gffxml [flags] IN OUT
//
// The direction follows the extensions: a .xml input is encoded to binary,
// anything else is decoded. An OUT ending in ".?" takes the extension of
// the document type, so "nw_orc.?" becomes "nw_orc.utc".
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/Liareth/anphillia-tools/convert"
	"github.com/Liareth/anphillia-tools/gffxml"
	"github.com/Liareth/anphillia-tools/packer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		verbose  bool
		charset  string
		maxDepth int
	)
	flagSet := pflag.NewFlagSet("gffxml", pflag.ContinueOnError)
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	flagSet.StringVar(&charset, "charset", packer.DefaultCharset, `code page of text in binary files ("" keeps bytes verbatim)`)
	flagSet.IntVar(&maxDepth, "max-depth", gffxml.DefaultMaxDepth, "maximum struct nesting")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gffxml [flags] IN OUT\n\n")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 2 {
		flagSet.Usage()
		return fmt.Errorf("expected IN and OUT, got %d arguments", flagSet.NArg())
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []convert.Option{convert.WithLogger(logger), convert.WithMaxDepth(maxDepth)}
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return fmt.Errorf("unknown charset %q", charset)
		}
		opts = append(opts, convert.WithCharset(enc))
	}

	dst, err := convert.File(flagSet.Arg(0), flagSet.Arg(1), opts...)
	if err != nil {
		return err
	}
	logger.Debug("wrote", "path", dst)
	return nil
}
