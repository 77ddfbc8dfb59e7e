// gffpack converts a directory of GFF and TLK files to XML, or back.
//
//	gffpack [flags] OUT IN
//
// A directory holding a REPO_ROOT marker is treated as XML and converted to
// binary; any other directory is converted to XML and the marker is written
// to OUT. Settings may be read from a YAML file with --config; flags given
// on the command line override it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/Liareth/anphillia-tools/packer"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var (
		configPath string
		verbose    bool
	)
	flagSet := pflag.NewFlagSet("gffpack", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	flagSet.IntP("workers", "j", 0, "files converted at once (default: number of CPUs)")
	flagSet.StringSlice("types", nil, "file extensions converted to XML")
	flagSet.String("cache-dir", "", "conversion cache directory")
	flagSet.String("cache-compression", "", "cache compression: none, zip, zstd, lz4 or brotli")
	flagSet.String("charset", "", `code page of text in binary files (default windows-1252, "" keeps bytes verbatim)`)
	flagSet.Int("max-depth", 0, "maximum struct nesting")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gffpack [flags] OUT IN\n\n")
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
		return fmt.Errorf("expected OUT and IN, got %d arguments", flagSet.NArg())
	}

	cfg := packer.Default()
	if configPath != "" {
		var err error
		if cfg, err = packer.LoadFile(configPath); err != nil {
			return err
		}
	}
	if err := applyFlags(flagSet, cfg); err != nil {
		return err
	}
	cfg.Out, cfg.In = flagSet.Arg(0), flagSet.Arg(1)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := packer.Run(ctx, cfg)
	return finish(stdout, report, err)
}

// finish prints the summary of a run that got as far as converting and
// returns the error that decides the exit status.
func finish(stdout io.Writer, report *packer.Report, err error) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		if len(report.Failed) > 0 {
			printSummary(stdout, report)
		}
		return fmt.Errorf("interrupted: %w", err)
	case err != nil && len(report.Failed) == 0:
		return err
	}
	printSummary(stdout, report)
	if err != nil {
		return fmt.Errorf("%d files failed", len(report.Failed))
	}
	return nil
}

// applyFlags copies the flags set on the command line into cfg.
func applyFlags(flagSet *pflag.FlagSet, cfg *packer.Config) error {
	var err error
	flagSet.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "workers":
			cfg.Workers, err = flagSet.GetInt(f.Name)
		case "types":
			cfg.Types, err = flagSet.GetStringSlice(f.Name)
		case "cache-dir":
			cfg.Cache.Dir, err = flagSet.GetString(f.Name)
		case "cache-compression":
			cfg.Cache.Compression, err = flagSet.GetString(f.Name)
		case "charset":
			cfg.Charset, err = flagSet.GetString(f.Name)
		case "max-depth":
			cfg.MaxDepth, err = flagSet.GetInt(f.Name)
		}
	})
	return err
}

func printSummary(w io.Writer, r *packer.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s: %s converted (%d from cache), %s unprocessed\n",
		r.Mode, green(len(r.Converted)), r.Cached(), yellow(len(r.Unprocessed)))
	if len(r.Failed) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", red(fmt.Sprintf("%d failed:", len(r.Failed))))
	for _, f := range r.Failed {
		fmt.Fprintf(w, "  %s\n", red(strings.TrimSpace(f.Error())))
	}
}
