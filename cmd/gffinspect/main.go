// gffinspect prints a JSON summary of a binary GFF file: its header counts
// and the labels and kinds of the top-level fields.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/Liareth/anphillia-tools/gff"
)

type field struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
	// Len is the member count of a list or the field count of a struct.
	Len int `json:"len,omitempty"`
}

type summary struct {
	gff.Info
	Ext    string  `json:"ext"`
	Fields []field `json:"fields"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var headerOnly bool
	flagSet := pflag.NewFlagSet("gffinspect", pflag.ContinueOnError)
	flagSet.BoolVar(&headerOnly, "header", false, "print header counts only")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: gffinspect [--header] FILE")
	}

	data, err := os.ReadFile(flagSet.Arg(0))
	if err != nil {
		return err
	}
	info, err := gff.ReadInfo(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	s := summary{Info: info, Ext: info.OutputExt(), Fields: []field{}}
	if !headerOnly {
		doc, err := gff.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		for _, f := range doc.Root.Fields() {
			entry := field{Label: f.Label, Kind: f.Value.Kind().String()}
			switch v := f.Value.(type) {
			case gff.List:
				entry.Len = len(v)
			case *gff.Struct:
				entry.Len = v.Len()
			}
			s.Fields = append(s.Fields, entry)
		}
	}

	b, _ := json.MarshalIndent(s, "", "  ")
	fmt.Println(string(b))
	return nil
}
