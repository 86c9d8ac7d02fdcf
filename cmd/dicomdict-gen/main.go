// Command dicomdict-gen ingests the DICOM standard's Part 6 element table
// and writes it out as either a Go source artifact or a JSON data artifact,
// grounded on gillesdemey-go-dicom/dicomutil's flag-based CLI shape.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/odincare/dicomtoken/dicomdict"
	"github.com/odincare/dicomtoken/dicomlog"
)

const defaultSourceURL = "http://dicom.nema.org/medical/dicom/current/source/docbook/part06/part06.xml"

var (
	output    = flag.String("o", "", "output file (default entries.rs for -f rs, entries.json for -f data)")
	format    = flag.String("f", "rs", "output format: rs (code) or data (JSON)")
	noRetired = flag.Bool("no-retired", false, "exclude entries whose notes cell is exactly \"RET\"")
	aliasGlob = flag.String("k", "", "only emit entries whose alias matches this glob pattern")
)

func main() {
	flag.Parse()

	from := defaultSourceURL
	if flag.NArg() > 0 {
		from = flag.Arg(0)
	}

	out := *output
	if out == "" {
		switch *format {
		case "data":
			out = "entries.json"
		case "rs":
			out = "entries.rs"
		default:
			out = "entries"
		}
	}

	if err := run(from, out, *format, *noRetired, *aliasGlob); err != nil {
		dicomlog.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(from, out, format string, noRetired bool, aliasGlob string) error {
	dicomlog.Infof("Downloading %s...", from)
	src, err := dicomdict.OpenSource(from)
	if err != nil {
		return err
	}
	defer src.Close()

	entries, err := dicomdict.Ingest(src, dicomdict.Options{AliasGlob: aliasGlob})
	if err != nil {
		return err
	}
	dicomlog.Infof("Parsed %d entries", len(entries))

	dicomlog.Infof("Writing %s...", out)
	dst, err := dicomdict.CreateOutput(out)
	if err != nil {
		return err
	}
	defer dst.Close()

	switch format {
	case "data":
		return dicomdict.WriteData(dst, entries)
	case "rs":
		return dicomdict.WriteCode(dst, entries, dicomdict.CodegenOptions{IncludeRetired: !noRetired})
	default:
		return fmt.Errorf("dicomdict-gen: unknown format %q (want rs or data)", format)
	}
}
