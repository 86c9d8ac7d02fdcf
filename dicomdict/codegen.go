package dicomdict

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// CodegenOptions controls the code-artifact writer.
type CodegenOptions struct {
	IncludeRetired bool
}

var (
	singleTagPattern   = regexp.MustCompile(`^\(([0-9A-F]{4}),([0-9A-F]{4})\)$`)
	group100TagPattern = regexp.MustCompile(`^\(([0-9A-F]{2})xx,([0-9A-F]{4})\)$`)
	element100Pattern  = regexp.MustCompile(`^\(([0-9A-F]{4}),([0-9A-F]{2})xx\)$`)
)

// WriteCode renders entries as the dicomtag.ENTRIES source artifact: a fixed
// generated-code header, one line per kept entry, and a closing bracket. It
// targets package dicomtag directly — the same package entries_generated.go
// already lives in — rather than a separate consumer package that imports
// dicomtag's types, since the artifact and its target types live in the
// same Go module.
func WriteCode(w io.Writer, entries []Entry, opts CodegenOptions) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "// Code generated by dicomdict from PS3.6 Table 6-1. DO NOT EDIT.")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "package dicomtag")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "var ENTRIES = []DictionaryEntryRef{")

	for _, e := range entries {
		line, ok := renderEntryLine(e, opts)
		if !ok {
			continue
		}
		fmt.Fprintln(bw, line)
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// renderEntryLine applies the per-entry filtering and formatting rules in
// order, returning ok=false for a row that should be skipped entirely.
func renderEntryLine(e Entry, opts CodegenOptions) (string, bool) {
	if e.Alias == "" {
		return "", false
	}
	if e.Notes == "RET" && !opts.IncludeRetired {
		return "", false
	}

	tagExpr, ok := renderTagExpr(e.Tag)
	if !ok {
		return "", false
	}

	vr := e.VR
	if vr == "See Note" {
		vr = "UN See Note"
	}
	primary, remainder := vr, ""
	if len(vr) > 2 {
		primary, remainder = vr[:2], strings.TrimSpace(vr[2:])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\t{TagRange: %s, Alias: %q, VR: %s", tagExpr, e.Alias, primary)
	if remainder != "" {
		fmt.Fprintf(&b, " /* %s */", remainder)
	}
	b.WriteString("},")
	if e.Notes != "" {
		fmt.Fprintf(&b, " // %s", e.Notes)
	}
	return b.String(), true
}

// renderTagExpr classifies a tag cell against the three exclusive tag
// patterns the standard's table uses and renders the matching dicomtag
// constructor call.
func renderTagExpr(tag string) (string, bool) {
	if m := singleTagPattern.FindStringSubmatch(tag); m != nil {
		return fmt.Sprintf("Single(Tag{0x%s, 0x%s})", m[1], m[2]), true
	}
	if m := group100TagPattern.FindStringSubmatch(tag); m != nil {
		return fmt.Sprintf("Group100(Tag{0x%s00, 0x%s})", m[1], m[2]), true
	}
	if m := element100Pattern.FindStringSubmatch(tag); m != nil {
		return fmt.Sprintf("Element100(Tag{0x%s, 0x%s00})", m[1], m[2]), true
	}
	return "", false
}
