package dicomdict

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/odincare/dicomtoken/dicomlog"
)

// tableID is the xml:id the standard's own Part 6 document places on its
// element-dictionary table.
const tableID = "table_6-1"

type state uint8

const (
	stateOff state = iota
	stateInTableHead
	stateInTable
	stateInCellTag
	stateInCellName
	stateInCellKeyword
	stateInCellVR
	stateInCellVM
	stateInCellNotes
	stateInCellUnknown
)

// nextCellState advances through the six cell states in order as each
// subsequent para within a row opens, then stays at stateInCellUnknown for
// any extra cells beyond the six known ones.
var nextCellState = map[state]state{
	stateInCellTag:     stateInCellName,
	stateInCellName:    stateInCellKeyword,
	stateInCellKeyword: stateInCellVR,
	stateInCellVR:      stateInCellVM,
	stateInCellVM:      stateInCellNotes,
	stateInCellNotes:   stateInCellUnknown,
	stateInCellUnknown: stateInCellUnknown,
}

// Options configures Ingest. AliasGlob, when non-empty, is a keyword/alias
// filter applied at ingest time: only rows whose alias matches the glob
// pattern are kept. --no-retired is not an Ingest concern; it is applied
// downstream by the code-artifact writer, since it depends on the notes
// cell's literal "RET" value rather than on alias matching.
type Options struct {
	AliasGlob string
}

// Ingest walks the XML events of r directly — the same xml.Decoder.Token()
// loop shape as gendatadict's eachToken, generalized to also recognize
// table/tbody/para/tr element boundaries instead of only CharData — and
// returns every matching Entry in document order. Per-row tag-pattern
// mismatches are not Ingest's concern; they are filtered downstream by the
// code-artifact writer. A malformed XML document aborts the pass and
// returns the decoder's error.
func Ingest(r io.Reader, opts Options) ([]Entry, error) {
	var aliasMatch func(string) bool
	if opts.AliasGlob != "" {
		m, err := compileAliasGlob(opts.AliasGlob)
		if err != nil {
			return nil, fmt.Errorf("dicomdict: alias filter %q: %w", opts.AliasGlob, err)
		}
		aliasMatch = m
	}

	dec := xml.NewDecoder(r)
	st := stateOff
	var cur Entry
	var entries []Entry

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("dicomdict: parsing dictionary table: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "table":
				if st == stateOff && hasTableID(t) {
					st = stateInTableHead
				}
			case "tbody":
				if st == stateInTableHead {
					st = stateInTable
				}
			case "para":
				if st == stateInTable {
					cur = Entry{}
					st = stateInCellTag
				} else if next, ok := nextCellState[st]; ok {
					st = next
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "tr":
				if st != stateOff && cur.Tag != "" {
					if aliasMatch == nil || aliasMatch(cur.Alias) {
						entries = append(entries, cur)
						dicomlog.Vprintf(2, "dicomdict: accepted %s (%s)", cur.Tag, cur.Alias)
					} else {
						dicomlog.Vprintf(3, "dicomdict: skipped %s (%s): alias does not match filter", cur.Tag, cur.Alias)
					}
				}
				cur = Entry{}
				if st != stateOff {
					st = stateInTable
				}
			case "tbody":
				if st != stateOff {
					return entries, nil
				}
			}

		case xml.CharData:
			text := stripZeroWidthSpace(string(t))
			switch st {
			case stateInCellTag:
				cur.Tag += text
			case stateInCellName:
				cur.Name += text
			case stateInCellKeyword:
				cur.Alias += text
			case stateInCellVR:
				cur.VR += text
			case stateInCellVM:
				cur.VM += text
			case stateInCellNotes:
				cur.Notes += text
			}
		}
	}
}

func hasTableID(t xml.StartElement) bool {
	for _, a := range t.Attr {
		if a.Name.Local == "id" && a.Value == tableID {
			return true
		}
	}
	return false
}

func stripZeroWidthSpace(s string) string {
	return strings.ReplaceAll(s, "\u200b", "")
}
