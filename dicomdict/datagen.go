package dicomdict

import (
	"encoding/json"
	"io"
)

// dataEntry is the JSON record shape of the data artifact: the full entry,
// with the notes field omitted rather than emitted empty.
type dataEntry struct {
	Tag   string `json:"tag"`
	Name  string `json:"name"`
	Alias string `json:"alias"`
	VR    string `json:"vr"`
	VM    string `json:"vm"`
	Notes string `json:"notes,omitempty"`
}

// WriteData renders entries as the JSON data artifact: a single object keyed
// by tag string. encoding/json sorts map keys lexicographically during
// encoding, giving a canonical key-ordered record without a third-party
// codec.
func WriteData(w io.Writer, entries []Entry) error {
	out := make(map[string]dataEntry, len(entries))
	for _, e := range entries {
		out[e.Tag] = dataEntry{
			Tag: e.Tag, Name: e.Name, Alias: e.Alias, VR: e.VR, VM: e.VM, Notes: e.Notes,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
