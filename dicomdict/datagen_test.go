package dicomdict_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odincare/dicomtoken/dicomdict"
)

func TestWriteData_KeyedByTagOmitsEmptyNotes(t *testing.T) {
	entries := []dicomdict.Entry{
		{Tag: "(0028,0010)", Name: "Rows", Alias: "Rows", VR: "US", VM: "1"},
		{Tag: "(0008,0005)", Name: "Specific Character Set", Alias: "SpecificCharacterSet", VR: "CS", VM: "1-n"},
	}

	var buf bytes.Buffer
	require.NoError(t, dicomdict.WriteData(&buf, entries))

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Contains(t, decoded, "(0028,0010)")
	require.NotContains(t, decoded["(0028,0010)"], "notes")
	require.Equal(t, "Rows", decoded["(0028,0010)"]["alias"])
}

func TestWriteData_NotesKeptWhenPresent(t *testing.T) {
	entries := []dicomdict.Entry{
		{Tag: "(50xx,0200)", Name: "Display Information", Alias: "DisplayInformation", VR: "CS", VM: "1", Notes: "RET"},
	}

	var buf bytes.Buffer
	require.NoError(t, dicomdict.WriteData(&buf, entries))

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "RET", decoded["(50xx,0200)"]["notes"])
}
