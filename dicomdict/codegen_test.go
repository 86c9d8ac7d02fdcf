package dicomdict_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odincare/dicomtoken/dicomdict"
)

func TestWriteCode_SingleTagNoNotes(t *testing.T) {
	// S5: (0028,0010) Rows, VR US, no notes: a single-tag entry, no trailing
	// comment, no remainder comment.
	entries := []dicomdict.Entry{{Tag: "(0028,0010)", Alias: "Rows", VR: "US"}}

	var buf bytes.Buffer
	require.NoError(t, dicomdict.WriteCode(&buf, entries, dicomdict.CodegenOptions{IncludeRetired: true}))

	require.Contains(t, buf.String(), "{TagRange: Single(Tag{0x0028, 0x0010}), Alias: \"Rows\", VR: US},\n")
}

func TestWriteCode_Group100RetiredEntry(t *testing.T) {
	// S6: (50xx,0200) DisplayInformation, VR CS, notes RET.
	entries := []dicomdict.Entry{{Tag: "(50xx,0200)", Alias: "DisplayInformation", VR: "CS", Notes: "RET"}}

	var buf bytes.Buffer
	require.NoError(t, dicomdict.WriteCode(&buf, entries, dicomdict.CodegenOptions{IncludeRetired: true}))
	require.Contains(t, buf.String(), "{TagRange: Group100(Tag{0x5000, 0x0200}), Alias: \"DisplayInformation\", VR: CS}, // RET")

	buf.Reset()
	require.NoError(t, dicomdict.WriteCode(&buf, entries, dicomdict.CodegenOptions{IncludeRetired: false}))
	require.NotContains(t, buf.String(), "DisplayInformation")
}

func TestWriteCode_SkipsEntryWithoutAlias(t *testing.T) {
	entries := []dicomdict.Entry{{Tag: "(0028,0010)", VR: "US"}}

	var buf bytes.Buffer
	require.NoError(t, dicomdict.WriteCode(&buf, entries, dicomdict.CodegenOptions{IncludeRetired: true}))
	require.NotContains(t, buf.String(), "0028")
}

func TestWriteCode_SkipsUnrecognizedTagPattern(t *testing.T) {
	entries := []dicomdict.Entry{{Tag: "malformed", Alias: "Bogus", VR: "US"}}

	var buf bytes.Buffer
	require.NoError(t, dicomdict.WriteCode(&buf, entries, dicomdict.CodegenOptions{IncludeRetired: true}))
	require.NotContains(t, buf.String(), "Bogus")
}

func TestWriteCode_VRWithRemainderAsInlineComment(t *testing.T) {
	entries := []dicomdict.Entry{{Tag: "(0018,9004)", Alias: "ContentQualification", VR: "See Note"}}

	var buf bytes.Buffer
	require.NoError(t, dicomdict.WriteCode(&buf, entries, dicomdict.CodegenOptions{IncludeRetired: true}))
	require.Contains(t, buf.String(), "VR: UN /* See Note */")
}
