package dicomio_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odincare/dicomtoken"
	"github.com/odincare/dicomtoken/dicomio"
	"github.com/odincare/dicomtoken/dicomtag"
)

func drain(t *testing.T, it dicom.TokenIterator) []dicom.DataToken {
	t.Helper()
	var toks []dicom.DataToken
	for {
		tok, err := it.Next()
		if err == io.EOF {
			return toks
		}
		require.NoError(t, err)
		toks = append(toks, tok)
	}
}

func TestWriteTokens_RoundTrip_PrimitiveElement(t *testing.T) {
	header := dicom.DataElementHeader{
		Tag: dicomtag.Tag{Group: 0x0008, Element: 0x0060}, VR: dicomtag.CS, Length: dicomtag.DefinedLength(2),
	}
	elem := dicom.NewDataElement(header, dicom.NewPrimitiveValue(dicom.NewStringsValue("CT")))

	var buf bytes.Buffer
	require.NoError(t, dicomio.WriteTokens(&buf, elem.Tokens()))

	got := drain(t, dicomio.NewTokenReader(&buf))
	require.Len(t, got, 2)

	gotHeader, ok := dicom.HeaderOf(got[0])
	require.True(t, ok)
	require.Equal(t, header.Tag, gotHeader.Tag)
	require.Equal(t, header.VR, gotHeader.VR)

	gotVal, ok := dicom.PrimitiveValueOf(got[1])
	require.True(t, ok)
	require.Equal(t, []string{"CT"}, gotVal.Strings())
}

func TestWriteTokens_RoundTrip_SequenceWithItem(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0040, Element: 0x0275}
	innerHeader := dicom.DataElementHeader{
		Tag: dicomtag.Tag{Group: 0x0008, Element: 0x0100}, VR: dicomtag.SH, Length: dicomtag.DefinedLength(4),
	}
	innerElem := dicom.NewDataElement(innerHeader, dicom.NewPrimitiveValue(dicom.NewStringsValue("CODE")))
	item := dicom.NewItem(innerElem)

	header := dicom.DataElementHeader{Tag: tag, VR: dicomtag.SQ, Length: dicomtag.Undefined}
	elem := dicom.NewDataElement(header, dicom.NewSequenceValue([]*dicom.Item{item}, dicomtag.Undefined))

	var buf bytes.Buffer
	require.NoError(t, dicomio.WriteTokens(&buf, elem.Tokens()))

	got := drain(t, dicomio.NewTokenReader(&buf))
	require.True(t, dicom.IsSequenceStart(got[0]))
	require.True(t, dicom.IsSequenceEnd(got[len(got)-1]))

	itemLen, ok := dicom.ItemStartOf(got[1])
	require.True(t, ok)
	require.True(t, itemLen.IsUndefined())

	innerGotHeader, ok := dicom.HeaderOf(got[2])
	require.True(t, ok)
	require.Equal(t, innerHeader.Tag, innerGotHeader.Tag)
}

func TestTokenReader_SwitchesCharsetOnSpecificCharacterSet(t *testing.T) {
	csHeader := dicom.DataElementHeader{
		Tag: dicomtag.SpecificCharacterSet, VR: dicomtag.CS, Length: dicomtag.DefinedLength(10),
	}
	csElem := dicom.NewDataElement(csHeader, dicom.NewPrimitiveValue(dicom.NewStringsValue("ISO_IR 100")))

	// Latin-1 0xE9 is "é"; raw bytes chosen so the wire length stays even and
	// matches the declared header length without padding.
	nameHeader := dicom.DataElementHeader{
		Tag: dicomtag.Tag{Group: 0x0010, Element: 0x0010}, VR: dicomtag.LO, Length: dicomtag.DefinedLength(2),
	}
	nameElem := dicom.NewDataElement(nameHeader, dicom.NewPrimitiveValue(dicom.NewStringsValue(string([]byte{0xE9, 0x20}))))

	var buf bytes.Buffer
	require.NoError(t, dicomio.WriteTokens(&buf, dicom.Chain(csElem, nameElem)))

	got := drain(t, dicomio.NewTokenReader(&buf))
	require.Len(t, got, 4)

	gotVal, ok := dicom.PrimitiveValueOf(got[3])
	require.True(t, ok)
	require.Equal(t, []string{"é "}, gotVal.Strings())
}
