package dicom_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odincare/dicomtoken"
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

func requireTokensEqual(t *testing.T, want, got []dicom.DataToken) {
	t.Helper()
	require.Equal(t, len(want), len(got), "token count mismatch: want %v, got %v", want, got)
	for i := range want {
		require.True(t, dicom.TokensEqual(want[i], got[i]), "token %d: want %v, got %v", i, want[i], got[i])
	}
}

// S1 — a primitive element tokenizes to its header followed by its value.
func TestTokenize_PrimitiveElement(t *testing.T) {
	header := dicom.DataElementHeader{
		Tag: dicomtag.Tag{Group: 0x0010, Element: 0x0010}, VR: dicomtag.PN, Length: dicomtag.DefinedLength(8),
	}
	val := dicom.NewPrimitiveValue(dicom.NewStringsValue("SMITH^JOE"))
	elem := dicom.NewDataElement(header, val)

	got := drain(t, elem.Tokens())
	want := []dicom.DataToken{
		dicom.NewElementHeaderToken(header),
		dicom.NewPrimitiveValueToken(dicom.NewStringsValue("SMITH^JOE")),
	}
	requireTokensEqual(t, want, got)
}

// S2 — an empty sequence opens and immediately closes.
func TestTokenize_EmptySequence(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0040, Element: 0x0275}
	header := dicom.DataElementHeader{Tag: tag, VR: dicomtag.SQ, Length: dicomtag.Undefined}
	elem := dicom.NewDataElement(header, dicom.NewSequenceValue(nil, dicomtag.Undefined))

	got := drain(t, elem.Tokens())
	want := []dicom.DataToken{
		dicom.NewSequenceStartToken(tag, dicomtag.Undefined),
		dicom.SequenceEndToken(),
	}
	requireTokensEqual(t, want, got)
}

// S3 — a sequence with one item containing one primitive element.
func TestTokenize_SequenceWithOneItem(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0040, Element: 0x0275}
	innerHeader := dicom.DataElementHeader{
		Tag: dicomtag.Tag{Group: 0x0008, Element: 0x0100}, VR: dicomtag.SH, Length: dicomtag.DefinedLength(5),
	}
	innerElem := dicom.NewDataElement(innerHeader, dicom.NewPrimitiveValue(dicom.NewStringsValue("CODE1")))
	item := dicom.NewItem(innerElem)

	header := dicom.DataElementHeader{Tag: tag, VR: dicomtag.SQ, Length: dicomtag.Undefined}
	elem := dicom.NewDataElement(header, dicom.NewSequenceValue([]*dicom.Item{item}, dicomtag.Undefined))

	got := drain(t, elem.Tokens())
	want := []dicom.DataToken{
		dicom.NewSequenceStartToken(tag, dicomtag.Undefined),
		dicom.NewItemStartToken(dicomtag.Undefined),
		dicom.NewElementHeaderToken(innerHeader),
		dicom.NewPrimitiveValueToken(dicom.NewStringsValue("CODE1")),
		dicom.ItemEndToken(),
		dicom.SequenceEndToken(),
	}
	requireTokensEqual(t, want, got)
}

// S4 — encapsulated pixel data with an empty offset table and two
// fragments.
func TestTokenize_PixelSequence(t *testing.T) {
	header := dicom.DataElementHeader{Tag: dicomtag.PixelData, VR: dicomtag.OB, Length: dicomtag.Undefined}
	val := dicom.NewPixelSequenceValue(nil, [][]byte{{0xAA, 0xBB}, {0xCC}})
	elem := dicom.NewDataElement(header, val)

	got := drain(t, elem.Tokens())
	want := []dicom.DataToken{
		dicom.PixelSequenceStartToken(),
		dicom.NewItemStartToken(dicomtag.DefinedLength(0)),
		dicom.ItemEndToken(),
		dicom.NewItemStartToken(dicomtag.DefinedLength(2)),
		dicom.NewItemValueToken([]byte{0xAA, 0xBB}),
		dicom.ItemEndToken(),
		dicom.NewItemStartToken(dicomtag.DefinedLength(1)),
		dicom.NewItemValueToken([]byte{0xCC}),
		dicom.ItemEndToken(),
		dicom.SequenceEndToken(),
	}
	requireTokensEqual(t, want, got)
}

// Laziness: constructing a tokenizer performs no work, and each advance
// yields exactly one token.
func TestTokenize_Laziness(t *testing.T) {
	header := dicom.DataElementHeader{
		Tag: dicomtag.Tag{Group: 0x0010, Element: 0x0010}, VR: dicomtag.PN, Length: dicomtag.DefinedLength(8),
	}
	elem := dicom.NewDataElement(header, dicom.NewPrimitiveValue(dicom.NewStringsValue("A")))

	it := elem.Tokens() // must do no work yet

	tok1, err := it.Next()
	require.NoError(t, err)
	require.True(t, dicom.TokensEqual(dicom.NewElementHeaderToken(header), tok1))

	tok2, err := it.Next()
	require.NoError(t, err)
	require.True(t, dicom.TokensEqual(dicom.NewPrimitiveValueToken(dicom.NewStringsValue("A")), tok2))

	_, err = it.Next()
	require.ErrorIs(t, err, io.EOF)
}

// Dropping a partially-consumed tokenizer releases the nested sub-iterator
// without panicking or requiring the stream to be drained.
func TestTokenize_CloseReleasesPartialStream(t *testing.T) {
	tag := dicomtag.Tag{Group: 0x0040, Element: 0x0275}
	innerHeader := dicom.DataElementHeader{
		Tag: dicomtag.Tag{Group: 0x0008, Element: 0x0100}, VR: dicomtag.SH, Length: dicomtag.DefinedLength(5),
	}
	innerElem := dicom.NewDataElement(innerHeader, dicom.NewPrimitiveValue(dicom.NewStringsValue("CODE1")))
	item := dicom.NewItem(innerElem)
	header := dicom.DataElementHeader{Tag: tag, VR: dicomtag.SQ, Length: dicomtag.Undefined}
	elem := dicom.NewDataElement(header, dicom.NewSequenceValue([]*dicom.Item{item}, dicomtag.Undefined))

	it := elem.Tokens()
	_, err := it.Next() // SequenceStart
	require.NoError(t, err)
	_, err = it.Next() // ItemStart
	require.NoError(t, err)
	require.NoError(t, it.Close())
}

// Collection lifting: a slice of elements concatenates their token streams
// in document order via the flattening combinator.
func TestElements_FlattensInOrder(t *testing.T) {
	h1 := dicom.DataElementHeader{Tag: dicomtag.Tag{Group: 1, Element: 1}, VR: dicomtag.CS, Length: dicomtag.DefinedLength(2)}
	h2 := dicom.DataElementHeader{Tag: dicomtag.Tag{Group: 1, Element: 2}, VR: dicomtag.CS, Length: dicomtag.DefinedLength(2)}
	e1 := dicom.NewDataElement(h1, dicom.NewPrimitiveValue(dicom.NewStringsValue("A")))
	e2 := dicom.NewDataElement(h2, dicom.NewPrimitiveValue(dicom.NewStringsValue("B")))

	got := drain(t, dicom.Elements{e1, e2}.Tokens())
	want := []dicom.DataToken{
		dicom.NewElementHeaderToken(h1),
		dicom.NewPrimitiveValueToken(dicom.NewStringsValue("A")),
		dicom.NewElementHeaderToken(h2),
		dicom.NewPrimitiveValueToken(dicom.NewStringsValue("B")),
	}
	requireTokensEqual(t, want, got)
}

// An empty collection lifted by TokensOf is a legitimate, total stream of
// zero tokens — distinct from the vacuous emptyTokenizable type, which has
// no well-defined stream at all (see TestEmptyTokenizable_Panics).
func TestTokensOf_EmptyCollectionEmitsNothing(t *testing.T) {
	it := dicom.TokensOf([]dicom.Elements{})
	_, err := it.Next()
	require.ErrorIs(t, err, io.EOF)
}
