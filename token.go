package dicom

import (
	"fmt"

	"github.com/odincare/dicomtoken/dicomtag"
)

// DataToken is one symbol of the flat stream a structured element tokenizes
// into. The eight concrete variants below are unexported; callers
// obtain them only through the constructors and inspect them only through
// TokensEqual, IsSequenceStart, IsSequenceEnd, String and the *Of accessors
// at the end of this file.
type DataToken interface {
	tokenEqual(DataToken) bool
	String() string
}

type elementHeaderToken struct {
	Header DataElementHeader
}

func NewElementHeaderToken(h DataElementHeader) DataToken {
	return elementHeaderToken{Header: h}
}

func (t elementHeaderToken) tokenEqual(other DataToken) bool {
	o, ok := other.(elementHeaderToken)
	return ok && t.Header.Tag == o.Header.Tag && t.Header.VR == o.Header.VR &&
		t.Header.Length.InnerEq(o.Header.Length)
}

func (t elementHeaderToken) String() string {
	return fmt.Sprintf("ElementHeader{%s %s}", t.Header.Tag, t.Header.VR)
}

type sequenceStartToken struct {
	Tag    dicomtag.Tag
	Length dicomtag.Length
}

func NewSequenceStartToken(tag dicomtag.Tag, length dicomtag.Length) DataToken {
	return sequenceStartToken{Tag: tag, Length: length}
}

func (t sequenceStartToken) tokenEqual(other DataToken) bool {
	o, ok := other.(sequenceStartToken)
	return ok && t.Tag == o.Tag && t.Length.InnerEq(o.Length)
}

func (t sequenceStartToken) String() string {
	return fmt.Sprintf("SequenceStart{%s}", t.Tag)
}

type pixelSequenceStartToken struct{}

var thePixelSequenceStartToken DataToken = pixelSequenceStartToken{}

// PixelSequenceStartToken returns the singleton token that opens an
// encapsulated pixel data element. It carries no data, so every call returns
// an equal value.
func PixelSequenceStartToken() DataToken { return thePixelSequenceStartToken }

func (t pixelSequenceStartToken) tokenEqual(other DataToken) bool {
	_, ok := other.(pixelSequenceStartToken)
	return ok
}

func (t pixelSequenceStartToken) String() string { return "PixelSequenceStart" }

type sequenceEndToken struct{}

var theSequenceEndToken DataToken = sequenceEndToken{}

// SequenceEndToken returns the singleton token that closes a SequenceStart
// or PixelSequenceStart bracket.
func SequenceEndToken() DataToken { return theSequenceEndToken }

func (t sequenceEndToken) tokenEqual(other DataToken) bool {
	_, ok := other.(sequenceEndToken)
	return ok
}

func (t sequenceEndToken) String() string { return "SequenceEnd" }

type itemStartToken struct {
	Length dicomtag.Length
}

func NewItemStartToken(length dicomtag.Length) DataToken {
	return itemStartToken{Length: length}
}

func (t itemStartToken) tokenEqual(other DataToken) bool {
	o, ok := other.(itemStartToken)
	return ok && t.Length.InnerEq(o.Length)
}

func (t itemStartToken) String() string { return fmt.Sprintf("ItemStart{%v}", t.Length) }

type itemEndToken struct{}

var theItemEndToken DataToken = itemEndToken{}

// ItemEndToken returns the singleton token that closes an ItemStart bracket.
func ItemEndToken() DataToken { return theItemEndToken }

func (t itemEndToken) tokenEqual(other DataToken) bool {
	_, ok := other.(itemEndToken)
	return ok
}

func (t itemEndToken) String() string { return "ItemEnd" }

type primitiveValueToken struct {
	Value PrimitiveValue
}

func NewPrimitiveValueToken(v PrimitiveValue) DataToken {
	return primitiveValueToken{Value: v}
}

func (t primitiveValueToken) tokenEqual(other DataToken) bool {
	o, ok := other.(primitiveValueToken)
	return ok && t.Value.Equal(o.Value)
}

// String shows only the value-type discriminator, not the raw bytes.
func (t primitiveValueToken) String() string {
	return fmt.Sprintf("PrimitiveValue(%s)", t.Value.String())
}

type itemValueToken struct {
	Value []byte
}

func NewItemValueToken(v []byte) DataToken {
	return itemValueToken{Value: v}
}

func (t itemValueToken) tokenEqual(other DataToken) bool {
	o, ok := other.(itemValueToken)
	return ok && equalSlice(t.Value, o.Value)
}

func (t itemValueToken) String() string {
	return fmt.Sprintf("ItemValue(%d bytes)", len(t.Value))
}

// HeaderToToken promotes a header to a token by a total rule: OB pixel data
// with undefined length opens an encapsulated pixel sequence, any SQ VR
// opens an ordinary sequence, everything else is an ordinary element
// header.
func HeaderToToken(h DataElementHeader) DataToken {
	switch {
	case isEncapsulatedPixelData(h):
		return PixelSequenceStartToken()
	case h.VR == dicomtag.SQ:
		return NewSequenceStartToken(h.Tag, h.Length)
	default:
		return NewElementHeaderToken(h)
	}
}

// TokensEqual is structural equality over DataToken, using Length.InnerEq
// for every length-bearing variant.
func TokensEqual(a, b DataToken) bool {
	return a.tokenEqual(b)
}

// IsSequenceStart reports whether t is a SequenceStart token. It does not
// fire on PixelSequenceStart.
func IsSequenceStart(t DataToken) bool {
	_, ok := t.(sequenceStartToken)
	return ok
}

// IsSequenceEnd reports whether t is a SequenceEnd token. It does not fire
// on ItemEnd, even though SequenceEnd also closes a PixelSequenceStart.
func IsSequenceEnd(t DataToken) bool {
	_, ok := t.(sequenceEndToken)
	return ok
}

// The Header/SequenceStart/etc. structs stay unexported, favoring a closed
// set of named constructors over exported structs, the same way
// dicomtag.VR is a closed enum rather than an open type; these accessors
// give a downstream consumer like dicomio the introspection it needs
// without widening the token algebra's public surface.

// HeaderOf extracts the header carried by an ElementHeader token.
func HeaderOf(t DataToken) (DataElementHeader, bool) {
	h, ok := t.(elementHeaderToken)
	return h.Header, ok
}

// SequenceStartOf extracts the tag and length carried by a SequenceStart
// token.
func SequenceStartOf(t DataToken) (dicomtag.Tag, dicomtag.Length, bool) {
	s, ok := t.(sequenceStartToken)
	return s.Tag, s.Length, ok
}

// ItemStartOf extracts the length carried by an ItemStart token.
func ItemStartOf(t DataToken) (dicomtag.Length, bool) {
	s, ok := t.(itemStartToken)
	return s.Length, ok
}

// PrimitiveValueOf extracts the value carried by a PrimitiveValue token.
func PrimitiveValueOf(t DataToken) (PrimitiveValue, bool) {
	v, ok := t.(primitiveValueToken)
	return v.Value, ok
}

// ItemValueOf extracts the bytes carried by an ItemValue token.
func ItemValueOf(t DataToken) ([]byte, bool) {
	v, ok := t.(itemValueToken)
	return v.Value, ok
}
