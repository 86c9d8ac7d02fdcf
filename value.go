// Package dicom implements the token algebra and tokenizer engine that turn
// a structured DICOM data element into a flat, ordered stream of tokens (and
// vice versa via the downstream dicomio reader/writer). The binary codec for
// any particular transfer syntax, and the on-disk element tree format, are
// treated as external collaborators; this package only knows about the
// shapes in this file and the tokens in token.go.
package dicom

import (
	"github.com/odincare/dicomtoken/dicomtag"
)

// DataElementHeader is the tag/VR/length triple that precedes every
// element's value on the wire.
type DataElementHeader struct {
	Tag    dicomtag.Tag
	VR     dicomtag.VR
	Length dicomtag.Length
}

// ValueType discriminates the shapes a PrimitiveValue can hold, collapsed to
// a single tag because the tokenizer never branches on the underlying Go
// type, only on whether two PrimitiveValues are equal.
type ValueType uint8

const (
	ValueTypeStrings ValueType = iota
	ValueTypeBytes
	ValueTypeInts
	ValueTypeFloats
	ValueTypeTags
)

// PrimitiveValue is the decoded payload of a non-sequence element. It is
// opaque to the tokenizer: the tokenizer only ever constructs a
// PrimitiveValueToken around one and compares two for equality, never
// inspects cellwise.
type PrimitiveValue struct {
	typ     ValueType
	strs    []string
	bytes   []byte
	ints    []int64
	floats  []float64
	tags    []dicomtag.Tag
}

func NewStringsValue(v ...string) PrimitiveValue {
	return PrimitiveValue{typ: ValueTypeStrings, strs: v}
}

func NewBytesValue(v []byte) PrimitiveValue {
	return PrimitiveValue{typ: ValueTypeBytes, bytes: v}
}

func NewIntsValue(v ...int64) PrimitiveValue {
	return PrimitiveValue{typ: ValueTypeInts, ints: v}
}

func NewFloatsValue(v ...float64) PrimitiveValue {
	return PrimitiveValue{typ: ValueTypeFloats, floats: v}
}

func NewTagsValue(v ...dicomtag.Tag) PrimitiveValue {
	return PrimitiveValue{typ: ValueTypeTags, tags: v}
}

// ValueType reports which cell of PrimitiveValue is populated.
func (v PrimitiveValue) ValueType() ValueType { return v.typ }

// Strings returns the string cell, non-nil only when ValueType is
// ValueTypeStrings.
func (v PrimitiveValue) Strings() []string { return v.strs }

// Bytes returns the byte cell, non-nil only when ValueType is
// ValueTypeBytes.
func (v PrimitiveValue) Bytes() []byte { return v.bytes }

func (v PrimitiveValue) Ints() []int64 { return v.ints }

func (v PrimitiveValue) Floats() []float64 { return v.floats }

func (v PrimitiveValue) Tags() []dicomtag.Tag { return v.tags }

// Equal is structural equality over the populated cell; it is what token
// equality delegates to for PrimitiveValue-bearing tokens.
func (v PrimitiveValue) Equal(other PrimitiveValue) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case ValueTypeStrings:
		return equalSlice(v.strs, other.strs)
	case ValueTypeBytes:
		return equalSlice(v.bytes, other.bytes)
	case ValueTypeInts:
		return equalSlice(v.ints, other.ints)
	case ValueTypeFloats:
		return equalSlice(v.floats, other.floats)
	case ValueTypeTags:
		return equalSlice(v.tags, other.tags)
	default:
		return false
	}
}

func equalSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String renders only the value-type discriminator, never the raw payload —
// diagnostics may rely on this, correctness never does.
func (v PrimitiveValue) String() string {
	switch v.typ {
	case ValueTypeStrings:
		return "Primitive(strings)"
	case ValueTypeBytes:
		return "Primitive(bytes)"
	case ValueTypeInts:
		return "Primitive(ints)"
	case ValueTypeFloats:
		return "Primitive(floats)"
	case ValueTypeTags:
		return "Primitive(tags)"
	default:
		return "Primitive(?)"
	}
}

// ValueKind discriminates the three shapes Value can take.
type ValueKind uint8

const (
	KindPrimitive ValueKind = iota
	KindSequence
	KindPixelSequence
)

// Value is the three-way variant every element's payload can take: a
// primitive payload, a sequence of nested items, or encapsulated pixel data.
type Value struct {
	kind ValueKind

	primitive PrimitiveValue

	items []*Item
	size  dicomtag.Length

	offsetTable []byte
	fragments   [][]byte
}

// NewPrimitiveValue wraps a PrimitiveValue as a Value.
func NewPrimitiveValue(v PrimitiveValue) Value {
	return Value{kind: KindPrimitive, primitive: v}
}

// NewSequenceValue wraps an ordered list of items as a sequence Value. size
// is the sequence's on-wire length (possibly dicomtag.Undefined).
func NewSequenceValue(items []*Item, size dicomtag.Length) Value {
	return Value{kind: KindSequence, items: items, size: size}
}

// NewPixelSequenceValue wraps an offset table and fragment list as an
// encapsulated pixel data Value.
func NewPixelSequenceValue(offsetTable []byte, fragments [][]byte) Value {
	return Value{kind: KindPixelSequence, offsetTable: offsetTable, fragments: fragments}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Primitive() PrimitiveValue { return v.primitive }

func (v Value) Items() []*Item { return v.items }

func (v Value) SequenceSize() dicomtag.Length { return v.size }

func (v Value) OffsetTable() []byte { return v.offsetTable }

func (v Value) Fragments() [][]byte { return v.fragments }

// Item is one nested data set inside a sequence: an ordered list of
// elements, plus the on-wire length the item itself was tagged with. Items
// built from a Sequence's element list carry dicomtag.Undefined, since a
// Sequence built in memory has no natural on-wire item length until it's
// serialized.
type Item struct {
	Elements []*DataElement
	Length   dicomtag.Length
}

// NewItem wraps elems as an item with undefined length, the form every item
// inside an in-memory Sequence takes until a downstream writer recomputes
// concrete lengths during serialization.
func NewItem(elems ...*DataElement) *Item {
	return &Item{Elements: elems, Length: dicomtag.Undefined}
}

// DataElement is a header paired with a value; header.VR and Value must
// agree under the header-value agreement invariant.
type DataElement struct {
	Header DataElementHeader
	Val    Value
}

// NewDataElement builds a DataElement, panicking if header and val disagree
// — a violation here is a program-logic fault, never a user-input error to
// recover from.
func NewDataElement(header DataElementHeader, val Value) *DataElement {
	assertHeaderValueAgreement(header, val)
	return &DataElement{Header: header, Val: val}
}

func assertHeaderValueAgreement(h DataElementHeader, v Value) {
	switch {
	case h.VR == dicomtag.SQ:
		assertf(v.Kind() == KindSequence, "dicom: header %v has VR=SQ but value is not a Sequence", h.Tag)
	case isEncapsulatedPixelData(h):
		assertf(v.Kind() == KindPixelSequence, "dicom: header %v is encapsulated pixel data but value is not a PixelSequence", h.Tag)
	default:
		assertf(v.Kind() == KindPrimitive, "dicom: header %v expects a Primitive value", h.Tag)
	}
}

func isEncapsulatedPixelData(h DataElementHeader) bool {
	return h.VR == dicomtag.OB && h.Tag == dicomtag.PixelData && h.Length.IsUndefined()
}

// GetHeader returns the element's header.
func (e *DataElement) GetHeader() DataElementHeader { return e.Header }

// IntoValue consumes the element, returning its Value and releasing the
// element's hold on it.
func (e *DataElement) IntoValue() Value {
	v := e.Val
	e.Val = Value{}
	return v
}
