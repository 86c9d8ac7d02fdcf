package dicomio

import (
	"encoding/binary"
	"io"

	"github.com/odincare/dicomtoken"
	"github.com/odincare/dicomtoken/dicomtag"
)

// bracket tracks one open Sequence/PixelSequence/Item on the write stack, so
// the matching End token knows whether to emit a delimiter item. A bracket
// opened with a defined length needs none: its byte count already tells a
// reader where it ends. One opened with an undefined length needs the
// matching *DelimitationItem (PS 3.5 §7.5).
type bracket struct {
	undefined    bool
	delimiterTag dicomtag.Tag
}

// WriteTokens serializes a token stream with a single fixed encoding
// (explicit VR, little-endian). It is deliberately not a conformant
// multi-transfer-syntax codec — the real binary codec is an external
// collaborator (see module design notes) — it exists to give dicomio's
// Encoder a real token stream to exercise end to end.
func WriteTokens(w io.Writer, it dicom.TokenIterator) error {
	e := NewEncoder(w, binary.LittleEndian, ExplicitVR)
	var stack []bracket
	var pendingVR dicomtag.VR

	for {
		tok, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch {
		case dicom.IsSequenceStart(tok):
			tag, length, _ := dicom.SequenceStartOf(tok)
			writeHeader(e, tag, dicomtag.SQ, length)
			stack = append(stack, bracket{undefined: length.IsUndefined(), delimiterTag: dicomtag.SequenceDelimitationItem})

		case tok == dicom.PixelSequenceStartToken():
			writeHeader(e, dicomtag.PixelData, dicomtag.OB, dicomtag.Undefined)
			stack = append(stack, bracket{undefined: true, delimiterTag: dicomtag.SequenceDelimitationItem})

		case dicom.IsSequenceEnd(tok):
			b := popBracket(&stack)
			if b.undefined {
				writeDelimiter(e, b.delimiterTag)
			}

		case tok == dicom.ItemEndToken():
			b := popBracket(&stack)
			if b.undefined {
				writeDelimiter(e, b.delimiterTag)
			}

		default:
			if length, ok := dicom.ItemStartOf(tok); ok {
				writeItemHeader(e, length)
				stack = append(stack, bracket{undefined: length.IsUndefined(), delimiterTag: dicomtag.ItemDelimitationItem})
				continue
			}
			if h, ok := dicom.HeaderOf(tok); ok {
				writeHeader(e, h.Tag, h.VR, h.Length)
				pendingVR = h.VR
				continue
			}
			if v, ok := dicom.PrimitiveValueOf(tok); ok {
				writePrimitiveValue(e, pendingVR, v)
				continue
			}
			if b, ok := dicom.ItemValueOf(tok); ok {
				e.WriteBytes(b)
				continue
			}
		}

		if e.Error() != nil {
			return e.Error()
		}
	}
	return e.Error()
}

func popBracket(stack *[]bracket) bracket {
	n := len(*stack)
	if n == 0 {
		return bracket{}
	}
	b := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return b
}

func writeDelimiter(e *Encoder, tag dicomtag.Tag) {
	e.WriteUInt16(tag.Group)
	e.WriteUInt16(tag.Element)
	e.WriteUInt32(0)
}

// writeItemHeader writes an Item (or pixel-sequence fragment) header. Items
// are always encoded implicit-style regardless of the stream's transfer
// syntax (PS 3.5 §7.5): tag followed directly by a 4-byte length, no VR
// field.
func writeItemHeader(e *Encoder, length dicomtag.Length) {
	e.WriteUInt16(dicomtag.Item.Group)
	e.WriteUInt16(dicomtag.Item.Element)
	if v, ok := length.Uint32(); ok {
		e.WriteUInt32(v)
	} else {
		e.WriteUInt32(0xFFFFFFFF)
	}
}

func writeHeader(e *Encoder, tag dicomtag.Tag, vr dicomtag.VR, length dicomtag.Length) {
	e.WriteUInt16(tag.Group)
	e.WriteUInt16(tag.Element)
	e.WriteString(vr.String())

	v, defined := length.Uint32()
	if !defined {
		v = 0xFFFFFFFF
	}

	switch vr {
	case dicomtag.OB, dicomtag.OD, dicomtag.OF, dicomtag.OL, dicomtag.OW, dicomtag.SQ, dicomtag.UN, dicomtag.UC, dicomtag.UR, dicomtag.UT:
		e.WriteZeros(2)
		e.WriteUInt32(v)
	default:
		e.WriteUInt16(uint16(v))
	}
}

func writePrimitiveValue(e *Encoder, vr dicomtag.VR, v dicom.PrimitiveValue) {
	switch vr {
	case dicomtag.US:
		for _, n := range v.Ints() {
			e.WriteUInt16(uint16(n))
		}
	case dicomtag.UL:
		for _, n := range v.Ints() {
			e.WriteUInt32(uint32(n))
		}
	case dicomtag.SS:
		for _, n := range v.Ints() {
			e.WriteInt16(int16(n))
		}
	case dicomtag.SL:
		for _, n := range v.Ints() {
			e.WriteInt32(int32(n))
		}
	case dicomtag.FL, dicomtag.OF:
		for _, f := range v.Floats() {
			e.WriteFloat32(float32(f))
		}
	case dicomtag.FD, dicomtag.OD:
		for _, f := range v.Floats() {
			e.WriteFloat64(f)
		}
	case dicomtag.OB, dicomtag.OW, dicomtag.UN:
		e.WriteBytes(v.Bytes())
		if len(v.Bytes())%2 == 1 {
			e.WriteByte(0)
		}
	case dicomtag.AT:
		for _, tag := range v.Tags() {
			e.WriteUInt16(tag.Group)
			e.WriteUInt16(tag.Element)
		}
	default:
		s := joinBackslash(v.Strings())
		e.WriteString(s)
		if len(s)%2 == 1 {
			e.WriteByte(' ')
		}
	}
}

func joinBackslash(parts []string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "\\"
		}
		s += p
	}
	return s
}
