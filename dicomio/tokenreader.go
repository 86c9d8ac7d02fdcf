package dicomio

import (
	"encoding/binary"
	"io"

	"github.com/odincare/dicomtoken"
	"github.com/odincare/dicomtoken/dicomlog"
	"github.com/odincare/dicomtoken/dicomtag"
)

// tokenReader is the inverse of WriteTokens: it decodes the same fixed
// explicit-VR little-endian encoding back into a token stream. Like
// WriteTokens, it's an illustrative downstream collaborator, not a
// conformant multi-transfer-syntax codec.
//
// Unlike the tokenizer engine (which advances exactly one state transition
// per Next()), this reader decodes one whole data element's tokens per
// refill and queues them, because a binary decoder naturally produces a
// batch of tokens (header, recursed items, value) from one read step; the
// core's laziness guarantee is a property of the in-memory tokenizer, not
// of this external reader.
type tokenReader struct {
	d    *Decoder
	buf  []dicom.DataToken
	err  error
	done bool
}

// NewTokenReader returns a dicom.TokenIterator that decodes tokens from r.
func NewTokenReader(r io.Reader) dicom.TokenIterator {
	return &tokenReader{d: NewDecoder(r, binary.LittleEndian, ExplicitVR)}
}

func (t *tokenReader) Next() (dicom.DataToken, error) {
	for len(t.buf) == 0 {
		if t.done {
			return nil, io.EOF
		}
		if t.err != nil {
			return nil, t.err
		}
		if t.d.EOF() {
			t.done = true
			return nil, io.EOF
		}
		toks, err := t.readElementTokens()
		if err != nil {
			t.err = err
			return nil, err
		}
		t.buf = toks
	}
	tok := t.buf[0]
	t.buf = t.buf[1:]
	return tok, nil
}

func (t *tokenReader) Close() error {
	t.buf = nil
	t.done = true
	return nil
}

// readElementTokens decodes one data element — primitive, sequence, or
// encapsulated pixel data — into its full token sequence, recursing into
// nested items for sequences.
func (t *tokenReader) readElementTokens() ([]dicom.DataToken, error) {
	tag, vr, length := readExplicitHeader(t.d)
	if t.d.Error() != nil {
		return nil, t.d.Error()
	}

	header := dicom.DataElementHeader{Tag: tag, VR: vr, Length: length}
	headerTok := dicom.HeaderToToken(header)

	switch {
	case dicom.IsSequenceStart(headerTok):
		toks := []dicom.DataToken{headerTok}
		items, err := t.readItemsUntilDelimiterOrLimit(length)
		if err != nil {
			return nil, err
		}
		toks = append(toks, items...)
		toks = append(toks, dicom.SequenceEndToken())
		return toks, nil

	case headerTok == dicom.PixelSequenceStartToken():
		toks := []dicom.DataToken{headerTok}
		for {
			itemTag, itemLen := readImplicitItemHeader(t.d)
			if t.d.Error() != nil {
				return nil, t.d.Error()
			}
			if itemTag == dicomtag.SequenceDelimitationItem {
				break
			}
			n, _ := itemLen.Uint32()
			data := t.d.ReadBytes(int(n))
			toks = append(toks, dicom.NewItemStartToken(itemLen))
			if len(data) > 0 {
				toks = append(toks, dicom.NewItemValueToken(data))
			}
			toks = append(toks, dicom.ItemEndToken())
		}
		toks = append(toks, dicom.SequenceEndToken())
		return toks, nil

	default:
		val := readPrimitiveValue(t.d, vr, length)
		if tag == dicomtag.SpecificCharacterSet {
			t.applyCharacterSet(val)
		}
		return []dicom.DataToken{headerTok, dicom.NewPrimitiveValueToken(val)}, nil
	}
}

// applyCharacterSet switches the decoder's text charset for every
// string-valued element that follows (PS 3.5 §6.1.2.3). A charset name
// unknown to ParseSpecificCharacterSet is logged and otherwise ignored,
// falling back to the decoder's existing (default 7-bit ASCII) charset
// rather than aborting the whole decode over one untranslatable element.
func (t *tokenReader) applyCharacterSet(val dicom.PrimitiveValue) {
	cs, err := ParseSpecificCharacterSet(val.Strings())
	if err != nil {
		dicomlog.Warnf("dicomio: %v", err)
		return
	}
	t.d.SetCodingSystem(cs)
}

// readItemsUntilDelimiterOrLimit reads Items, recursing into each item's
// own elements, until either a SequenceDelimitationItem is seen (undefined
// length) or the declared byte count is exhausted (defined length).
func (t *tokenReader) readItemsUntilDelimiterOrLimit(seqLength dicomtag.Length) ([]dicom.DataToken, error) {
	var toks []dicom.DataToken
	n, defined := seqLength.Uint32()
	if defined {
		t.d.PushLimit(int64(n))
		defer t.d.PopLimit()
	}
	for {
		if defined && t.d.EOF() {
			break
		}
		itemTag, itemLen := readImplicitItemHeader(t.d)
		if t.d.Error() != nil {
			return nil, t.d.Error()
		}
		if itemTag == dicomtag.SequenceDelimitationItem {
			break
		}
		toks = append(toks, dicom.NewItemStartToken(itemLen))
		inner, err := t.readItemBody(itemLen)
		if err != nil {
			return nil, err
		}
		toks = append(toks, inner...)
		toks = append(toks, dicom.ItemEndToken())
	}
	return toks, nil
}

func (t *tokenReader) readItemBody(itemLen dicomtag.Length) ([]dicom.DataToken, error) {
	var toks []dicom.DataToken
	n, defined := itemLen.Uint32()
	if defined {
		t.d.PushLimit(int64(n))
		defer t.d.PopLimit()
	}
	for {
		if defined && t.d.EOF() {
			break
		}
		tag, vr, length := readExplicitHeader(t.d)
		if t.d.Error() != nil {
			return nil, t.d.Error()
		}
		if tag == dicomtag.ItemDelimitationItem {
			break
		}
		header := dicom.DataElementHeader{Tag: tag, VR: vr, Length: length}
		headerTok := dicom.HeaderToToken(header)
		switch {
		case dicom.IsSequenceStart(headerTok):
			toks = append(toks, headerTok)
			items, err := t.readItemsUntilDelimiterOrLimit(length)
			if err != nil {
				return nil, err
			}
			toks = append(toks, items...)
			toks = append(toks, dicom.SequenceEndToken())
		default:
			val := readPrimitiveValue(t.d, vr, length)
			toks = append(toks, headerTok, dicom.NewPrimitiveValueToken(val))
		}
		if !defined && t.d.EOF() {
			break
		}
	}
	return toks, nil
}

func readExplicitHeader(d *Decoder) (dicomtag.Tag, dicomtag.VR, dicomtag.Length) {
	group := d.ReadUInt16()
	element := d.ReadUInt16()
	tag := dicomtag.Tag{Group: group, Element: element}

	code := d.ReadString(2)
	vr, _ := dicomtag.ParseVR(code)

	switch vr {
	case dicomtag.OB, dicomtag.OD, dicomtag.OF, dicomtag.OL, dicomtag.OW, dicomtag.SQ, dicomtag.UN, dicomtag.UC, dicomtag.UR, dicomtag.UT:
		d.Skip(2)
		v := d.ReadUInt32()
		if v == 0xFFFFFFFF {
			return tag, vr, dicomtag.Undefined
		}
		return tag, vr, dicomtag.DefinedLength(v)
	default:
		v := uint32(d.ReadUInt16())
		if v == 0xFFFF {
			return tag, vr, dicomtag.Undefined
		}
		return tag, vr, dicomtag.DefinedLength(v)
	}
}

func readImplicitItemHeader(d *Decoder) (dicomtag.Tag, dicomtag.Length) {
	group := d.ReadUInt16()
	element := d.ReadUInt16()
	tag := dicomtag.Tag{Group: group, Element: element}
	v := d.ReadUInt32()
	if v == 0xFFFFFFFF {
		return tag, dicomtag.Undefined
	}
	return tag, dicomtag.DefinedLength(v)
}

func readPrimitiveValue(d *Decoder, vr dicomtag.VR, length dicomtag.Length) dicom.PrimitiveValue {
	n, _ := length.Uint32()
	switch vr {
	case dicomtag.US:
		var vals []int64
		for read := uint32(0); read < n; read += 2 {
			vals = append(vals, int64(d.ReadUInt16()))
		}
		return dicom.NewIntsValue(vals...)
	case dicomtag.UL:
		var vals []int64
		for read := uint32(0); read < n; read += 4 {
			vals = append(vals, int64(d.ReadUInt32()))
		}
		return dicom.NewIntsValue(vals...)
	case dicomtag.SS:
		var vals []int64
		for read := uint32(0); read < n; read += 2 {
			vals = append(vals, int64(d.ReadInt16()))
		}
		return dicom.NewIntsValue(vals...)
	case dicomtag.SL:
		var vals []int64
		for read := uint32(0); read < n; read += 4 {
			vals = append(vals, int64(d.ReadInt32()))
		}
		return dicom.NewIntsValue(vals...)
	case dicomtag.FL, dicomtag.OF:
		var vals []float64
		for read := uint32(0); read < n; read += 4 {
			vals = append(vals, float64(d.ReadFloat32()))
		}
		return dicom.NewFloatsValue(vals...)
	case dicomtag.FD, dicomtag.OD:
		var vals []float64
		for read := uint32(0); read < n; read += 8 {
			vals = append(vals, d.ReadFloat64())
		}
		return dicom.NewFloatsValue(vals...)
	case dicomtag.OB, dicomtag.OW, dicomtag.UN:
		return dicom.NewBytesValue(d.ReadBytes(int(n)))
	case dicomtag.AT:
		var tags []dicomtag.Tag
		for read := uint32(0); read < n; read += 4 {
			tags = append(tags, dicomtag.Tag{Group: d.ReadUInt16(), Element: d.ReadUInt16()})
		}
		return dicom.NewTagsValue(tags...)
	default:
		s := d.ReadString(int(n))
		return dicom.NewStringsValue(splitBackslash(s)...)
	}
}

func splitBackslash(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
