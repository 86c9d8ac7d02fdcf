// Package dicomio provides low-level encode/decode primitives (integers,
// strings, length-prefixed reads) on top of a byte order and an
// implicit/explicit VR mode, plus the token reader/writer built on them.
package dicomio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
)

type stackEntry struct {
	limit int64
	err   error
}

// Encoder is a helper for writing low-level DICOM data types to a stream
// under a fixed byte order and VR mode.
type Encoder struct {
	err error

	out io.Writer

	byteorder binary.ByteOrder
	implicit  IsImplicitVR
}

// NewEncoder creates an encoder that writes to out.
func NewEncoder(out io.Writer, byteorder binary.ByteOrder, implicit IsImplicitVR) *Encoder {
	return &Encoder{
		out:       out,
		byteorder: byteorder,
		implicit:  implicit,
	}
}

// TransferSyntax returns the encoder's byte order and VR mode.
func (e *Encoder) TransferSyntax() (binary.ByteOrder, IsImplicitVR) {
	return e.byteorder, e.implicit
}

// SetError records err as the error future Error() calls report. Once set,
// it is never overwritten.
func (e *Encoder) SetError(err error) {
	if err != nil && e.err == nil {
		e.err = err
	}
}

// SetErrorf is SetError with a printf-style message.
func (e *Encoder) SetErrorf(format string, args ...interface{}) {
	e.SetError(fmt.Errorf(format, args...))
}

// Error returns the error recorded by SetError, or nil.
func (e *Encoder) Error() error {
	return e.err
}

func (e *Encoder) WriteByte(v byte) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteUInt16(v uint16) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteUInt32(v uint32) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteInt16(v int16) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteInt32(v int32) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteFloat32(v float32) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteFloat64(v float64) {
	if err := binary.Write(e.out, e.byteorder, &v); err != nil {
		e.SetError(err)
	}
}

// WriteString writes v with no length prefix and no padding.
func (e *Encoder) WriteString(v string) {
	if _, err := e.out.Write([]byte(v)); err != nil {
		e.SetError(err)
	}
}

// WriteZeros writes n zero bytes.
func (e *Encoder) WriteZeros(n int) {
	e.out.Write(make([]byte, n))
}

// WriteBytes copies v to the output verbatim.
func (e *Encoder) WriteBytes(v []byte) {
	e.out.Write(v)
}

// IsImplicitVR says whether a stream carries an explicit two-character VR
// code alongside each element header.
type IsImplicitVR int

const (
	// ImplicitVR encodes a data element with no VR on the wire; a reader
	// must resolve VR from a dictionary by tag instead.
	ImplicitVR IsImplicitVR = iota
	// ExplicitVR carries a two-byte VR code inline with each element.
	ExplicitVR
	// UnknownVR marks a stream whose elements are never encoded or decoded.
	UnknownVR
)

// Decoder is a helper for reading low-level DICOM data types from a stream
// under a fixed byte order and VR mode, with a pushable read limit for
// bounding a nested sequence or item to its declared length.
type Decoder struct {
	in        *bufio.Reader
	err       error
	byteorder binary.ByteOrder
	implicit  IsImplicitVR

	limit int64
	pos   int64

	codingSystem CodingSystem

	// stateStack holds limit/error pairs pushed by PushLimit, in LIFO order.
	stateStack []stackEntry
}

// NewDecoder creates a decoder that reads from in with no read limit.
func NewDecoder(in io.Reader, byteorder binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	return &Decoder{
		in:        bufio.NewReader(in),
		byteorder: byteorder,
		implicit:  implicit,
		limit:     math.MaxInt64,
	}
}

// SetError records err as the error future Error() calls report. Once set,
// it is never overwritten; a non-EOF error is annotated with the current
// byte offset.
func (d *Decoder) SetError(err error) {
	if err != nil && d.err == nil {
		if err != io.EOF {
			err = fmt.Errorf("%s (file offset %d)", err.Error(), d.pos)
		}
		d.err = err
	}
}

// SetErrorf is SetError with a printf-style message.
func (d *Decoder) SetErrorf(format string, args ...interface{}) {
	d.SetError(fmt.Errorf(format, args...))
}

// TransferSyntax returns the decoder's byte order and VR mode.
func (d *Decoder) TransferSyntax() (byteorder binary.ByteOrder, implicit IsImplicitVR) {
	return d.byteorder, d.implicit
}

// SetCodingSystem overrides the charset used when decoding bytes into a
// string, switching it mid-stream for every string-valued element that
// follows a SpecificCharacterSet element.
func (d *Decoder) SetCodingSystem(cs CodingSystem) {
	d.codingSystem = cs
}

// PushLimit temporarily narrows the readable range to the next n bytes,
// clearing any recorded error so the nested read starts clean. PopLimit
// restores the prior limit, and the prior error if there was one.
func (d *Decoder) PushLimit(n int64) {
	newLimit := d.pos + n
	if newLimit > d.limit {
		d.SetError(fmt.Errorf("trying to read %d bytes beyond buffer end", newLimit-d.limit))
		newLimit = d.pos
	}
	d.stateStack = append(d.stateStack, stackEntry{limit: d.limit, err: d.err})
	d.limit = newLimit
	d.err = nil
}

// PopLimit restores the limit PushLimit saved, skipping over any unconsumed
// bytes left within the narrowed range. A non-nil saved error replaces the
// current one; with no saved error, an error recorded during the nested
// read stays recorded.
func (d *Decoder) PopLimit() {
	if d.pos < d.limit {
		d.Skip(int(d.limit - d.pos))
	}
	last := len(d.stateStack) - 1
	d.limit = d.stateStack[last].limit
	if d.stateStack[last].err != nil {
		d.err = d.stateStack[last].err
	}
	d.stateStack = d.stateStack[:last]
}

// Error returns the error recorded by SetError, or nil.
func (d *Decoder) Error() error { return d.err }

func (d *Decoder) Read(p []byte) (int, error) {
	desired := d.len()
	if desired == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	if desired < int64(len(p)) {
		p = p[:desired]
	}
	n, err := d.in.Read(p)
	if n >= 0 {
		d.pos += int64(n)
	}
	return n, err
}

// EOF reports whether there is no more data to read, either because an
// error occurred, the current limit is exhausted, or the underlying
// reader is exhausted.
func (d *Decoder) EOF() bool {
	if d.err != nil {
		return true
	}
	if d.limit-d.pos <= 0 {
		return true
	}
	data, _ := d.in.Peek(1)
	return len(data) == 0
}

func (d *Decoder) len() int64 {
	return d.limit - d.pos
}

func (d *Decoder) ReadUInt32() (v uint32) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadInt32() (v int32) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadUInt16() (v uint16) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadInt16() (v int16) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadFloat32() (v float32) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func (d *Decoder) ReadFloat64() (v float64) {
	if err := binary.Read(d, d.byteorder, &v); err != nil {
		d.SetError(err)
	}
	return v
}

func internalReadString(d *Decoder, sd *encoding.Decoder, length int) string {
	raw := d.ReadBytes(length)
	if len(raw) == 0 {
		return ""
	}
	if sd == nil {
		// UTF-8 is assumed a superset of the default 7-bit ASCII charset.
		return string(raw)
	}
	decoded, err := sd.Bytes(raw)
	if err != nil {
		d.SetError(err)
		return ""
	}
	return string(decoded)
}

// ReadString reads length bytes and decodes them with the decoder's current
// ideographic charset (the one every non-PN VR uses).
func (d *Decoder) ReadString(length int) string {
	return internalReadString(d, d.codingSystem.Ideographic, length)
}

func (d *Decoder) ReadBytes(length int) []byte {
	if d.len() < int64(length) {
		d.SetError(fmt.Errorf("ReadBytes: requested %d, available %d", length, d.len()))
		return nil
	}
	v := make([]byte, length)
	remaining := v
	for len(remaining) > 0 {
		n, err := d.Read(remaining)
		if err != nil {
			d.SetError(err)
			break
		}
		if n < 0 || n > len(remaining) {
			panic(fmt.Sprintf("dicomio: read returned out-of-range n=%d for %d remaining", n, len(remaining)))
		}
		remaining = remaining[n:]
	}
	return v
}

func (d *Decoder) Skip(length int) {
	if d.len() < int64(length) {
		d.SetError(fmt.Errorf("Skip: requested %d, available %d", length, d.len()))
		return
	}

	junkSize := 1 << 16
	if length < junkSize {
		junkSize = length
	}
	junk := make([]byte, junkSize)

	remaining := length
	for remaining > 0 {
		n := len(junk)
		if remaining < n {
			n = remaining
		}
		read, err := d.Read(junk[:n])
		if err != nil {
			d.SetError(err)
			break
		}
		if read <= 0 {
			logrus.Panic("dicomio: Skip made no progress")
		}
		remaining -= read
	}
}
