package dicom

import (
	"io"

	"github.com/odincare/dicomtoken/dicomlog"
	"github.com/odincare/dicomtoken/dicomtag"
)

// TokenIterator is a lazy, finite, non-restartable producer of tokens.
// Next returns io.EOF once exhausted; Close releases any owned buffers and
// nested sub-iterators without finishing the stream, for the
// cancellation-by-drop case.
type TokenIterator interface {
	Next() (DataToken, error)
	Close() error
}

// Tokenizable is anything the engine can turn into a token stream: a
// primitive element, an item wrapper, an item-value wrapper, or an ordered
// collection of such.
type Tokenizable interface {
	Tokens() TokenIterator
}

// --- per-element state machine ---

type tokenizerState uint8

const (
	stateStart tokenizerState = iota
	stateHeader
	stateItems
	statePixelData
	statePixelDataFragments
	stateEnd
)

type elementTokenizer struct {
	header DataElementHeader
	val    Value

	state     tokenizerState
	sub       TokenIterator
	fragments [][]byte
}

// Tokens returns a lazy tokenizer over e; constructing it does no work.
func (e *DataElement) Tokens() TokenIterator {
	return &elementTokenizer{header: e.Header, val: e.Val}
}

func (t *elementTokenizer) Next() (DataToken, error) {
	switch t.state {
	case stateStart:
		return t.start()
	case stateHeader:
		t.state = stateEnd
		return NewPrimitiveValueToken(t.val.Primitive()), nil
	case stateItems:
		return t.advanceSub()
	case statePixelData:
		tok, err := t.sub.Next()
		if err == io.EOF {
			wrapped := make([]Tokenizable, len(t.fragments))
			for i, f := range t.fragments {
				wrapped[i] = ItemValueBytes(f)
			}
			t.sub = Chain(wrapped...)
			t.state = statePixelDataFragments
			return t.Next()
		}
		if err != nil {
			return nil, err
		}
		return tok, nil
	case statePixelDataFragments:
		return t.advanceSub()
	case stateEnd:
		return nil, io.EOF
	default:
		panic("dicom: unreachable tokenizer state")
	}
}

// start handles the Start state's three-way branch on the header→token
// promotion rule. The default branches (SequenceStart header with a
// non-Sequence value, etc.) are unreachable under the header-value
// agreement invariant, which DataElement's constructor already enforces.
func (t *elementTokenizer) start() (DataToken, error) {
	tok := HeaderToToken(t.header)
	dicomlog.Vprintf(2, "dicom: tokenizing %v, vr=%v", t.header.Tag, t.header.VR)
	switch tok.(type) {
	case sequenceStartToken:
		items := t.val.Items()
		wrapped := make([]Tokenizable, len(items))
		for i, item := range items {
			wrapped[i] = item
		}
		t.sub = Chain(wrapped...)
		t.state = stateItems
		return tok, nil
	case pixelSequenceStartToken:
		t.fragments = t.val.Fragments()
		t.sub = ItemValueBytes(t.val.OffsetTable()).Tokens()
		t.state = statePixelData
		return tok, nil
	default:
		t.state = stateHeader
		return tok, nil
	}
}

// advanceSub pulls the next token from t.sub, emitting SequenceEnd and
// moving to stateEnd once it's drained. Used by both the Items and
// PixelDataFragments states, which share the same shape.
func (t *elementTokenizer) advanceSub() (DataToken, error) {
	tok, err := t.sub.Next()
	if err == io.EOF {
		t.state = stateEnd
		t.sub = nil
		return SequenceEndToken(), nil
	}
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// Close drops the nested sub-iterator without draining it, releasing any
// owned buffers for GC.
func (t *elementTokenizer) Close() error {
	if t.sub != nil {
		err := t.sub.Close()
		t.sub = nil
		return err
	}
	return nil
}

// --- item and item-value subproducers ---

type itemTokenizerState uint8

const (
	itemStateStart itemTokenizerState = iota
	itemStateBody
	itemStateDone
)

type itemTokenizer struct {
	length dicomtag.Length
	elems  []*DataElement
	state  itemTokenizerState
	sub    TokenIterator
}

// Tokens returns the tokenizer for it: ItemStart{len}, the wrapped
// elements' tokens in order, then ItemEnd.
func (it *Item) Tokens() TokenIterator {
	return &itemTokenizer{length: it.Length, elems: it.Elements}
}

func (t *itemTokenizer) Next() (DataToken, error) {
	switch t.state {
	case itemStateStart:
		wrapped := make([]Tokenizable, len(t.elems))
		for i, e := range t.elems {
			wrapped[i] = e
		}
		t.sub = Chain(wrapped...)
		t.state = itemStateBody
		return NewItemStartToken(t.length), nil
	case itemStateBody:
		tok, err := t.sub.Next()
		if err == io.EOF {
			t.state = itemStateDone
			t.sub = nil
			return ItemEndToken(), nil
		}
		if err != nil {
			return nil, err
		}
		return tok, nil
	default:
		return nil, io.EOF
	}
}

func (t *itemTokenizer) Close() error {
	if t.sub != nil {
		err := t.sub.Close()
		t.sub = nil
		return err
	}
	return nil
}

// ItemValueBytes is a raw byte buffer inside a pixel-sequence: a basic
// offset table or one fragment. Its Tokens() produces a two- or three-token
// pattern: ItemStart is always emitted; an empty buffer goes straight to
// ItemEnd, a non-empty one emits ItemValue first.
type ItemValueBytes []byte

type itemValueState uint8

const (
	itemValueStateStart itemValueState = iota
	itemValueStateValue
	itemValueStateEnd
	itemValueStateDone
)

type itemValueTokenizer struct {
	data  []byte
	state itemValueState
}

func (b ItemValueBytes) Tokens() TokenIterator {
	return &itemValueTokenizer{data: []byte(b)}
}

func (t *itemValueTokenizer) Next() (DataToken, error) {
	switch t.state {
	case itemValueStateStart:
		if len(t.data) == 0 {
			t.state = itemValueStateEnd
		} else {
			t.state = itemValueStateValue
		}
		return NewItemStartToken(dicomtag.DefinedLength(uint32(len(t.data)))), nil
	case itemValueStateValue:
		t.state = itemValueStateEnd
		return NewItemValueToken(t.data), nil
	case itemValueStateEnd:
		t.state = itemValueStateDone
		return ItemEndToken(), nil
	default:
		return nil, io.EOF
	}
}

func (t *itemValueTokenizer) Close() error {
	t.state = itemValueStateDone
	return nil
}

// --- flattening combinator and collection lifting ---

// sliceTokenizer is the generic flattening combinator: it holds at most one
// active sub-iterator, advancing to the next source only once the current
// one is drained, never buffering ahead.
type sliceTokenizer[T Tokenizable] struct {
	items []T
	idx   int
	cur   TokenIterator
}

// TokensOf lifts any ordered slice of Tokenizable values into a single
// TokenIterator over their concatenated streams.
func TokensOf[T Tokenizable](items []T) TokenIterator {
	return &sliceTokenizer[T]{items: items}
}

func (s *sliceTokenizer[T]) Next() (DataToken, error) {
	for {
		if s.cur == nil {
			if s.idx >= len(s.items) {
				return nil, io.EOF
			}
			s.cur = s.items[s.idx].Tokens()
			s.idx++
		}
		tok, err := s.cur.Next()
		if err == io.EOF {
			s.cur = nil
			continue
		}
		if err != nil {
			return nil, err
		}
		return tok, nil
	}
}

func (s *sliceTokenizer[T]) Close() error {
	if s.cur != nil {
		err := s.cur.Close()
		s.cur = nil
		return err
	}
	return nil
}

// Chain is the flattening combinator over a heterogeneous list of
// Tokenizable values; it's TokensOf specialized to the Tokenizable
// interface itself.
func Chain(items ...Tokenizable) TokenIterator {
	return TokensOf(items)
}

// Elements is a []*DataElement that lifts automatically into a
// Tokenizable via TokensOf.
type Elements []*DataElement

func (es Elements) Tokens() TokenIterator { return TokensOf([]*DataElement(es)) }

// Items is a []*Item that lifts automatically into a Tokenizable via
// TokensOf.
type Items []*Item

func (is Items) Tokens() TokenIterator { return TokensOf([]*Item(is)) }

// --- the empty type that closes the algebra ---

// emptyTokenizable is the vacuous Tokenizable that closes the algebra: it
// stands in for "no items" at the type level, but producing a token stream
// from it is a program-logic fault, not a legitimate empty iteration — a
// caller who actually has zero items should never hold an emptyTokenizable
// in the first place, only Elements/Items of length zero.
type emptyTokenizable struct{}

func (emptyTokenizable) Tokens() TokenIterator {
	assertf(false, "dicom: emptyTokenizable.Tokens() invoked")
	panic("unreachable")
}
