package seri

import (
	"encoding/binary"
	"math"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// HeaderSize is the byte size of a section header: tag then length.
const HeaderSize = 8

// BinaryWriter renders elements as nested, length-prefixed sections.
// All scalars are little-endian.
type BinaryWriter struct {
	buf  []byte
	open []int // offsets of the headers of unclosed sections
	err  error
}

// NewBinaryWriter returns an empty binary writer.
func NewBinaryWriter() *BinaryWriter {
	return &BinaryWriter{}
}

// BeginNode implements [Writer]. The name and colour become the first nested
// sections of the node.
func (w *BinaryWriter) BeginNode(kw keyword.Keyword, name string, colour Colour) {
	w.Begin(kw)
	if name != "" {
		w.Begin(keyword.Name)
		w.String(name)
		w.End()
	}
	if colour.Present() && !colour.Random() {
		w.Begin(keyword.Colour)
		w.Colour(colour.Value())
		w.End()
	}
}

// Begin implements [Writer].
func (w *BinaryWriter) Begin(kw keyword.Keyword) {
	if w.err != nil {
		return
	}
	w.open = append(w.open, len(w.buf))
	w.buf = binary.LittleEndian.AppendUint32(w.buf, kw.Tag())
	w.buf = binary.LittleEndian.AppendUint32(w.buf, 0)
}

// End implements [Writer]. It patches the length of the innermost section.
func (w *BinaryWriter) End() {
	if w.err != nil {
		return
	}
	if len(w.open) == 0 {
		w.err = errors.New(errors.ErrCodeOutOfRange, "End without a matching Begin")
		return
	}
	at := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]
	size := len(w.buf) - at - HeaderSize
	if size > math.MaxInt32 {
		w.err = errors.New(errors.ErrCodeOutOfRange, "section of %d bytes exceeds the length field", size)
		return
	}
	w.err = w.patch(at+4, uint32(size))
}

// patch overwrites 4 bytes at offset.
func (w *BinaryWriter) patch(offset int, v uint32) error {
	if offset < 0 || offset+4 > len(w.buf) {
		return errors.New(errors.ErrCodeOutOfRange, "patch offset %d outside buffer of %d bytes", offset, len(w.buf))
	}
	binary.LittleEndian.PutUint32(w.buf[offset:], v)
	return nil
}

// Float implements [Writer].
func (w *BinaryWriter) Float(v ...float32) {
	if w.err != nil {
		return
	}
	for _, f := range v {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(f))
	}
}

// Int implements [Writer].
func (w *BinaryWriter) Int(v ...int32) {
	if w.err != nil {
		return
	}
	for _, i := range v {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(i))
	}
}

// Colour implements [Writer].
func (w *BinaryWriter) Colour(argb uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, argb)
}

// Bool implements [Writer]. Booleans are a single byte.
func (w *BinaryWriter) Bool(v bool) {
	if w.err != nil {
		return
	}
	var b byte
	if v {
		b = 1
	}
	w.buf = append(w.buf, b)
}

// Enum implements [Writer].
func (w *BinaryWriter) Enum(_ string, ordinal int32) {
	w.Int(ordinal)
}

// String implements [Writer]. The section length delimits the bytes, so no
// terminator is written.
func (w *BinaryWriter) String(s string) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, s...)
}

// Err implements [Writer].
func (w *BinaryWriter) Err() error { return w.err }

// Finish returns the stream. Unclosed sections are an out-of-range error.
func (w *BinaryWriter) Finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.open) != 0 {
		return nil, errors.New(errors.ErrCodeOutOfRange, "%d unterminated section(s)", len(w.open))
	}
	return w.buf, nil
}

var _ Writer = (*BinaryWriter)(nil)
