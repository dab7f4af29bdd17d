package seri

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// TextWriter renders the keyword script in its raw, whitespace-minimal form.
// Use package pretty to produce the indented layout.
type TextWriter struct {
	buf   bytes.Buffer
	depth int
	sep   bool // a separator precedes the next token
	err   error
}

// NewTextWriter returns an empty text writer.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

func (w *TextWriter) token(s string) {
	if w.sep {
		if w.depth == 0 {
			w.buf.WriteByte('\n')
		} else {
			w.buf.WriteByte(' ')
		}
	}
	w.buf.WriteString(s)
	w.sep = true
}

func (w *TextWriter) open() {
	w.buf.WriteString(" {")
	w.depth++
	w.sep = false
}

// BeginNode implements [Writer].
func (w *TextWriter) BeginNode(kw keyword.Keyword, name string, colour Colour) {
	if w.err != nil {
		return
	}
	w.token(kw.Token())
	if name != "" {
		w.buf.WriteByte(' ')
		w.buf.WriteString(name)
	}
	if colour.Present() && !colour.Random() {
		w.buf.WriteByte(' ')
		w.buf.WriteString(colour.String())
	}
	w.open()
}

// Begin implements [Writer].
func (w *TextWriter) Begin(kw keyword.Keyword) {
	if w.err != nil {
		return
	}
	w.token(kw.Token())
	w.open()
}

// End implements [Writer].
func (w *TextWriter) End() {
	if w.err != nil {
		return
	}
	if w.depth == 0 {
		w.err = errors.New(errors.ErrCodeOutOfRange, "End without a matching Begin")
		return
	}
	w.buf.WriteByte('}')
	w.depth--
	w.sep = true
}

// Float implements [Writer]. NaN and infinities have no script form and
// fail the writer with a conversion error.
func (w *TextWriter) Float(v ...float32) {
	for _, f := range v {
		if w.err != nil {
			return
		}
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			w.err = errors.New(errors.ErrCodeConversion, "value %v has no text representation", f)
			return
		}
		w.token(FormatFloat(f))
	}
}

// Int implements [Writer].
func (w *TextWriter) Int(v ...int32) {
	if w.err != nil {
		return
	}
	for _, i := range v {
		w.token(strconv.FormatInt(int64(i), 10))
	}
}

// Colour implements [Writer].
func (w *TextWriter) Colour(argb uint32) {
	if w.err != nil {
		return
	}
	w.token(fmt.Sprintf("%08x", argb))
}

// Bool implements [Writer].
func (w *TextWriter) Bool(v bool) {
	if w.err != nil {
		return
	}
	w.token(strconv.FormatBool(v))
}

// Enum implements [Writer].
func (w *TextWriter) Enum(name string, _ int32) {
	if w.err != nil {
		return
	}
	w.token(name)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// String implements [Writer].
func (w *TextWriter) String(s string) {
	if w.err != nil {
		return
	}
	w.token(`"` + quoteEscaper.Replace(s) + `"`)
}

// Err implements [Writer].
func (w *TextWriter) Err() error { return w.err }

// Finish returns the script. Unclosed blocks are an out-of-range error.
func (w *TextWriter) Finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.depth != 0 {
		return nil, errors.New(errors.ErrCodeOutOfRange, "%d unterminated block(s)", w.depth)
	}
	return w.buf.Bytes(), nil
}

// FormatFloat returns the shortest decimal that parses back to f.
func FormatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

var _ Writer = (*TextWriter)(nil)
