package seri

import (
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// Writer receives the emission of LDraw elements.
//
// Writers are sticky: after the first error every further call is a no-op
// and Err reports that error.
type Writer interface {
	// BeginNode opens an object block with the type-specific header,
	// "*Keyword name colour {" in text. Empty names and absent or random
	// colours are left out of the header.
	BeginNode(kw keyword.Keyword, name string, colour Colour)

	// Begin opens a plain keyword block.
	Begin(kw keyword.Keyword)

	// End closes the innermost open block.
	End()

	Float(v ...float32)
	Int(v ...int32)
	Colour(argb uint32)
	Bool(v bool)

	// Enum writes a named constant: the name in text, the ordinal in binary.
	Enum(name string, ordinal int32)

	// String writes a quoted string in text and raw UTF-8 bytes in binary.
	String(s string)

	Err() error
}

// Encoding selects one of the two wire formats.
type Encoding int

const (
	EncodingText Encoding = iota
	EncodingBinary
)

// String returns the file extension conventionally used for the encoding.
func (e Encoding) String() string {
	if e == EncodingBinary {
		return "bdr"
	}
	return "ldr"
}

// Encode runs fn against a fresh writer of the requested encoding and
// returns the finished bytes.
func Encode(enc Encoding, fn func(w Writer)) ([]byte, error) {
	if enc == EncodingBinary {
		bw := NewBinaryWriter()
		fn(bw)
		return bw.Finish()
	}
	tw := NewTextWriter()
	fn(tw)
	return tw.Finish()
}
