package ldraw

import (
	"strings"

	"github.com/matzehuels/ldraw/pkg/ldraw/pretty"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// Flags control how a scene is serialized and saved. They combine with |.
type Flags uint8

const (
	// Binary selects the binary encoding.
	Binary Flags = 1 << iota
	// Pretty reformats text output with indentation. Ignored for binary.
	Pretty
	// Append keeps the existing content of the destination file.
	Append
	// NoThrow logs save errors instead of returning them. Out-of-range
	// errors are returned regardless.
	NoThrow
)

// Has reports whether every bit of flag is set in f.
func (f Flags) Has(flag Flags) bool { return f&flag == flag }

// Encoding returns the encoding selected by f.
func (f Flags) Encoding() seri.Encoding {
	if f.Has(Binary) {
		return seri.EncodingBinary
	}
	return seri.EncodingText
}

func (f Flags) String() string {
	var parts []string
	for _, fl := range []struct {
		f    Flags
		name string
	}{{Binary, "binary"}, {Pretty, "pretty"}, {Append, "append"}, {NoThrow, "nothrow"}} {
		if f.Has(fl.f) {
			parts = append(parts, fl.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Builder is the root of a scene. Top-level objects are created with the
// factory methods and emitted in creation order.
//
// A Builder is not safe for concurrent use. Build subtrees on separate
// goroutines with the New* constructors and Append them afterwards.
type Builder struct {
	container
}

// New returns an empty scene.
func New() *Builder {
	return &Builder{}
}

// Len returns the number of top-level objects.
func (b *Builder) Len() int { return len(b.children) }

// Emit writes the scene into w.
func (b *Builder) Emit(w seri.Writer) {
	for _, c := range b.children {
		c.write(w)
	}
}

// Text returns the scene as script text. With Pretty set the text is
// indented and ends with a newline.
func (b *Builder) Text(flags Flags) (string, error) {
	out, err := seri.Encode(seri.EncodingText, b.Emit)
	if err != nil {
		return "", err
	}
	if flags.Has(Pretty) {
		return pretty.Format(string(out)), nil
	}
	return string(out), nil
}

// Binary returns the scene in the binary encoding. Flags other than the
// encoding do not affect the bytes.
func (b *Builder) Binary(flags Flags) ([]byte, error) {
	return seri.Encode(seri.EncodingBinary, b.Emit)
}

// Bytes returns the file content for flags: binary when Binary is set,
// otherwise text terminated by a newline.
func (b *Builder) Bytes(flags Flags) ([]byte, error) {
	if flags.Has(Binary) {
		return b.Binary(flags)
	}
	s, err := b.Text(flags)
	if err != nil {
		return nil, err
	}
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return []byte(s), nil
}
