// Package section reads the structure of binary LDraw data.
//
// Binary data is a sequence of sections, each an 8 byte header (little
// endian uint32 keyword tag, int32 payload length) followed by the payload.
// Sections of container keywords hold nested sections; all others hold raw
// values. Unknown tags are skipped using the length alone.
package section

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// HeaderSize is the byte size of a section header.
const HeaderSize = 8

// Section is one tagged chunk of binary data.
type Section struct {
	Keyword keyword.Keyword
	// Offset is the position of the header within the data passed to
	// Read or Parse.
	Offset  int
	Payload []byte
	// Children holds the nested sections of container keywords. Read
	// leaves it empty.
	Children []Section
}

// End returns the offset just past the section.
func (s Section) End() int { return s.Offset + HeaderSize + len(s.Payload) }

// Read splits data into sibling sections without descending into them.
// The sections must tile data exactly.
func Read(data []byte) ([]Section, error) {
	return read(data, 0)
}

func read(data []byte, base int) ([]Section, error) {
	var out []Section
	for off := 0; off < len(data); {
		if len(data)-off < HeaderSize {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"truncated section header at offset %d", base+off)
		}
		tag := binary.LittleEndian.Uint32(data[off:])
		n := int32(binary.LittleEndian.Uint32(data[off+4:]))
		if n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"negative section length %d at offset %d", n, base+off)
		}
		end := off + HeaderSize + int(n)
		if end > len(data) {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"section %s at offset %d overruns its parent by %d bytes",
				keyword.Keyword(tag), base+off, end-len(data))
		}
		out = append(out, Section{
			Keyword: keyword.Keyword(tag),
			Offset:  base + off,
			Payload: data[off+HeaderSize : end],
		})
		off = end
	}
	return out, nil
}

// Parse reads data into a tree, descending into container sections.
func Parse(data []byte) ([]Section, error) {
	return parse(data, 0)
}

func parse(data []byte, base int) ([]Section, error) {
	secs, err := read(data, base)
	if err != nil {
		return nil, err
	}
	for i := range secs {
		s := &secs[i]
		if !s.Keyword.IsContainer() {
			continue
		}
		if s.Children, err = parse(s.Payload, s.Offset+HeaderSize); err != nil {
			return nil, err
		}
	}
	return secs, nil
}

// Walk calls fn for every section of data depth-first. Returning an error
// from fn stops the walk.
func Walk(data []byte, fn func(s Section, depth int) error) error {
	secs, err := Parse(data)
	if err != nil {
		return err
	}
	return walk(secs, 0, fn)
}

func walk(secs []Section, depth int, fn func(Section, int) error) error {
	for _, s := range secs {
		if err := fn(s, depth); err != nil {
			return err
		}
		if err := walk(s.Children, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the first direct child with keyword kw.
func (s Section) Find(kw keyword.Keyword) (Section, bool) {
	for _, c := range s.Children {
		if c.Keyword == kw {
			return c, true
		}
	}
	return Section{}, false
}

// Floats decodes the payload as float32 values.
func (s Section) Floats() []float32 {
	out := make([]float32, len(s.Payload)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(s.Payload[i*4:]))
	}
	return out
}

// Uint32 decodes the first four payload bytes, which hold colours and enum
// ordinals.
func (s Section) Uint32() (uint32, bool) {
	if len(s.Payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(s.Payload), true
}

// Ints decodes the payload as int32 values.
func (s Section) Ints() []int32 {
	out := make([]int32, len(s.Payload)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(s.Payload[i*4:]))
	}
	return out
}

// intValued lists the value keywords whose payload is int32 ordinals or
// frame numbers.
var intValued = map[keyword.Keyword]bool{
	keyword.Style:      true,
	keyword.AxisId:     true,
	keyword.Addr:       true,
	keyword.Filter:     true,
	keyword.Frame:      true,
	keyword.FrameRange: true,
}

func join[T any](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// Describe returns a short human readable rendering of the payload.
func (s Section) Describe() string {
	switch {
	case s.Keyword.IsContainer():
		return fmt.Sprintf("%d sections", len(s.Children))
	case s.Keyword == keyword.Name || s.Keyword == keyword.FilePath:
		return fmt.Sprintf("%q", s.Payload)
	case s.Keyword == keyword.Colour || s.Keyword == keyword.GroupColour:
		if v, ok := s.Uint32(); ok {
			return fmt.Sprintf("%08x", v)
		}
	case intValued[s.Keyword]:
		return join(s.Ints())
	case len(s.Payload) == 0:
		return "{}"
	case len(s.Payload) == 1:
		return fmt.Sprintf("%t", s.Payload[0] != 0)
	case len(s.Payload)%4 == 0 && len(s.Payload) <= 64:
		return join(s.Floats())
	}
	if utf8.Valid(s.Payload) && len(s.Payload) < 64 {
		return fmt.Sprintf("%q", s.Payload)
	}
	return fmt.Sprintf("%d bytes", len(s.Payload))
}
