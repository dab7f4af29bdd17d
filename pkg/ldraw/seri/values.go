package seri

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

// White is the colour given to items that were never explicitly coloured
// once a block switches to per-item colours.
const White uint32 = 0xFFFFFFFF

// =============================================================================
// Colour
// =============================================================================

type colourKind uint8

const (
	colourNone colourKind = iota
	colourValue
	colourRandom
)

// Colour is an optional ARGB value, or a marker for a randomly assigned
// colour chosen by the consumer at load time.
type Colour struct {
	argb uint32
	kind colourKind
}

// ARGB returns a present colour.
func ARGB(v uint32) Colour { return Colour{argb: v, kind: colourValue} }

// RandomColour returns the random-colour marker.
func RandomColour() Colour { return Colour{kind: colourRandom} }

// Present reports whether the colour was set, explicitly or randomly.
func (c Colour) Present() bool { return c.kind != colourNone }

// Random reports whether c is the random-colour marker.
func (c Colour) Random() bool { return c.kind == colourRandom }

// Value returns the ARGB value, or [White] for absent and random colours.
func (c Colour) Value() uint32 {
	if c.kind != colourValue {
		return White
	}
	return c.argb
}

// String returns 8 hex digits, "random", or "" when absent.
func (c Colour) String() string {
	switch c.kind {
	case colourValue:
		return fmt.Sprintf("%08x", c.argb)
	case colourRandom:
		return "random"
	}
	return ""
}

// Write emits the colour as a modifier block, *Kw {aarrggbb}.
func (c Colour) Write(w Writer, kw keyword.Keyword) {
	if c.kind != colourValue {
		return
	}
	w.Begin(kw)
	w.Colour(c.argb)
	w.End()
}

// ParseColour accepts "aarrggbb", "rrggbb" (opaque), an optional "#" or "0x"
// prefix, and "random".
func ParseColour(s string) (Colour, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "random") {
		return RandomColour(), nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(hex) != 6 && len(hex) != 8 {
		return Colour{}, errors.New(errors.ErrCodeInvalidInput, "colour %q must have 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Colour{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse colour %q", s)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return ARGB(uint32(v)), nil
}

// =============================================================================
// Names
// =============================================================================

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeName converts s into a valid bareword: accents are folded, every
// character outside [A-Za-z0-9_] becomes '_', and a leading digit is
// prefixed with '_'.
func SanitizeName(s string) string {
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldAccents, s); err == nil {
		s = folded
	}
	var b strings.Builder
	b.Grow(len(s) + 1)
	for i, r := range s {
		if i == 0 && r >= '0' && r <= '9' {
			b.WriteByte('_')
		}
		if r < 0x80 && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// =============================================================================
// Scalar modifiers
// =============================================================================

// Bool is an optional boolean, written as *Kw {true} or *Kw {false}.
type Bool struct {
	v   bool
	set bool
}

// BoolOf returns a present Bool.
func BoolOf(v bool) Bool { return Bool{v: v, set: true} }

// Present reports whether the value was set.
func (b Bool) Present() bool { return b.set }

// Value returns the value, false when absent.
func (b Bool) Value() bool { return b.v }

// Write emits the modifier when present.
func (b Bool) Write(w Writer, kw keyword.Keyword) {
	if !b.set {
		return
	}
	w.Begin(kw)
	w.Bool(b.v)
	w.End()
}

// Flag is a valueless switch, written as *Kw {}.
type Flag bool

// Present reports whether the flag is raised.
func (f Flag) Present() bool { return bool(f) }

// Write emits the flag when raised.
func (f Flag) Write(w Writer, kw keyword.Keyword) {
	if !f {
		return
	}
	w.Begin(kw)
	w.End()
}

// Float is an optional scalar.
type Float struct {
	v   float32
	set bool
}

// FloatOf returns a present Float.
func FloatOf(v float32) Float { return Float{v: v, set: true} }

// Present reports whether the value was set.
func (f Float) Present() bool { return f.set }

// Value returns the value, zero when absent.
func (f Float) Value() float32 { return f.v }

// Write emits the modifier when present.
func (f Float) Write(w Writer, kw keyword.Keyword) {
	if !f.set {
		return
	}
	w.Begin(kw)
	w.Float(f.v)
	w.End()
}

// Vec2 is an optional 2-component vector.
type Vec2 struct {
	v   mgl32.Vec2
	set bool
}

// Vec2Of returns a present Vec2.
func Vec2Of(v mgl32.Vec2) Vec2 { return Vec2{v: v, set: true} }

// Present reports whether the value was set.
func (v Vec2) Present() bool { return v.set }

// Value returns the vector, zero when absent.
func (v Vec2) Value() mgl32.Vec2 { return v.v }

// Write emits the modifier when present.
func (v Vec2) Write(w Writer, kw keyword.Keyword) {
	if !v.set {
		return
	}
	w.Begin(kw)
	w.Float(v.v[0], v.v[1])
	w.End()
}

// Vec3 is an optional 3-component vector.
type Vec3 struct {
	v   mgl32.Vec3
	set bool
}

// Vec3Of returns a present Vec3.
func Vec3Of(v mgl32.Vec3) Vec3 { return Vec3{v: v, set: true} }

// Present reports whether the value was set.
func (v Vec3) Present() bool { return v.set }

// Value returns the vector, zero when absent.
func (v Vec3) Value() mgl32.Vec3 { return v.v }

// Write emits the modifier when present.
func (v Vec3) Write(w Writer, kw keyword.Keyword) {
	if !v.set {
		return
	}
	w.Begin(kw)
	w.Float(v.v[0], v.v[1], v.v[2])
	w.End()
}

// =============================================================================
// Axis ids
// =============================================================================

// AxisId names a signed principal axis. The zero value is absent.
type AxisId int8

const (
	AxisNone AxisId = 0
	AxisPosX AxisId = 1
	AxisPosY AxisId = 2
	AxisPosZ AxisId = 3
	AxisNegX AxisId = -1
	AxisNegY AxisId = -2
	AxisNegZ AxisId = -3
)

// Present reports whether the axis was set.
func (a AxisId) Present() bool { return a != AxisNone }

// Valid reports whether a is one of the six signed axes.
func (a AxisId) Valid() bool { return a >= -3 && a <= 3 && a != 0 }

// String returns "+X", "-Z" and so on.
func (a AxisId) String() string {
	if !a.Valid() {
		return ""
	}
	sign, n := "+", int(a)
	if n < 0 {
		sign, n = "-", -n
	}
	return sign + string(rune('X'+n-1))
}

// Write emits the modifier when present.
func (a AxisId) Write(w Writer, kw keyword.Keyword) {
	if !a.Present() {
		return
	}
	w.Begin(kw)
	w.Enum(a.String(), int32(a))
	w.End()
}

// ParseAxisId accepts "+X", "x", "-y", "Z" and so on.
func ParseAxisId(s string) (AxisId, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	sign := AxisId(1)
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	switch s {
	case "X":
		return sign * AxisPosX, nil
	case "Y":
		return sign * AxisPosY, nil
	case "Z":
		return sign * AxisPosZ, nil
	}
	return AxisNone, errors.New(errors.ErrCodeInvalidInput, "invalid axis %q", s)
}
