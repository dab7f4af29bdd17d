package seri

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

func text(t *testing.T, fn func(w Writer)) string {
	t.Helper()
	out, err := Encode(EncodingText, fn)
	if err != nil {
		t.Fatalf("text encode: %v", err)
	}
	return string(out)
}

func bin(t *testing.T, fn func(w Writer)) []byte {
	t.Helper()
	out, err := Encode(EncodingBinary, fn)
	if err != nil {
		t.Fatalf("binary encode: %v", err)
	}
	return out
}

func TestAbsentModifiersWriteNothing(t *testing.T) {
	var (
		colour Colour
		b      Bool
		f      Flag
		fl     Float
		v2     Vec2
		v3     Vec3
		axis   AxisId
		tex    Texture
		anim   Animation
		o2w    O2W
	)
	emit := func(w Writer) {
		colour.Write(w, keyword.GroupColour)
		b.Write(w, keyword.Hidden)
		f.Write(w, keyword.NoZTest)
		fl.Write(w, keyword.Reflectivity)
		v2.Write(w, keyword.Size)
		v3.Write(w, keyword.Velocity)
		axis.Write(w, keyword.AxisId)
		tex.Write(w)
		anim.Write(w, keyword.Animation)
		o2w.Write(w)
	}

	if got := text(t, emit); got != "" {
		t.Errorf("text output = %q, want empty", got)
	}
	if got := bin(t, emit); len(got) != 0 {
		t.Errorf("binary output = %d bytes, want 0", len(got))
	}
}

func TestPresentModifiersText(t *testing.T) {
	tests := []struct {
		name string
		emit func(w Writer)
		want string
	}{
		{"colour", func(w Writer) { ARGB(0xFF00FF00).Write(w, keyword.GroupColour) }, "*GroupColour {ff00ff00}"},
		{"random colour writes no block", func(w Writer) { RandomColour().Write(w, keyword.GroupColour) }, ""},
		{"bool true", func(w Writer) { BoolOf(true).Write(w, keyword.Hidden) }, "*Hidden {true}"},
		{"bool false", func(w Writer) { BoolOf(false).Write(w, keyword.Wireframe) }, "*Wireframe {false}"},
		{"flag", func(w Writer) { Flag(true).Write(w, keyword.NoZWrite) }, "*NoZWrite {}"},
		{"float", func(w Writer) { FloatOf(0.25).Write(w, keyword.Reflectivity) }, "*Reflectivity {0.25}"},
		{"vec2", func(w Writer) { Vec2Of(mgl32.Vec2{0.1, 0.3}).Write(w, keyword.Size) }, "*Size {0.1 0.3}"},
		{"axis", func(w Writer) { AxisNegY.Write(w, keyword.AxisId) }, "*AxisId {-Y}"},
		{
			"texture",
			func(w Writer) {
				Texture{Path: `a "b".png`, AddrU: AddrClamp, Filter: FilterLinear, Alpha: BoolOf(true)}.Write(w)
			},
			`*Texture {*FilePath {"a \"b\".png"} *Addr {Clamp Wrap} *Filter {Linear} *Alpha {true}}`,
		},
		{
			"animation",
			func(w Writer) {
				var a Animation
				a.Style(AnimPingPong).Period(2).AngVelocity(mgl32.Vec3{0, 90, 0})
				a.Write(w, keyword.RootAnimation)
			},
			"*RootAnimation {*Style {PingPong} *Period {2} *AngVelocity {0 90 0}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text(t, tt.emit); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextNodeHeader(t *testing.T) {
	got := text(t, func(w Writer) {
		w.BeginNode(keyword.Point, "p", ARGB(0xFF00FF00))
		w.Begin(keyword.Data)
		w.Float(1, 2, 3)
		w.Colour(White)
		w.End()
		w.End()
		w.BeginNode(keyword.Group, "", Colour{})
		w.End()
		w.BeginNode(keyword.Group, "r", RandomColour())
		w.End()
	})
	want := "*Point p ff00ff00 {*Data {1 2 3 ffffffff}}\n*Group {}\n*Group r {}"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{0.1, "0.1"},
		{0.3, "0.3"},
		{1.5e-7, "1.5e-07"},
		{123456.5, "123456.5"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextConversionError(t *testing.T) {
	for _, v := range []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		_, err := Encode(EncodingText, func(w Writer) {
			w.Begin(keyword.Pos)
			w.Float(1, v, 3)
			w.End()
		})
		if !errors.Is(err, errors.ErrCodeConversion) {
			t.Errorf("Float(%v) error = %v, want CONVERSION", v, err)
		}
	}

	// Binary carries the raw bits and accepts NaN.
	if _, err := Encode(EncodingBinary, func(w Writer) {
		w.Begin(keyword.Pos)
		w.Float(float32(math.NaN()))
		w.End()
	}); err != nil {
		t.Errorf("binary NaN error = %v, want nil", err)
	}
}

func TestUnbalancedBlocks(t *testing.T) {
	for _, enc := range []Encoding{EncodingText, EncodingBinary} {
		t.Run(enc.String(), func(t *testing.T) {
			_, err := Encode(enc, func(w Writer) { w.End() })
			if !errors.Is(err, errors.ErrCodeOutOfRange) {
				t.Errorf("stray End error = %v, want OUT_OF_RANGE", err)
			}
			_, err = Encode(enc, func(w Writer) { w.Begin(keyword.Group) })
			if !errors.Is(err, errors.ErrCodeOutOfRange) {
				t.Errorf("unterminated error = %v, want OUT_OF_RANGE", err)
			}
		})
	}
}

func TestBinaryPatchOutOfRange(t *testing.T) {
	w := NewBinaryWriter()
	w.Begin(keyword.Group)
	if err := w.patch(100, 1); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("patch error = %v, want OUT_OF_RANGE", err)
	}
	if err := w.patch(-1, 1); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("negative patch error = %v, want OUT_OF_RANGE", err)
	}
}

func TestBinaryFraming(t *testing.T) {
	got := bin(t, func(w Writer) {
		w.BeginNode(keyword.Point, "p", ARGB(0xFF00FF00))
		w.Begin(keyword.Depth)
		w.Bool(true)
		w.End()
		w.End()
	})

	le := binary.LittleEndian
	if tag := le.Uint32(got[0:]); tag != keyword.Point.Tag() {
		t.Fatalf("outer tag = %08x, want Point", tag)
	}
	if n := int(int32(le.Uint32(got[4:]))); n != len(got)-HeaderSize {
		t.Fatalf("outer length = %d, want %d", n, len(got)-HeaderSize)
	}

	// Name section: tag, length 1, "p".
	off := HeaderSize
	if le.Uint32(got[off:]) != keyword.Name.Tag() || le.Uint32(got[off+4:]) != 1 || got[off+8] != 'p' {
		t.Fatalf("unexpected name section % x", got[off:off+9])
	}
	off += HeaderSize + 1

	// Colour section.
	if le.Uint32(got[off:]) != keyword.Colour.Tag() || le.Uint32(got[off+4:]) != 4 || le.Uint32(got[off+8:]) != 0xFF00FF00 {
		t.Fatalf("unexpected colour section % x", got[off:off+12])
	}
	off += HeaderSize + 4

	// Depth section with a single byte payload.
	if le.Uint32(got[off:]) != keyword.Depth.Tag() || le.Uint32(got[off+4:]) != 1 || got[off+8] != 1 {
		t.Fatalf("unexpected depth section % x", got[off:])
	}
	if off+HeaderSize+1 != len(got) {
		t.Errorf("trailing bytes: %d", len(got)-(off+HeaderSize+1))
	}
}

func TestBinaryScalars(t *testing.T) {
	got := bin(t, func(w Writer) {
		w.Begin(keyword.Data)
		w.Float(1.5)
		w.Int(-2)
		w.Colour(0x80112233)
		w.Enum("Star", 3)
		w.String("ab")
		w.End()
	})
	le := binary.LittleEndian
	p := got[HeaderSize:]
	if len(p) != 4+4+4+4+2 {
		t.Fatalf("payload = %d bytes", len(p))
	}
	if math.Float32frombits(le.Uint32(p[0:])) != 1.5 {
		t.Error("float mismatch")
	}
	if int32(le.Uint32(p[4:])) != -2 {
		t.Error("int mismatch")
	}
	if le.Uint32(p[8:]) != 0x80112233 {
		t.Error("colour mismatch")
	}
	if le.Uint32(p[12:]) != 3 {
		t.Error("enum should write its ordinal")
	}
	if string(p[16:]) != "ab" {
		t.Error("string mismatch")
	}
}

func TestO2WLog(t *testing.T) {
	var o O2W
	o.Euler(10, 20, 30).
		Pos(mgl32.Vec3{-1, -1, -1}).
		Align(AxisPosZ, mgl32.Vec3{0, 1, 0}).
		Quat(mgl32.Quat{W: 1}).
		RandOri().
		Normalise()

	if len(o.Ops()) != 6 {
		t.Fatalf("ops = %d, want 6", len(o.Ops()))
	}

	want := "*O2W {*Euler {10 20 30} *Pos {-1 -1 -1} *Align {+Z 0 1 0} *Quat {0 0 0 1} *RandOri {} *Normalise {}}"
	if got := text(t, o.Write); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}

	// Binary renders the same log: one O2W section with six children.
	b := bin(t, o.Write)
	le := binary.LittleEndian
	payload := b[HeaderSize:]
	var tags []uint32
	for len(payload) > 0 {
		tags = append(tags, le.Uint32(payload))
		n := int(le.Uint32(payload[4:]))
		payload = payload[HeaderSize+n:]
	}
	wantTags := []keyword.Keyword{keyword.Euler, keyword.Pos, keyword.Align, keyword.Quat, keyword.RandOri, keyword.Normalise}
	if len(tags) != len(wantTags) {
		t.Fatalf("binary ops = %d, want %d", len(tags), len(wantTags))
	}
	for i, kw := range wantTags {
		if tags[i] != kw.Tag() {
			t.Errorf("op %d tag = %08x, want %s", i, tags[i], kw)
		}
	}
}

func TestO2WMatrices(t *testing.T) {
	var o O2W
	o.M4x4(mgl32.Translate3D(1, 2, 3))
	want := "*O2W {*M4x4 {1 0 0 0 0 1 0 0 0 0 1 0 1 2 3 1}}"
	if got := text(t, o.Write); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !o.Present() {
		t.Error("Present() = false after M4x4")
	}
	o.Reset()
	if o.Present() {
		t.Error("Present() = true after Reset")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"box", "box"},
		{"my box", "my_box"},
		{"a-b.c", "a_b_c"},
		{"1st", "_1st"},
		{"Café", "Cafe"},
		{"x✓y", "x_y"},
		{"_ok_", "_ok_"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseColour(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ff00ff00", "ff00ff00", false},
		{"#00ff00", "ff00ff00", false},
		{"0x80FF0000", "80ff0000", false},
		{"random", "random", false},
		{"RANDOM", "random", false},
		{"fff", "", true},
		{"zzzzzzzz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColour(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColour(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && c.String() != tt.want {
				t.Errorf("ParseColour(%q) = %q, want %q", tt.in, c.String(), tt.want)
			}
		})
	}
}

func TestAxisId(t *testing.T) {
	for _, s := range []string{"+X", "-Y", "+Z", "-X"} {
		a, err := ParseAxisId(s)
		if err != nil {
			t.Fatalf("ParseAxisId(%q): %v", s, err)
		}
		if a.String() != s {
			t.Errorf("round trip %q -> %q", s, a.String())
		}
	}
	if a, _ := ParseAxisId("z"); a != AxisPosZ {
		t.Errorf("ParseAxisId(z) = %v", a)
	}
	if _, err := ParseAxisId("W"); err == nil {
		t.Error("ParseAxisId(W) should fail")
	}
}

func TestEnumParsers(t *testing.T) {
	if a, err := ParseAddrMode("clamp"); err != nil || a != AddrClamp {
		t.Errorf("ParseAddrMode(clamp) = %v, %v", a, err)
	}
	if f, err := ParseFilterMode("LINEAR"); err != nil || f != FilterLinear {
		t.Errorf("ParseFilterMode(LINEAR) = %v, %v", f, err)
	}
	if s, err := ParseAnimStyle("none"); err != nil || s != AnimNone {
		t.Errorf("ParseAnimStyle(none) = %v, %v", s, err)
	}
	if _, err := ParseAnimStyle("sideways"); err == nil {
		t.Error("ParseAnimStyle(sideways) should fail")
	}
}
