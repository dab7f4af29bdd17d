package section

import (
	"encoding/binary"
	"testing"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

func header(kw keyword.Keyword, n int32) []byte {
	b := binary.LittleEndian.AppendUint32(nil, kw.Tag())
	return binary.LittleEndian.AppendUint32(b, uint32(n))
}

func encode(t *testing.T, fn func(w seri.Writer)) []byte {
	t.Helper()
	data, err := seri.Encode(seri.EncodingBinary, fn)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func TestRead(t *testing.T) {
	data := append(header(keyword.Hidden, 1), 1)
	data = append(data, header(keyword.Wireframe, 0)...)

	secs, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(secs) != 2 {
		t.Fatalf("got %d sections, want 2", len(secs))
	}
	if secs[0].Keyword != keyword.Hidden || len(secs[0].Payload) != 1 || secs[0].End() != 9 {
		t.Errorf("first section = %+v", secs[0])
	}
	if secs[1].Keyword != keyword.Wireframe || secs[1].Offset != 9 || secs[1].End() != len(data) {
		t.Errorf("second section = %+v", secs[1])
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{1, 2, 3}},
		{"overrun", append(header(keyword.Data, 8), 0, 0, 0, 0)},
		{"negative length", header(keyword.Data, -1)},
		{"trailing bytes", append(header(keyword.Solid, 0), 0xff)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.data)
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Read() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestParseNested(t *testing.T) {
	data := encode(t, func(w seri.Writer) {
		w.BeginNode(keyword.Group, "g", seri.ARGB(0xff00ff00))
		w.Begin(keyword.O2W)
		w.Begin(keyword.Pos)
		w.Float(1, 2, 3)
		w.End()
		w.End()
		w.End()
	})

	secs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(secs) != 1 || secs[0].Keyword != keyword.Group {
		t.Fatalf("top level = %+v", secs)
	}
	g := secs[0]
	if len(g.Children) != 3 {
		t.Fatalf("group has %d children, want name, colour, O2W", len(g.Children))
	}
	if name, ok := g.Find(keyword.Name); !ok || string(name.Payload) != "g" {
		t.Errorf("name section = %+v", name)
	}
	if c, _ := g.Find(keyword.Colour); c.Describe() != "ff00ff00" {
		t.Errorf("colour describes as %q", c.Describe())
	}
	o2w, _ := g.Find(keyword.O2W)
	pos := o2w.Children[0]
	if got := pos.Floats(); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("pos floats = %v", got)
	}
	if pos.Describe() != "1 2 3" {
		t.Errorf("pos describes as %q", pos.Describe())
	}
}

func TestWalk(t *testing.T) {
	data := encode(t, func(w seri.Writer) {
		w.BeginNode(keyword.Group, "", seri.Colour{})
		w.BeginNode(keyword.Point, "", seri.Colour{})
		w.Begin(keyword.Style)
		w.Enum("Star", 3)
		w.End()
		w.End()
		w.End()
		seri.Flag(true).Write(w, keyword.Hidden)
	})

	var got []string
	var depths []int
	err := Walk(data, func(s Section, depth int) error {
		got = append(got, s.Keyword.String())
		depths = append(depths, depth)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{"Group", "Point", "Style", "Hidden"}
	wantDepth := []int{0, 1, 2, 0}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] || depths[i] != wantDepth[i] {
			t.Errorf("visit %d = %s@%d, want %s@%d", i, got[i], depths[i], want[i], wantDepth[i])
		}
	}
}

func TestWalkStops(t *testing.T) {
	data := append(header(keyword.Solid, 0), header(keyword.Hidden, 0)...)
	stop := errors.New(errors.ErrCodeInternal, "stop")
	n := 0
	err := Walk(data, func(Section, int) error {
		n++
		return stop
	})
	if err != stop || n != 1 {
		t.Errorf("Walk() = %v after %d visits", err, n)
	}
}

func TestUnknownTag(t *testing.T) {
	data := binary.LittleEndian.AppendUint32(nil, 0xdeadbeef)
	data = binary.LittleEndian.AppendUint32(data, 2)
	data = append(data, 7, 7)
	data = append(data, header(keyword.Solid, 0)...)

	secs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(secs) != 2 || secs[1].Keyword != keyword.Solid {
		t.Errorf("unknown section not skipped: %+v", secs)
	}
	if secs[0].Keyword.Known() {
		t.Error("0xdeadbeef should not be a known keyword")
	}
}

func TestDescribe(t *testing.T) {
	data := encode(t, func(w seri.Writer) {
		w.Begin(keyword.Style)
		w.Enum("Star", 3)
		w.End()
		seri.BoolOf(true).Write(w, keyword.Depth)
		seri.Flag(true).Write(w, keyword.NoZTest)
	})
	secs, err := Read(data)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []string{"3", "true", "{}"}
	for i, s := range secs {
		if got := s.Describe(); got != want[i] {
			t.Errorf("%s.Describe() = %q, want %q", s.Keyword, got, want[i])
		}
	}
}
