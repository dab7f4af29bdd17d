package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ldraw/pkg/errors"
)

const demoTOML = `
name = "demo"

[[nodes]]
kind = "group"
name = "world"
colour = "random"
hidden = false
transform = [
  { op = "euler", values = [0, 45, 0] },
  { op = "pos", values = [0, 0, -5] },
]

  [[nodes.children]]
  kind = "box"
  name = "crate"
  colour = "ff8b4513"
  boxes = [{ dim = [1, 1, 1] }]

  [[nodes.children]]
  kind = "line"
  name = "axes"

    [[nodes.children.blocks]]
    width = 2
    vertices = [{ pos = [0, 0, 0], colour = "ffff0000" }, { pos = [1, 0, 0] }]

    [[nodes.children.blocks]]
    style = "strip"
    vertices = [{ pos = [0, 0, 0] }, { pos = [0, 1, 0] }, { pos = [0, 1, 1] }]

[[nodes]]
kind = "model"
name = "teapot"
file = "models/teapot.x"
no_materials = true
animation = { style = "repeat", period = 2.5 }
`

const demoYAML = `
name: demo
nodes:
  - kind: group
    name: world
    colour: random
    hidden: false
    transform:
      - {op: euler, values: [0, 45, 0]}
      - {op: pos, values: [0, 0, -5]}
    children:
      - kind: box
        name: crate
        colour: ff8b4513
        boxes:
          - dim: [1, 1, 1]
      - kind: line
        name: axes
        blocks:
          - width: 2
            vertices:
              - {pos: [0, 0, 0], colour: ffff0000}
              - {pos: [1, 0, 0]}
          - style: strip
            vertices:
              - pos: [0, 0, 0]
              - pos: [0, 1, 0]
              - pos: [0, 1, 1]
  - kind: model
    name: teapot
    file: models/teapot.x
    no_materials: true
    animation: {style: repeat, period: 2.5}
`

const demoJSON = `{
  "name": "demo",
  "nodes": [
    {
      "kind": "group", "name": "world", "colour": "random", "hidden": false,
      "transform": [{"op": "euler", "values": [0, 45, 0]}, {"op": "pos", "values": [0, 0, -5]}],
      "children": [
        {"kind": "box", "name": "crate", "colour": "ff8b4513", "boxes": [{"dim": [1, 1, 1]}]},
        {"kind": "line", "name": "axes", "blocks": [
          {"width": 2, "vertices": [{"pos": [0, 0, 0], "colour": "ffff0000"}, {"pos": [1, 0, 0]}]},
          {"style": "strip", "vertices": [{"pos": [0, 0, 0]}, {"pos": [0, 1, 0]}, {"pos": [0, 1, 1]}]}
        ]}
      ]
    },
    {"kind": "model", "name": "teapot", "file": "models/teapot.x", "no_materials": true,
     "animation": {"style": "repeat", "period": 2.5}}
  ]
}`

const demoText = "*Group world {*RandColour {} *Hidden {false} *O2W {*Euler {0 45 0} *Pos {0 0 -5}} " +
	"*Box crate ff8b4513 {*Data {1 1 1}} " +
	"*Line axes {*Block {*Width {2} *PerItemColour {true} *Data {0 0 0 ffff0000 1 0 0 ffff0000}} " +
	"*Block {*Style {LineStrip} *Data {0 0 0 0 1 0 0 1 1}}}}\n" +
	`*Model teapot {*FilePath {"models/teapot.x"} *Animation {*Style {Repeat} *Period {2.5}} *NoMaterials {}}`

func buildText(t *testing.T, d *Description) string {
	t.Helper()
	b, err := d.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, err := b.Text(0)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	return s
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatTOML, demoTOML},
		{FormatYAML, demoYAML},
		{FormatJSON, demoJSON},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			d, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if d.Name != "demo" || len(d.Nodes) != 2 {
				t.Errorf("decoded %q with %d nodes", d.Name, len(d.Nodes))
			}
			if got := buildText(t, d); got != demoText {
				t.Errorf("built scene =\n%s\nwant\n%s", got, demoText)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	d, err := Decode([]byte(demoYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for _, f := range []Format{FormatTOML, FormatYAML, FormatJSON} {
		data, err := d.Encode(f)
		if err != nil {
			t.Fatalf("Encode(%s): %v", f, err)
		}
		again, err := Decode(data, f)
		if err != nil {
			t.Fatalf("Decode(%s): %v\n%s", f, err, data)
		}
		if got := buildText(t, again); got != demoText {
			t.Errorf("%s round trip built\n%s", f, got)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yml")
	if err := os.WriteFile(path, []byte(demoYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Nodes) != 2 {
		t.Errorf("loaded %d nodes", len(d.Nodes))
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "scene.txt")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Load(.txt) error = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"toml", FormatTOML},
		{".TOML", FormatTOML},
		{"yml", FormatYAML},
		{"application/x-yaml", FormatYAML},
		{"application/json; charset=utf-8", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
}

func TestDecodeUnknownField(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatTOML, "[[nodes]]\nkind = \"group\"\ncolor = \"ff000000\"\n"},
		{FormatYAML, "nodes:\n  - kind: group\n    color: ff000000\n"},
		{FormatJSON, `{"nodes": [{"kind": "group", "color": "ff000000"}]}`},
	}
	for _, tt := range tests {
		if _, err := Decode([]byte(tt.data), tt.format); !errors.Is(err, errors.ErrCodeInvalidScene) {
			t.Errorf("%s: Decode() error = %v, want INVALID_SCENE", tt.format, err)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		path string
	}{
		{"missing kind", "nodes: [{name: x}]", "nodes[0]"},
		{"unknown kind", "nodes: [{kind: sphere}]", "nodes[0]"},
		{"bad colour", "nodes: [{kind: group, colour: purple}]", "nodes[0].colour"},
		{"random item colour", "nodes: [{kind: point, points: [{pos: [0, 0, 0], colour: random}]}]", "nodes[0].points[0].colour"},
		{"short vector", "nodes: [{kind: point, points: [{pos: [0, 0]}]}]", "nodes[0].points[0].pos"},
		{"odd segments", "nodes: [{kind: line, blocks: [{vertices: [{pos: [0, 0, 0]}]}]}]", "nodes[0].blocks[0]"},
		{"empty block", "nodes: [{kind: line, blocks: [{width: 3, arrow: fwd}, {vertices: [{pos: [0, 0, 0]}, {pos: [1, 0, 0]}]}]}]", "nodes[0].blocks[0]"},
		{"spline arity", "nodes: [{kind: line, blocks: [{style: spline, vertices: [{pos: [0, 0, 0]}, {pos: [1, 0, 0]}]}]}]", "nodes[0].blocks[0]"},
		{"op arity", "nodes: [{kind: group, transform: [{op: pos, values: [1]}]}]", "nodes[0].transform[0]"},
		{"unknown op", "nodes: [{kind: group, transform: [{op: shear}]}]", "nodes[0].transform[0]"},
		{"bad axis", "nodes: [{kind: group, axis: w}]", "nodes[0].axis"},
		{"reflectivity", "nodes: [{kind: group, reflectivity: 2}]", "nodes[0].reflectivity"},
		{"frame range", "nodes: [{kind: model, animation: {frame_range: [5, 1]}}]", "nodes[0].animation.frame_range"},
		{"texture path", "nodes: [{kind: point, texture: {path: \"\"}}]", "nodes[0].texture.path"},
		{"nested", "nodes: [{kind: group, children: [{kind: box, boxes: [{dim: [1]}]}]}]", "nodes[0].children[0].boxes[0].dim"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode([]byte(tt.yaml), FormatYAML)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			_, err = d.Build()
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Fatalf("Build() error = %v, want INVALID_SCENE", err)
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("error %q does not name %s", err, tt.path)
			}
		})
	}
}

func TestBuildTransformOps(t *testing.T) {
	doc := `nodes:
  - kind: group
    transform:
      - {op: scale, values: [2]}
      - {op: align, axis: "+z", values: [0, 1, 0]}
      - {op: quat, values: [0, 0, 0, 1]}
      - {op: randori}
`
	d, err := Decode([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "*Group {*O2W {*Scale {2 2 2} *Align {+Z 0 1 0} *Quat {0 0 0 1} *RandOri {}}}"
	if got := buildText(t, d); got != want {
		t.Errorf("built %s, want %s", got, want)
	}
}

func TestBuildLineBlockSettings(t *testing.T) {
	doc := `nodes:
  - kind: line
    blocks:
      - {width: 3, dashed: [1, 2], arrow: fwd, arrow_size: 0.5, vertices: [{pos: [0, 0, 0]}, {pos: [1, 0, 0]}]}
      - {vertices: [{pos: [0, 0, 0]}, {pos: [0, 1, 0]}]}
`
	d, err := Decode([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := buildText(t, d)
	for _, kw := range []string{"*Width", "*Dashed", "*Arrow"} {
		if n := strings.Count(got, kw); n != 1 {
			t.Errorf("%s appears %d times in %s, want only on the first block", kw, n, got)
		}
	}
}

func TestBuildPointTexture(t *testing.T) {
	doc := `nodes:
  - kind: point
    name: sprites
    style: circle
    size: [4, 4]
    depth: true
    texture: {path: dot.png, addr: [clamp], filter: point}
    points:
      - pos: [1, 2, 3]
`
	d, err := Decode([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := `*Point sprites {*Style {Circle} *Size {4 4} *Depth {true} ` +
		`*Texture {*FilePath {"dot.png"} *Addr {Clamp Clamp} *Filter {Point}} *Data {1 2 3}}`
	if got := buildText(t, d); got != want {
		t.Errorf("built\n%s\nwant\n%s", got, want)
	}
}
