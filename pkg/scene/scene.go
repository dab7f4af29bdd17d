// Package scene loads declarative scene descriptions and builds them into
// LDraw scenes.
//
// A description is a tree of nodes written in TOML, YAML or JSON:
//
//	name = "demo"
//
//	[[nodes]]
//	kind = "group"
//	name = "world"
//	transform = [{ op = "euler", values = [0, 45, 0] }]
//
//	  [[nodes.children]]
//	  kind = "box"
//	  name = "crate"
//	  colour = "ff8b4513"
//	  boxes = [{ dim = [1, 1, 1] }]
//
// Colours are hex strings ("aarrggbb", "rrggbb" or "random"). Vectors are
// arrays of numbers.
package scene

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ldraw/pkg/errors"
)

// Format is the syntax of a description.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name, file extension or media type.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.TrimPrefix(s, ".")
	switch s {
	case "toml", "application/toml", "text/toml":
		return FormatTOML, nil
	case "yaml", "yml", "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML, nil
	case "json", "application/json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", s)
}

// FormatFromPath detects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeUnsupported, "cannot detect scene format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Description is a scene document.
type Description struct {
	Name  string `toml:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Nodes []Node `toml:"nodes" yaml:"nodes" json:"nodes"`
}

// Node describes one scene node. Only the fields of its kind are used.
type Node struct {
	Kind   string `toml:"kind" yaml:"kind" json:"kind"`
	Name   string `toml:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Colour string `toml:"colour" yaml:"colour,omitempty" json:"colour,omitempty"`

	GroupColour   string     `toml:"group_colour" yaml:"group_colour,omitempty" json:"group_colour,omitempty"`
	Hidden        *bool      `toml:"hidden" yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Wireframe     *bool      `toml:"wireframe" yaml:"wireframe,omitempty" json:"wireframe,omitempty"`
	Solid         *bool      `toml:"solid" yaml:"solid,omitempty" json:"solid,omitempty"`
	Reflectivity  *float32   `toml:"reflectivity" yaml:"reflectivity,omitempty" json:"reflectivity,omitempty"`
	LeftHanded    bool       `toml:"left_handed" yaml:"left_handed,omitempty" json:"left_handed,omitempty"`
	ScreenSpace   bool       `toml:"screen_space" yaml:"screen_space,omitempty" json:"screen_space,omitempty"`
	NoZTest       bool       `toml:"no_z_test" yaml:"no_z_test,omitempty" json:"no_z_test,omitempty"`
	NoZWrite      bool       `toml:"no_z_write" yaml:"no_z_write,omitempty" json:"no_z_write,omitempty"`
	Axis          string     `toml:"axis" yaml:"axis,omitempty" json:"axis,omitempty"`
	RootAnimation *Animation `toml:"root_animation" yaml:"root_animation,omitempty" json:"root_animation,omitempty"`
	Transform     []Op       `toml:"transform" yaml:"transform,omitempty" json:"transform,omitempty"`

	// point
	Style   string    `toml:"style" yaml:"style,omitempty" json:"style,omitempty"`
	Size    []float32 `toml:"size" yaml:"size,omitempty" json:"size,omitempty"`
	Depth   *bool     `toml:"depth" yaml:"depth,omitempty" json:"depth,omitempty"`
	Texture *Texture  `toml:"texture" yaml:"texture,omitempty" json:"texture,omitempty"`
	Points  []Vertex  `toml:"points" yaml:"points,omitempty" json:"points,omitempty"`

	// line
	Blocks []Block `toml:"blocks" yaml:"blocks,omitempty" json:"blocks,omitempty"`

	// box
	Boxes []BoxItem `toml:"boxes" yaml:"boxes,omitempty" json:"boxes,omitempty"`

	// model
	File        string     `toml:"file" yaml:"file,omitempty" json:"file,omitempty"`
	Animation   *Animation `toml:"animation" yaml:"animation,omitempty" json:"animation,omitempty"`
	NoMaterials bool       `toml:"no_materials" yaml:"no_materials,omitempty" json:"no_materials,omitempty"`

	Children []Node `toml:"children" yaml:"children,omitempty" json:"children,omitempty"`
}

// Vertex is a position with an optional colour.
type Vertex struct {
	Pos    []float32 `toml:"pos" yaml:"pos" json:"pos"`
	Colour string    `toml:"colour" yaml:"colour,omitempty" json:"colour,omitempty"`
}

// Block is one line block. Vertices are read in pairs for segments and
// directions, in fours for splines and in sequence for strips. A segment
// or spline takes the colour of its first vertex.
type Block struct {
	Style     string    `toml:"style" yaml:"style,omitempty" json:"style,omitempty"`
	Width     *float32  `toml:"width" yaml:"width,omitempty" json:"width,omitempty"`
	Dashed    []float32 `toml:"dashed" yaml:"dashed,omitempty" json:"dashed,omitempty"`
	Arrow     string    `toml:"arrow" yaml:"arrow,omitempty" json:"arrow,omitempty"`
	ArrowSize float32   `toml:"arrow_size" yaml:"arrow_size,omitempty" json:"arrow_size,omitempty"`
	Vertices  []Vertex  `toml:"vertices" yaml:"vertices" json:"vertices"`
}

// BoxItem is one box. Pos defaults to the origin.
type BoxItem struct {
	Dim    []float32 `toml:"dim" yaml:"dim" json:"dim"`
	Pos    []float32 `toml:"pos" yaml:"pos,omitempty" json:"pos,omitempty"`
	Colour string    `toml:"colour" yaml:"colour,omitempty" json:"colour,omitempty"`
}

// Op is one object to world operation, e.g. {op = "pos", values = [0, 1, 0]}.
type Op struct {
	Op     string    `toml:"op" yaml:"op" json:"op"`
	Values []float32 `toml:"values" yaml:"values,omitempty" json:"values,omitempty"`
	Axis   string    `toml:"axis" yaml:"axis,omitempty" json:"axis,omitempty"`
}

// Animation describes a model's playback or a root motion. Style names
// the playback mode ("once", "repeat", ...); the rest are optional.
type Animation struct {
	Style       string    `toml:"style" yaml:"style,omitempty" json:"style,omitempty"`
	Period      *float32  `toml:"period" yaml:"period,omitempty" json:"period,omitempty"`
	Velocity    []float32 `toml:"velocity" yaml:"velocity,omitempty" json:"velocity,omitempty"`
	AngVelocity []float32 `toml:"ang_velocity" yaml:"ang_velocity,omitempty" json:"ang_velocity,omitempty"`
	FrameRange  []int32   `toml:"frame_range" yaml:"frame_range,omitempty" json:"frame_range,omitempty"`
	Frame       *int32    `toml:"frame" yaml:"frame,omitempty" json:"frame,omitempty"`
}

// Texture is a texture file with optional per-axis address modes, a
// filter and an alpha flag.
type Texture struct {
	Path   string   `toml:"path" yaml:"path" json:"path"`
	Addr   []string `toml:"addr" yaml:"addr,omitempty" json:"addr,omitempty"`
	Filter string   `toml:"filter" yaml:"filter,omitempty" json:"filter,omitempty"`
	Alpha  *bool    `toml:"alpha" yaml:"alpha,omitempty" json:"alpha,omitempty"`
}

// Load reads a description file, detecting the format from the extension.
func Load(path string) (*Description, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return Decode(data, format)
}

// Decode parses a description. Unknown fields are rejected so that typos
// do not silently drop parts of a scene.
func Decode(data []byte, format Format) (*Description, error) {
	var d Description
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &d)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse TOML scene")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown field %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse YAML scene")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse JSON scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", format)
	}
	return &d, nil
}

// Encode writes d in the given format.
func (d *Description) Encode(format Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatTOML:
		err = toml.NewEncoder(&buf).Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(d); err == nil {
			err = enc.Close()
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		err = enc.Encode(d)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s scene", format)
	}
	return buf.Bytes(), nil
}
