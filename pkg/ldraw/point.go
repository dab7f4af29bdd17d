package ldraw

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// PointStyle is the sprite drawn at each point.
type PointStyle int32

const (
	PointSquare PointStyle = iota
	PointCircle
	PointTriangle
	PointStar
	PointAnnulus
)

var pointStyleNames = [...]string{"Square", "Circle", "Triangle", "Star", "Annulus"}

func (s PointStyle) String() string {
	if s < 0 || int(s) >= len(pointStyleNames) {
		return fmt.Sprintf("PointStyle(%d)", int32(s))
	}
	return pointStyleNames[s]
}

// ParsePointStyle parses a style name, ignoring case.
func ParsePointStyle(s string) (PointStyle, error) {
	for i, n := range pointStyleNames {
		if strings.EqualFold(n, s) {
			return PointStyle(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid point style %q", s)
}

// Point is a point cloud.
type Point struct {
	Base[Point]

	style    PointStyle
	hasStyle bool
	size     seri.Vec2
	depth    seri.Bool
	texture  seri.Texture
	items    itemList
}

// NewPoint returns a detached point cloud for use with Append.
func NewPoint(name string, colour ...uint32) *Point {
	p := &Point{}
	p.init(p, name, colour)
	return p
}

// Keyword implements [Node].
func (p *Point) Keyword() keyword.Keyword { return keyword.Point }

// Summary implements [Node].
func (p *Point) Summary() string { return plural(p.items.len(), "point") }

// Len returns the number of points.
func (p *Point) Len() int { return p.items.len() }

// Style sets the sprite style.
func (p *Point) Style(s PointStyle) *Point {
	p.style, p.hasStyle = s, true
	return p
}

// Size sets the sprite size in world units, or pixels for screen-space
// nodes.
func (p *Point) Size(v mgl32.Vec2) *Point {
	p.size = seri.Vec2Of(v)
	return p
}

// Depth makes the sprite size depend on distance from the camera.
func (p *Point) Depth(on bool) *Point {
	p.depth = seri.BoolOf(on)
	return p
}

// Texture sets the sprite texture.
func (p *Point) Texture(t seri.Texture) *Point {
	p.texture = t
	return p
}

// Pt adds a point. An optional colour switches the whole cloud to
// per-point colours.
func (p *Point) Pt(v mgl32.Vec3, colour ...uint32) *Point {
	p.items.add(colour, v)
	return p
}

// Pts adds several uncoloured points.
func (p *Point) Pts(vs ...mgl32.Vec3) *Point {
	for _, v := range vs {
		p.items.add(nil, v)
	}
	return p
}

func (p *Point) write(w seri.Writer) {
	w.BeginNode(keyword.Point, p.name, p.colour)
	if p.hasStyle {
		w.Begin(keyword.Style)
		w.Enum(p.style.String(), int32(p.style))
		w.End()
	}
	p.size.Write(w, keyword.Size)
	p.depth.Write(w, keyword.Depth)
	p.texture.Write(w)
	p.items.write(w, false)
	p.writeModifiers(w)
	w.End()
}
