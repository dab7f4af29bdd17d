package ldraw

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// LineStyle is the topology of a line block.
type LineStyle int32

const (
	LineSegments LineStyle = iota
	LineStrip
	LineDirection
	LineBezierSpline
)

var lineStyleNames = [...]string{"LineSegments", "LineStrip", "Direction", "BezierSpline"}

func (s LineStyle) String() string {
	if s < 0 || int(s) >= len(lineStyleNames) {
		return fmt.Sprintf("LineStyle(%d)", int32(s))
	}
	return lineStyleNames[s]
}

// ParseLineStyle parses a style name, ignoring case. "segments", "strip"
// and "spline" are accepted as short forms.
func ParseLineStyle(s string) (LineStyle, error) {
	switch strings.ToLower(s) {
	case "segments":
		return LineSegments, nil
	case "strip":
		return LineStrip, nil
	case "spline":
		return LineBezierSpline, nil
	}
	for i, n := range lineStyleNames {
		if strings.EqualFold(n, s) {
			return LineStyle(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid line style %q", s)
}

type topology int

const (
	topoPairs topology = iota
	topoStrip
	topoQuads
)

func (s LineStyle) topology() topology {
	switch s {
	case LineStrip:
		return topoStrip
	case LineBezierSpline:
		return topoQuads
	default:
		return topoPairs
	}
}

// ArrowType selects arrow heads on line ends.
type ArrowType int32

const (
	ArrowNone ArrowType = iota
	ArrowFwd
	ArrowBack
	ArrowFwdBack
)

var arrowNames = [...]string{"None", "Fwd", "Back", "FwdBack"}

func (a ArrowType) String() string {
	if a < 0 || int(a) >= len(arrowNames) {
		return fmt.Sprintf("ArrowType(%d)", int32(a))
	}
	return arrowNames[a]
}

// ParseArrowType parses an arrow name, ignoring case.
func ParseArrowType(s string) (ArrowType, error) {
	for i, n := range arrowNames {
		if strings.EqualFold(n, s) {
			return ArrowType(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid arrow type %q", s)
}

type lineBlock struct {
	style     LineStyle
	width     seri.Float
	dashed    seri.Vec2
	arrow     ArrowType
	arrowSize float32
	items     itemList
}

// settings returns an empty block styled like b.
func (b *lineBlock) settings() *lineBlock {
	return &lineBlock{style: b.style, width: b.width, dashed: b.dashed, arrow: b.arrow, arrowSize: b.arrowSize}
}

// restyle switches the block style, dropping vertices when the topology
// changes.
func (b *lineBlock) restyle(s LineStyle) {
	if b.style.topology() != s.topology() {
		b.items.reset()
	}
	b.style = s
}

func (b *lineBlock) write(w seri.Writer) {
	if b.style != LineSegments {
		w.Begin(keyword.Style)
		w.Enum(b.style.String(), int32(b.style))
		w.End()
	}
	b.width.Write(w, keyword.Width)
	b.dashed.Write(w, keyword.Dashed)
	if b.arrow != ArrowNone {
		w.Begin(keyword.Arrow)
		w.Enum(b.arrow.String(), int32(b.arrow))
		w.Float(b.arrowSize)
		w.End()
	}
	b.items.write(w, false)
}

// Line is a set of line blocks. Each block has a single topology: disjoint
// segments, a connected strip, direction rays or bezier splines. Calls that
// need a different topology than the current block's discard the block's
// vertices; call NewBlock first to keep them.
type Line struct {
	Base[Line]
	blocks []*lineBlock
}

// NewLine returns a detached line for use with Append.
func NewLine(name string, colour ...uint32) *Line {
	l := &Line{}
	l.init(l, name, colour)
	return l
}

// Keyword implements [Node].
func (l *Line) Keyword() keyword.Keyword { return keyword.Line }

// Summary implements [Node].
func (l *Line) Summary() string {
	n := 0
	for _, b := range l.blocks {
		n += b.items.len()
	}
	s := fmt.Sprintf("%d vertices", n)
	if n == 1 {
		s = "1 vertex"
	}
	if len(l.blocks) > 1 {
		s = plural(len(l.blocks), "block") + ", " + s
	}
	return s
}

// Blocks returns the number of blocks, including the current one.
func (l *Line) Blocks() int { return len(l.blocks) }

func (l *Line) cur() *lineBlock {
	if len(l.blocks) == 0 {
		l.blocks = append(l.blocks, &lineBlock{})
	}
	return l.blocks[len(l.blocks)-1]
}

// NewBlock closes the current block. The next call starts a fresh block
// with default settings. It is a no-op while the current block is empty.
func (l *Line) NewBlock() *Line {
	if b := l.cur(); b.items.len() != 0 {
		l.blocks = append(l.blocks, &lineBlock{})
	}
	return l
}

// Style sets the current block's style.
func (l *Line) Style(s LineStyle) *Line {
	l.cur().restyle(s)
	return l
}

// Width sets the current block's line width in pixels.
func (l *Line) Width(px float32) *Line {
	l.cur().width = seri.FloatOf(px)
	return l
}

// Dashed sets the current block's dash pattern.
func (l *Line) Dashed(on, off float32) *Line {
	l.cur().dashed = seri.Vec2Of(mgl32.Vec2{on, off})
	return l
}

// Arrow adds arrow heads of the given size to the current block.
func (l *Line) Arrow(t ArrowType, size float32) *Line {
	b := l.cur()
	b.arrow, b.arrowSize = t, size
	return l
}

// Segment adds a segment from a to b. In a Direction block b is the
// direction rather than the end point. An optional colour switches the
// block to per-vertex colours.
func (l *Line) Segment(a, b mgl32.Vec3, colour ...uint32) *Line {
	blk := l.cur()
	if blk.style.topology() != topoPairs {
		blk.restyle(LineSegments)
	}
	blk.items.add(colour, a, b)
	return l
}

// Spline adds a cubic bezier with end points p0, p3 and control points
// p1, p2.
func (l *Line) Spline(p0, p1, p2, p3 mgl32.Vec3, colour ...uint32) *Line {
	blk := l.cur()
	blk.restyle(LineBezierSpline)
	blk.items.add(colour, p0, p1, p2, p3)
	return l
}

// Strip starts a connected strip at p. A strip already in progress is
// closed into its own block first.
func (l *Line) Strip(p mgl32.Vec3, colour ...uint32) *Line {
	blk := l.cur()
	if blk.style.topology() == topoStrip && blk.items.len() != 0 {
		blk = blk.settings()
		l.blocks = append(l.blocks, blk)
	}
	blk.restyle(LineStrip)
	blk.items.add(colour, p)
	return l
}

// LineTo extends the current strip to p.
func (l *Line) LineTo(p mgl32.Vec3, colour ...uint32) *Line {
	blk := l.cur()
	blk.restyle(LineStrip)
	blk.items.add(colour, p)
	return l
}

func (l *Line) write(w seri.Writer) {
	w.BeginNode(keyword.Line, l.name, l.colour)
	var filled []*lineBlock
	for _, b := range l.blocks {
		if b.items.len() != 0 {
			filled = append(filled, b)
		}
	}
	switch {
	case len(filled) > 1:
		for _, b := range filled {
			w.Begin(keyword.Block)
			b.write(w)
			w.End()
		}
	case len(filled) == 1:
		filled[0].write(w)
	case len(l.blocks) != 0:
		l.cur().write(w)
	}
	l.writeModifiers(w)
	w.End()
}
