package ldraw

import (
	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// Node is one element of the scene tree. The set of kinds is closed:
// [Point], [Line], [Box], [Model] and [Group].
type Node interface {
	// Keyword returns the keyword the node is emitted under. For Box this
	// depends on the content (single box or list).
	Keyword() keyword.Keyword

	// Name returns the sanitized name, or "" when unnamed.
	Name() string

	// Children returns the owned child nodes in emission order.
	Children() []Node

	// Parent returns the owning node, or nil for detached nodes and for
	// nodes directly under a [Builder].
	Parent() Node

	// Summary describes the type-specific payload, e.g. "3 points".
	Summary() string

	// Modifiers lists the keywords of the modifiers that are set, in
	// emission order.
	Modifiers() []keyword.Keyword

	// IsHidden reports whether the node was explicitly hidden.
	IsHidden() bool

	hdr() *header
	write(w seri.Writer)
}

// container owns an ordered list of children and creates new ones.
type container struct {
	owner    Node
	children []Node
}

// Children implements [Node].
func (c *container) Children() []Node { return c.children }

func (c *container) adopt(n Node) {
	h := n.hdr()
	h.parent = c.owner
	h.attached = true
	c.children = append(c.children, n)
}

// Append adopts a detached subtree, for example one built by a separate
// worker. Nodes that already have an owner, and nodes that would become
// their own descendant, are rejected.
func (c *container) Append(n Node) error {
	if n == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot append a nil node")
	}
	if n.hdr().attached {
		return errors.New(errors.ErrCodeInvalidInput, "node %q already has a parent", n.Name())
	}
	for p := c.owner; p != nil; p = p.Parent() {
		if p == n {
			return errors.New(errors.ErrCodeInvalidInput, "node %q cannot be appended to its own subtree", n.Name())
		}
	}
	c.adopt(n)
	return nil
}

// Point adds a point cloud child.
func (c *container) Point(name string, colour ...uint32) *Point {
	p := NewPoint(name, colour...)
	c.adopt(p)
	return p
}

// Line adds a line child.
func (c *container) Line(name string, colour ...uint32) *Line {
	l := NewLine(name, colour...)
	c.adopt(l)
	return l
}

// Box adds a box or box list child.
func (c *container) Box(name string, colour ...uint32) *Box {
	b := NewBox(name, colour...)
	c.adopt(b)
	return b
}

// Model adds a model child.
func (c *container) Model(name string, colour ...uint32) *Model {
	m := NewModel(name, colour...)
	c.adopt(m)
	return m
}

// Group adds a group child.
func (c *container) Group(name string, colour ...uint32) *Group {
	g := NewGroup(name, colour...)
	c.adopt(g)
	return g
}

// header is the state shared by every node kind: the object header, the
// common modifiers and the children.
type header struct {
	container

	name     string
	colour   seri.Colour
	parent   Node
	attached bool

	groupColour  seri.Colour
	hide         seri.Bool
	wireframe    seri.Bool
	solid        seri.Bool
	reflectivity seri.Float
	leftHanded   seri.Flag
	screenSpace  seri.Flag
	noZTest      seri.Flag
	noZWrite     seri.Flag
	axisId       seri.AxisId
	rootAnim     seri.Animation
	o2w          seri.O2W
}

func (h *header) hdr() *header { return h }

// Name implements [Node].
func (h *header) Name() string { return h.name }

// Parent implements [Node].
func (h *header) Parent() Node { return h.parent }

// Modifiers implements [Node].
func (h *header) Modifiers() []keyword.Keyword {
	var out []keyword.Keyword
	add := func(present bool, kw keyword.Keyword) {
		if present {
			out = append(out, kw)
		}
	}
	add(h.colour.Random(), keyword.RandColour)
	add(h.groupColour.Present(), keyword.GroupColour)
	add(h.hide.Present(), keyword.Hidden)
	add(h.wireframe.Present(), keyword.Wireframe)
	add(h.solid.Present(), keyword.Solid)
	add(h.reflectivity.Present(), keyword.Reflectivity)
	add(h.leftHanded.Present(), keyword.LeftHanded)
	add(h.screenSpace.Present(), keyword.ScreenSpace)
	add(h.noZTest.Present(), keyword.NoZTest)
	add(h.noZWrite.Present(), keyword.NoZWrite)
	add(h.axisId.Present(), keyword.AxisId)
	add(h.rootAnim.Present(), keyword.RootAnimation)
	add(h.o2w.Present(), keyword.O2W)
	return out
}

// IsHidden implements [Node].
func (h *header) IsHidden() bool { return h.hide.Value() }

// writeModifiers emits every present modifier in canonical order, then the
// children. The name and colour belong to the node header and are written
// by BeginNode.
func (h *header) writeModifiers(w seri.Writer) {
	if h.colour.Random() {
		seri.Flag(true).Write(w, keyword.RandColour)
	}
	h.groupColour.Write(w, keyword.GroupColour)
	h.hide.Write(w, keyword.Hidden)
	h.wireframe.Write(w, keyword.Wireframe)
	h.solid.Write(w, keyword.Solid)
	h.reflectivity.Write(w, keyword.Reflectivity)
	h.leftHanded.Write(w, keyword.LeftHanded)
	h.screenSpace.Write(w, keyword.ScreenSpace)
	h.noZTest.Write(w, keyword.NoZTest)
	h.noZWrite.Write(w, keyword.NoZWrite)
	h.axisId.Write(w, keyword.AxisId)
	h.rootAnim.Write(w, keyword.RootAnimation)
	h.o2w.Write(w)
	for _, c := range h.children {
		c.write(w)
	}
}

// Base carries the common modifiers of a node kind T. The setters return
// *T so that calls chain on the concrete kind:
//
//	b.Point("p").Colour(0xFF00FF00).Hide(true).Style(ldraw.PointStar)
type Base[T any] struct {
	header
	self *T
}

func (b *Base[T]) init(self *T, name string, colour []uint32) {
	b.self = self
	b.name = seri.SanitizeName(name)
	if len(colour) > 0 {
		b.colour = seri.ARGB(colour[0])
	}
	b.owner = any(self).(Node)
}

// SetName replaces the node name. The name is sanitized to a bareword.
func (b *Base[T]) SetName(name string) *T {
	b.name = seri.SanitizeName(name)
	return b.self
}

// Colour sets the object colour written in the node header.
func (b *Base[T]) Colour(argb uint32) *T {
	b.colour = seri.ARGB(argb)
	return b.self
}

// RandColour asks the consumer to pick a random colour at load time.
func (b *Base[T]) RandColour() *T {
	b.colour = seri.RandomColour()
	return b.self
}

// GroupColour sets a colour applied to the node and all its children.
func (b *Base[T]) GroupColour(argb uint32) *T {
	b.groupColour = seri.ARGB(argb)
	return b.self
}

// Hide sets whether the node and its children start hidden.
func (b *Base[T]) Hide(hidden bool) *T {
	b.hide = seri.BoolOf(hidden)
	return b.self
}

// Wireframe sets whether the node draws as wireframe.
func (b *Base[T]) Wireframe(on bool) *T {
	b.wireframe = seri.BoolOf(on)
	return b.self
}

// Solid sets whether the node draws with filled faces.
func (b *Base[T]) Solid(on bool) *T {
	b.solid = seri.BoolOf(on)
	return b.self
}

// Reflectivity sets the environment map reflectivity in [0,1].
func (b *Base[T]) Reflectivity(r float32) *T {
	b.reflectivity = seri.FloatOf(r)
	return b.self
}

// LeftHanded marks the geometry as using left-handed winding.
func (b *Base[T]) LeftHanded() *T {
	b.leftHanded = true
	return b.self
}

// ScreenSpace draws the node in normalised screen coordinates.
func (b *Base[T]) ScreenSpace() *T {
	b.screenSpace = true
	return b.self
}

// NoZTest draws the node without depth testing.
func (b *Base[T]) NoZTest() *T {
	b.noZTest = true
	return b.self
}

// NoZWrite draws the node without writing depth.
func (b *Base[T]) NoZWrite() *T {
	b.noZWrite = true
	return b.self
}

// AxisId declares which model axis is "forward".
func (b *Base[T]) AxisId(axis seri.AxisId) *T {
	b.axisId = axis
	return b.self
}

// RootAnimation returns the root motion animation for in-place editing.
func (b *Base[T]) RootAnimation() *seri.Animation {
	return &b.rootAnim
}

// O2W returns the object to world operation log for in-place editing.
func (b *Base[T]) O2W() *seri.O2W {
	return &b.o2w
}
