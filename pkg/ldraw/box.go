package ldraw

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

type boxItem struct {
	dim, pos mgl32.Vec3
	colour   uint32
}

// Box is one or more axis-aligned boxes. A single uncoloured box at the
// origin is emitted as *Box, everything else as *BoxList.
type Box struct {
	Base[Box]
	items   []boxItem
	perItem bool
}

// NewBox returns a detached box for use with Append.
func NewBox(name string, colour ...uint32) *Box {
	b := &Box{}
	b.init(b, name, colour)
	return b
}

func (b *Box) single() bool {
	return len(b.items) == 1 && !b.perItem && b.items[0].pos == (mgl32.Vec3{})
}

// Keyword implements [Node].
func (b *Box) Keyword() keyword.Keyword {
	if b.single() {
		return keyword.Box
	}
	return keyword.BoxList
}

// Summary implements [Node].
func (b *Box) Summary() string {
	if len(b.items) == 1 {
		return "1 box"
	}
	return fmt.Sprintf("%d boxes", len(b.items))
}

// Len returns the number of boxes.
func (b *Box) Len() int { return len(b.items) }

// Add adds a box of dimensions dim centred on pos. An optional colour
// switches the list to per-box colours.
func (b *Box) Add(dim, pos mgl32.Vec3, colour ...uint32) *Box {
	it := boxItem{dim: dim, pos: pos, colour: seri.White}
	if len(colour) > 0 {
		it.colour = colour[0]
		b.perItem = true
	}
	b.items = append(b.items, it)
	return b
}

// Cube adds a cube with side length size centred on pos.
func (b *Box) Cube(size float32, pos mgl32.Vec3, colour ...uint32) *Box {
	return b.Add(mgl32.Vec3{size, size, size}, pos, colour...)
}

func (b *Box) write(w seri.Writer) {
	if b.single() {
		w.BeginNode(keyword.Box, b.name, b.colour)
		d := b.items[0].dim
		w.Begin(keyword.Data)
		w.Float(d[0], d[1], d[2])
		w.End()
		b.writeModifiers(w)
		w.End()
		return
	}
	w.BeginNode(keyword.BoxList, b.name, b.colour)
	if b.perItem {
		seri.Flag(true).Write(w, keyword.PerItemColour)
	}
	if len(b.items) != 0 {
		w.Begin(keyword.Data)
		for _, it := range b.items {
			w.Float(it.dim[0], it.dim[1], it.dim[2], it.pos[0], it.pos[1], it.pos[2])
			if b.perItem {
				w.Colour(it.colour)
			}
		}
		w.End()
	}
	b.writeModifiers(w)
	w.End()
}
