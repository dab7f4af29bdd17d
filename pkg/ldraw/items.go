package ldraw

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// itemList holds vertices with parallel colours. Colours are only emitted
// once at least one item was given one; the others then default to white.
type itemList struct {
	verts   []mgl32.Vec3
	colours []uint32
	perItem bool
}

func (l *itemList) len() int { return len(l.verts) }

func (l *itemList) reset() {
	l.verts, l.colours, l.perItem = nil, nil, false
}

// add appends every vertex with colour[0] if given.
func (l *itemList) add(colour []uint32, vs ...mgl32.Vec3) {
	c := seri.White
	if len(colour) > 0 {
		c = colour[0]
		l.perItem = true
	}
	for _, v := range vs {
		l.verts = append(l.verts, v)
		l.colours = append(l.colours, c)
	}
}

// write emits PerItemColour and Data. flag selects the valueless form of
// the per-item marker.
func (l *itemList) write(w seri.Writer, flag bool) {
	if l.perItem {
		if flag {
			seri.Flag(true).Write(w, keyword.PerItemColour)
		} else {
			seri.BoolOf(true).Write(w, keyword.PerItemColour)
		}
	}
	if len(l.verts) == 0 {
		return
	}
	w.Begin(keyword.Data)
	for i, v := range l.verts {
		w.Float(v[0], v[1], v[2])
		if l.perItem {
			w.Colour(l.colours[i])
		}
	}
	w.End()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
