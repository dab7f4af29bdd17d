package ldraw

import (
	"fmt"

	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
	"github.com/matzehuels/ldraw/pkg/ldraw/seri"
)

// Group has no geometry of its own. Its transform and modifiers apply to
// its children.
type Group struct {
	Base[Group]
}

// NewGroup returns a detached group for use with Append.
func NewGroup(name string, colour ...uint32) *Group {
	g := &Group{}
	g.init(g, name, colour)
	return g
}

// Keyword implements [Node].
func (g *Group) Keyword() keyword.Keyword { return keyword.Group }

// Summary implements [Node].
func (g *Group) Summary() string {
	if len(g.children) == 1 {
		return "1 child"
	}
	return fmt.Sprintf("%d children", len(g.children))
}

func (g *Group) write(w seri.Writer) {
	w.BeginNode(keyword.Group, g.name, g.colour)
	g.writeModifiers(w)
	w.End()
}
