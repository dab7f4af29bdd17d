// Package dot renders the node tree of an LDraw scene as a diagram.
//
// Convert a scene to DOT format, then render to SVG:
//
//	src := dot.ToDOT(b, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Groups are drawn as folders and models as components; every other kind
// is a rounded box. Edges run from parent to child.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package dot
