// Package render provides output rendering for LDraw scenes.
//
// The [dot] subpackage turns a scene's node tree into Graphviz DOT and SVG.
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(b, dot.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
package render
