package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ldraw/pkg/ldraw"
	"github.com/matzehuels/ldraw/pkg/render"
)

// Options configures scene diagram rendering.
type Options struct {
	// Detailed adds the payload summary and the set modifiers to node
	// labels. When false, only the keyword and name are shown.
	Detailed bool
}

// ToDOT converts a scene to Graphviz DOT format, one node per scene node
// with an edge from each parent to its children. The result can be
// rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Hidden nodes are drawn with dashed outlines and grey fill.
func ToDOT(b *ldraw.Builder, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make(map[ldraw.Node]string)
	var edges []string
	b.Walk(func(n ldraw.Node, _ int) bool {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
		if p := n.Parent(); p != nil {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", ids[p], id))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n ldraw.Node, detailed bool) string {
	label := n.Keyword().Token()
	if n.Name() != "" {
		label += " " + n.Name()
	}
	if !detailed {
		return label
	}

	parts := []string{n.Summary()}
	if mods := n.Modifiers(); len(mods) > 0 {
		names := make([]string, len(mods))
		for i, kw := range mods {
			names[i] = kw.String()
		}
		parts = append(parts, strings.Join(names, ", "))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

var shapes = map[string]string{
	"Group": "folder",
	"Model": "component",
}

func fmtAttrs(n ldraw.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if shape, ok := shapes[n.Keyword().String()]; ok {
		attrs = append(attrs, "shape="+shape)
	}
	if n.IsHidden() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given
// scale.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
