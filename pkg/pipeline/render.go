package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/ldraw/pkg/ldraw"
	"github.com/matzehuels/ldraw/pkg/render/dot"
)

// Render encodes b in each of formats. The Graphviz diagram is computed
// once and shared by the dot, svg, png and pdf outputs.
func Render(ctx context.Context, b *ldraw.Builder, formats []string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var graph string

	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatLDR, FormatBDR:
			data, err = b.Bytes(opts.Flags(format))
		default:
			if graph == "" {
				graph = dot.ToDOT(b, dot.Options{Detailed: opts.Detailed})
			}
			data, err = renderDiagram(ctx, graph, format, opts.Scale)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderDiagram(ctx context.Context, graph, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(graph), nil
	case FormatSVG:
		return dot.RenderSVG(ctx, graph)
	case FormatPNG:
		return dot.RenderPNG(ctx, graph, scale)
	case FormatPDF:
		return dot.RenderPDF(ctx, graph)
	}
	return nil, ValidateFormat(format)
}
