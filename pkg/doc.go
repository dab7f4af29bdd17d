// Package pkg provides the core libraries for ldraw scene scripting.
//
// # Overview
//
// ldraw builds LDraw debug-visualisation scripts: trees of named nodes
// (points, lines, boxes, models and groups) that a viewer reads either as
// brace-delimited text or as a compact tagged binary. The pkg directory is
// organized into these areas:
//
//  1. [ldraw] - The scene-node model, builder and file saving
//  2. [ldraw/keyword] - The keyword table shared by both encodings
//  3. [ldraw/seri] - Text and binary serializers behind one writer interface
//  4. [ldraw/pretty] - Reindenting LDraw text
//  5. [ldraw/section] - Reading binary files back as a section tree
//  6. [scene] - TOML, YAML and JSON scene descriptions
//  7. [render] - DOT diagrams of a node tree and SVG conversion
//  8. [pipeline] - Orchestration (decode → build → render) with caching
//  9. [cache], [observability], [server] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	scene.toml / scene.yaml / scene.json
//	         ↓
//	    [scene] package (decode and validate)
//	         ↓
//	    [ldraw] package (node tree)
//	         ↓
//	    [ldraw/seri] package (text or binary)
//	         ↓
//	    .ldr / .bdr / DOT / SVG / PNG / PDF
//
// # Quick Start
//
// Build a scene in code and save it:
//
//	b := ldraw.New()
//	g := b.Group("robot")
//	g.Box("chassis", 0xff808080).Add(mgl32.Vec3{2, 1, 4}, mgl32.Vec3{0, 0.5, 0})
//	g.Point("sensor").RandColour()
//	if err := b.Save("robot", ldraw.Pretty); err != nil {
//	    return err
//	}
//
// Or go through the pipeline from a scene description:
//
//	res, err := pipeline.NewRunner(cache.NewNullCache(), nil, logger).Execute(ctx, pipeline.Options{
//	    Scene:   data,
//	    Formats: []string{pipeline.FormatLDR, pipeline.FormatSVG},
//	})
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/ldraw/...     # Specific package
//	go test -run Example        # Examples only
//
// [ldraw]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/ldraw
// [ldraw/keyword]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/ldraw/keyword
// [ldraw/seri]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/ldraw/seri
// [ldraw/pretty]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/ldraw/pretty
// [ldraw/section]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/ldraw/section
// [scene]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/ldraw/pkg/server
package pkg
