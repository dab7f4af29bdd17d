// Package pipeline turns scene descriptions into output files.
//
// The pipeline has two stages:
//
//  1. Build: decode a scene document (TOML, YAML or JSON) into a node tree
//  2. Render: encode the tree as LDraw text or binary, or draw its
//     structure as a Graphviz diagram (DOT, SVG, PNG, PDF)
//
// The CLI and the HTTP server both go through [Runner], which caches
// rendered artifacts keyed by the scene hash and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:       data,
//	    SceneFormat: scene.FormatTOML,
//	    Formats:     []string{pipeline.FormatLDR},
//	    Pretty:      true,
//	})
//	if err != nil {
//	    return err
//	}
//	ldr := result.Artifacts[pipeline.FormatLDR]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ldraw/pkg/cache"
	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw"
	"github.com/matzehuels/ldraw/pkg/scene"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatLDR = "ldr" // LDraw text
	FormatBDR = "bdr" // LDraw binary
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatLDR: true,
	FormatBDR: true,
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: ldr, bdr, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Scene is the raw description document.
	Scene       []byte       `json:"-"`
	SceneFormat scene.Format `json:"scene_format"`

	Formats  []string `json:"formats,omitempty"`
	Pretty   bool     `json:"pretty,omitempty"`   // indent ldr output
	Detailed bool     `json:"detailed,omitempty"` // payload summaries in diagrams
	Scale    float64  `json:"scale,omitempty"`    // png only
	Refresh  bool     `json:"refresh,omitempty"`  // bypass cached artifacts

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults. It
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Scene) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scene document is required")
	}
	if o.SceneFormat == "" {
		o.SceneFormat = scene.FormatTOML
	}
	if _, err := scene.ParseFormat(string(o.SceneFormat)); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatLDR}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(f)
	}
	o.Formats = formats
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Flags returns the encoder flags for format.
func (o *Options) Flags(format string) ldraw.Flags {
	switch {
	case format == FormatBDR:
		return ldraw.Binary
	case o.Pretty:
		return ldraw.Pretty
	}
	return 0
}

// ArtifactKeyOpts returns the cache key options for one format. Options
// that do not affect a format are left out so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatLDR:
		k.Pretty = o.Pretty
	case FormatDOT, FormatSVG, FormatPDF:
		k.Detailed = o.Detailed
	case FormatPNG:
		k.Detailed = o.Detailed
		k.Scale = o.Scale
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Description is the decoded scene document.
	Description *scene.Description

	// Builder holds the built node tree.
	Builder *ldraw.Builder

	// SceneHash is the SHA-256 of the raw scene document.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which artifacts came from the cache.
type CacheInfo struct {
	Hits      []string // formats served from cache
	RenderHit bool     // every requested format was cached
}
