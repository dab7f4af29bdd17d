package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/davecgh/go-spew/spew"

	"github.com/matzehuels/ldraw/pkg/ldraw"
	"github.com/matzehuels/ldraw/pkg/observability"
	"github.com/matzehuels/ldraw/pkg/scene"
)

// dumpConfig prints decoded documents without pointer addresses so debug
// logs diff cleanly between runs.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Build decodes and builds the scene in opts.
func Build(ctx context.Context, opts Options) (*scene.Description, *ldraw.Builder, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	desc, err := scene.Decode(opts.Scene, opts.SceneFormat)
	if err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, desc.Name)
	start := time.Now()

	if opts.Logger.GetLevel() <= log.DebugLevel {
		opts.Logger.Debug("decoded scene\n" + dumpConfig.Sdump(desc))
	}

	b, err := desc.Build()
	n := 0
	if b != nil {
		n = b.Count()
	}
	hooks.OnBuildComplete(ctx, desc.Name, n, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return desc, b, nil
}
