package cli

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/pipeline"
	"github.com/matzehuels/ldraw/pkg/scene"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string  // base path; the format is appended as extension
	formats  string  // comma-separated: dot, svg, png, pdf
	detailed bool    // payload summaries and modifiers in labels
	scale    float64 // png resolution multiplier
	noCache  bool
	refresh  bool
}

var diagramFormats = []string{pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "graph [scene]",
		Short: "Draw the node tree of a scene",
		Long: `Graph renders the node hierarchy of a scene description with Graphviz.
PNG and PDF output require rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: scene path without extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output formats: dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show payload summaries and modifiers")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png resolution multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input string, opts graphOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats := parseFormats(opts.formats, pipeline.FormatSVG)
	for _, f := range formats {
		if !slices.Contains(diagramFormats, f) {
			return errors.New(errors.ErrCodeInvalidInput, "graph writes dot, svg, png or pdf, not %q", f)
		}
	}

	sf, err := scene.FormatFromPath(input)
	if err != nil {
		return err
	}
	data, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+input)
	spin.Start()
	res, err := runner.Execute(ctx, pipeline.Options{
		Scene:       data,
		SceneFormat: sf,
		Formats:     formats,
		Detailed:    opts.detailed,
		Scale:       opts.scale,
		Refresh:     opts.refresh,
		Logger:      logger,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	base := opts.output
	if base == "" {
		base = trimExt(input)
	}
	printSuccess(c.out, "Rendered %s", input)
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
		}
		printFile(c.out, path)
	}
	printStats(c.out, res.Stats.NodeCount, "node", 0, res.CacheInfo.RenderHit)
	return nil
}
