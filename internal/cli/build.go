package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw"
	"github.com/matzehuels/ldraw/pkg/pipeline"
	"github.com/matzehuels/ldraw/pkg/scene"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output  string
	binary  bool
	pretty  bool
	append  bool
	noThrow bool
}

// flags converts the options to encoder flags. Config defaults apply to
// flags not given on the command line.
func (o buildOpts) flags(cmd *cobra.Command, cfg Config) ldraw.Flags {
	binary, pretty := o.binary, o.pretty
	if !cmd.Flags().Changed("binary") {
		binary = cfg.Binary
	}
	if !cmd.Flags().Changed("pretty") {
		pretty = cfg.Pretty
	}

	var f ldraw.Flags
	if binary {
		f |= ldraw.Binary
	}
	if pretty {
		f |= ldraw.Pretty
	}
	if o.append {
		f |= ldraw.Append
	}
	if o.noThrow {
		f |= ldraw.NoThrow
	}
	return f
}

func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [scene]",
		Short: "Build a scene description into an LDraw file",
		Long: `Build reads a TOML, YAML or JSON scene description and writes it as
LDraw text (.ldr) or binary (.bdr). The output path defaults to the scene
path with its extension replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (extension added when missing)")
	cmd.Flags().BoolVarP(&opts.binary, "binary", "b", false, "write the binary encoding")
	cmd.Flags().BoolVarP(&opts.pretty, "pretty", "p", false, "indent text output")
	cmd.Flags().BoolVarP(&opts.append, "append", "a", false, "append to an existing file")
	cmd.Flags().BoolVar(&opts.noThrow, "nothrow", false, "log save failures instead of exiting non-zero")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, input string, opts buildOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	format, err := scene.FormatFromPath(input)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file %s", input)
		}
		return errors.Wrap(errors.ErrCodeIO, err, "read %s", input)
	}

	desc, b, err := pipeline.Build(ctx, pipeline.Options{
		Scene:       data,
		SceneFormat: format,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	flags := opts.flags(cmd, c.Config)
	out := opts.output
	if out == "" {
		out = trimExt(input)
	}
	out = ldraw.ResolvePath(out, flags)

	if err := b.Save(out, flags, ldraw.WithLogger(logger)); err != nil {
		return err
	}
	fi, err := os.Stat(out)
	if err != nil {
		// Save only returns nil without a file under --nothrow.
		printError(c.out, "%s was not written", out)
		return nil
	}
	name := desc.Name
	if name == "" {
		name = filepath.Base(input)
	}
	prog.done("built scene", "scene", name, "flags", flags)

	printSuccess(c.out, "Built %s", name)
	printFile(c.out, out)
	printStats(c.out, b.Count(), "node", int(fi.Size()), false)
	return nil
}
