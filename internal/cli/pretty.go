package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldraw/pkg/errors"
	"github.com/matzehuels/ldraw/pkg/ldraw/pretty"
)

func (c *CLI) prettyCommand() *cobra.Command {
	var (
		width  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "pretty [file]",
		Short: "Reindent LDraw text",
		Long: `Pretty reformats LDraw text with one tab per nesting level. Blocks that
fit within the line width stay on one line. Reads stdin when no file or
"-" is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := "-"
			if len(args) == 1 {
				in = args[0]
			}
			src, err := readInput(cmd.InOrStdin(), in)
			if err != nil {
				return err
			}

			out := pretty.Options{LineWidth: width}.Format(string(src))
			if output == "" {
				_, err = io.WriteString(c.out, out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
			}
			printSuccess(c.out, "Formatted %s", in)
			printFile(c.out, output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", pretty.DefaultLineWidth, "line width for collapsed blocks")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

// readInput reads path, or r when path is "-".
func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return data, nil
}
