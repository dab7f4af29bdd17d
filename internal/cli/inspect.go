package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ldraw/pkg/ldraw/section"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		interactive bool
		maxDepth    int
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the sections of a binary LDraw file",
		Long: `Inspect walks the tagged sections of a .bdr file and prints one row per
section with its offset, payload size and decoded value. With -i the
sections open in an interactive browser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := "-"
			if len(args) == 1 {
				in = args[0]
			}
			data, err := readInput(cmd.InOrStdin(), in)
			if err != nil {
				return err
			}
			secs, err := section.Parse(data)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("parsed sections", "file", in, "top", len(secs), "bytes", len(data))

			if interactive {
				title := "Sections of " + filepath.Base(in)
				_, err := tea.NewProgram(NewSectionBrowser(title, secs), tea.WithContext(cmd.Context())).Run()
				return err
			}
			rows := sectionRows(secs, maxDepth)
			fmt.Fprintln(c.out, renderTable([]string{"Section", "Offset", "Size", "Value"}, rows, 1))
			printStats(c.out, countSections(secs), "section", len(data), false)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse sections interactively")
	cmd.Flags().IntVarP(&maxDepth, "depth", "d", -1, "maximum nesting depth to list (-1 for all)")
	return cmd
}

// sectionRows flattens secs depth-first, stopping below maxDepth when it
// is not negative.
func sectionRows(secs []section.Section, maxDepth int) [][]string {
	var rows [][]string
	var add func(secs []section.Section, depth int)
	add = func(secs []section.Section, depth int) {
		if maxDepth >= 0 && depth > maxDepth {
			return
		}
		for _, s := range secs {
			rows = append(rows, []string{
				indent(depth) + s.Keyword.Token(),
				strconv.Itoa(s.Offset),
				strconv.Itoa(len(s.Payload)),
				s.Describe(),
			})
			add(s.Children, depth+1)
		}
	}
	add(secs, 0)
	return rows
}

func countSections(secs []section.Section) int {
	n := len(secs)
	for _, s := range secs {
		n += countSections(s.Children)
	}
	return n
}
