package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ldraw/pkg/ldraw/keyword"
)

func (c *CLI) keywordsCommand() *cobra.Command {
	var containers bool

	cmd := &cobra.Command{
		Use:   "keywords [filter]",
		Short: "List keywords and their binary tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = strings.ToLower(strings.TrimPrefix(args[0], "*"))
			}
			rows := keywordRows(filter, containers)
			if len(rows) == 0 {
				printInfo(c.out, "No keywords match %q", filter)
				return nil
			}
			fmt.Fprintln(c.out, renderTable([]string{"Keyword", "Tag", "Payload"}, rows, 1))
			return nil
		},
	}

	cmd.Flags().BoolVar(&containers, "containers", false, "only list keywords whose payload is nested sections")
	return cmd
}

func keywordRows(filter string, containersOnly bool) [][]string {
	var rows [][]string
	for _, k := range keyword.All() {
		if filter != "" && !strings.Contains(strings.ToLower(k.String()), filter) {
			continue
		}
		if containersOnly && !k.IsContainer() {
			continue
		}
		payload := "values"
		if k.IsContainer() {
			payload = "sections"
		}
		rows = append(rows, []string{k.Token(), fmt.Sprintf("0x%08x", k.Tag()), payload})
	}
	return rows
}
