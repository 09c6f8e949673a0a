package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
	"github.com/mesh-intelligence/boardstore/internal/sqlite"
)

func newQueryCmd() *cobra.Command {
	var filter sqlite.Filter
	cmd := &cobra.Command{
		Use:   "query <board>",
		Short: "Find items by type, tool or age",
		Long: `Query indexes the board and prints the matching items, newest first.

Example:
  boardctl query anonymous --type rect --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, args[0], func(s *board.Store) error {
				ix, err := sqlite.Open(s.Board())
				if err != nil {
					return err
				}
				defer ix.Close()

				ids, err := ix.Fetch(filter)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if flags.jsonMode {
					hits := make([]map[string]any, 0, len(ids))
					for _, id := range ids {
						it, _ := s.Get(id)
						hits = append(hits, map[string]any{"id": id, "item": it})
					}
					return writeJSON(out, hits)
				}
				for _, id := range ids {
					it, _ := s.Get(id)
					fmt.Fprintf(out, "%s\t%s\n", id, describe(it))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter.Type, "type", "", "only items of this type")
	cmd.Flags().StringVar(&filter.Tool, "tool", "", "only items drawn with this tool")
	cmd.Flags().Int64Var(&filter.MinTime, "since-time", 0, "only items stamped at or after this epoch millisecond")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of items (0 for all)")
	return cmd
}
