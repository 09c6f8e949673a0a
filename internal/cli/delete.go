package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board> <id>...",
		Short: "Remove items from a board",
		Long:  "Delete removes each id from the board. Missing ids are ignored.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ids := args[0], args[1:]
			return withBoard(cmd, name, func(s *board.Store) error {
				for _, id := range ids {
					s.Delete(id)
				}
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"deleted": ids, "remaining": s.Len()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d items remaining\n", s.Len())
				return nil
			})
		},
	}
}
