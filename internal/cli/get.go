package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <board> <id>",
		Short: "Print one item as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, id := args[0], args[1]
			return withBoard(cmd, name, func(s *board.Store) error {
				it, ok := s.Get(id)
				if !ok {
					return fmt.Errorf("%w: %s", errItemNotFound, id)
				}
				return writeJSON(cmd.OutOrStdout(), it)
			})
		},
	}
}
