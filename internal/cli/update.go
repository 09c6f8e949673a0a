package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
)

func newUpdateCmd() *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "update <board> <id> <patch-json|->",
		Short: "Merge fields into an existing item",
		Long: `Update merges the patch's fields into the item. The type and tool fields of
the patch are ignored. A missing item is created only with --create.

Example:
  boardctl update anonymous r1 '{"x":40,"opacity":0.5}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, id := args[0], args[1]
			patch, err := parseItem(cmd, args[2])
			if err != nil {
				return err
			}
			return withBoard(cmd, name, func(s *board.Store) error {
				s.Update(id, patch, create)
				return printItem(cmd, s, id)
			})
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create the item when it does not exist")
	return cmd
}
