package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
)

func newAddChildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-child <board> <parent-id> <child-json|->",
		Short: "Append a child to an item's children",
		Long: `AddChild appends the child to the parent's _children list. Children past
the configured limit are dropped.

Example:
  boardctl add-child anonymous line1 '{"x":12,"y":30}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, parentID := args[0], args[1]
			child, err := parseItem(cmd, args[2])
			if err != nil {
				return err
			}
			return withBoard(cmd, name, func(s *board.Store) error {
				if !s.AddChild(parentID, child) {
					return fmt.Errorf("%w: %s", errItemNotFound, parentID)
				}
				return printItem(cmd, s, parentID)
			})
		},
	}
}
