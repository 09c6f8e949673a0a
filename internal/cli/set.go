package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <board> <id> <item-json|->",
		Short: "Store an item, replacing any item with the same id",
		Long: `Set validates the item, stamps it with the current time and stores it.
Pass "-" as the id to generate one, and "-" as the item to read it from stdin.

Example:
  boardctl set anonymous r1 '{"type":"rect","x":10,"y":20,"color":"#f00"}'`,
		Args: cobra.ExactArgs(3),
		RunE: runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	name, id := args[0], args[1]
	item, err := parseItem(cmd, args[2])
	if err != nil {
		return err
	}
	if id == "" || id == stdinArg {
		u, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate id: %w", err)
		}
		id = u.String()
	}

	return withBoard(cmd, name, func(s *board.Store) error {
		s.Set(id, item)
		return printItem(cmd, s, id)
	})
}

// printItem writes the stored form of id, or just the id when the item is
// no longer on the board.
func printItem(cmd *cobra.Command, s *board.Store, id string) error {
	out := cmd.OutOrStdout()
	if !flags.jsonMode {
		fmt.Fprintln(out, id)
		return nil
	}
	it, ok := s.Get(id)
	if !ok {
		return writeJSON(out, map[string]any{"id": id})
	}
	return writeJSON(out, map[string]any{"id": id, "item": it})
}
