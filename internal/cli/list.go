package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
)

func newListCmd() *cobra.Command {
	var since string
	cmd := &cobra.Command{
		Use:   "list <board>",
		Short: "Print the board's items in id order, one JSON object per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, args[0], func(s *board.Store) error {
				items := s.GetAll(since)
				out := cmd.OutOrStdout()
				if flags.jsonMode {
					return writeJSON(out, items)
				}
				for _, it := range items {
					if err := writeJSONLine(out, it); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "only items whose id sorts after this id")
	return cmd
}
