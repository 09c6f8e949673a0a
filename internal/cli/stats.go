package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
	"github.com/mesh-intelligence/boardstore/internal/sqlite"
)

type boardStats struct {
	Board     string         `json:"board"`
	File      string         `json:"file"`
	FileBytes int64          `json:"file_bytes"`
	Snapshot  int            `json:"snapshot_bytes"`
	Items     int            `json:"items"`
	Children  int            `json:"children"`
	ByType    map[string]int `json:"by_type"`
	Oldest    int64          `json:"oldest,omitempty"`
	Newest    int64          `json:"newest,omitempty"`
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <board>",
		Short: "Summarize a board's items and file size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, args[0], func(s *board.Store) error {
				st, err := collectStats(s)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), st)
				}
				printStats(cmd, st)
				return nil
			})
		},
	}
}

func collectStats(s *board.Store) (boardStats, error) {
	ix, err := sqlite.Open(s.Board())
	if err != nil {
		return boardStats{}, err
	}
	defer ix.Close()

	agg, err := ix.Stats()
	if err != nil {
		return boardStats{}, err
	}

	snap, err := s.Snapshot()
	if err != nil {
		return boardStats{}, fmt.Errorf("serialize board: %w", err)
	}

	st := boardStats{
		Board:    s.Name(),
		Snapshot: len(snap),
		File:     s.File(),
		Items:    agg.Items,
		Children: agg.Children,
		ByType:   agg.ByType,
		Oldest:   agg.Oldest,
		Newest:   agg.Newest,
	}
	info, err := os.Stat(s.File())
	switch {
	case err == nil:
		st.FileBytes = info.Size()
	case !errors.Is(err, fs.ErrNotExist):
		return boardStats{}, fmt.Errorf("stat board file: %w", err)
	}
	return st, nil
}

func printStats(cmd *cobra.Command, st boardStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "board:    %s\n", st.Board)
	fmt.Fprintf(out, "file:     %s (%s)\n", st.File, humanize.Bytes(uint64(st.FileBytes)))
	fmt.Fprintf(out, "snapshot: %s\n", humanize.Bytes(uint64(st.Snapshot)))
	fmt.Fprintf(out, "items:    %s\n", humanize.Comma(int64(st.Items)))
	fmt.Fprintf(out, "children: %s\n", humanize.Comma(int64(st.Children)))
	if st.Newest > 0 {
		fmt.Fprintf(out, "updated:  %s\n", humanize.Time(time.UnixMilli(st.Newest)))
	}

	names := make([]string, 0, len(st.ByType))
	for t := range st.ByType {
		names = append(names, t)
	}
	sort.Strings(names)
	for _, t := range names {
		label := t
		if label == "" {
			label = "(none)"
		}
		fmt.Fprintf(out, "  %-12s %d\n", label, st.ByType[t])
	}
}
