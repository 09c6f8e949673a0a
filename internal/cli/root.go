// Package cli implements the boardctl command-line interface. Every command
// opens the named board from the history directory, applies one operation
// and flushes the board before exiting.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/board"
	"github.com/mesh-intelligence/boardstore/internal/config"
	"github.com/mesh-intelligence/boardstore/internal/paths"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir  string
	historyDir string
	jsonMode   bool
	verbose    bool
}

var flags rootFlags

// NewRootCmd creates the top-level "boardctl" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "boardctl",
		Short: "Inspect and edit whiteboard boards on disk",
		Long: "boardctl opens a board from the history directory, applies one operation\n" +
			"and saves the board back atomically.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/boardstore)")
	root.PersistentFlags().StringVar(&flags.historyDir, "history-dir", "", "directory holding board files (default: ./server-data)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log persistence events to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newAddChildCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newStatsCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "boardctl:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps filesystem failures to exitSysError and everything else,
// bad arguments included, to exitUserError.
func exitCode(err error) int {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, types.ErrRegistryClosed) {
		return exitSysError
	}
	return exitUserError
}

// loadConfig resolves the config directory and loads the store
// configuration from it.
func loadConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	return config.Load(configDir, flags.historyDir)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// withBoard opens the board named name, runs fn against it and closes the
// registry, which flushes any change fn made. A flush failure is returned
// when fn itself succeeded.
func withBoard(cmd *cobra.Command, name string, fn func(s *board.Store) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := board.NewRegistry(cfg, board.WithLogger(newLogger(cmd)))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reg.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("save board: %w", cerr)
		}
	}()

	s, err := reg.Open(name)
	if err != nil {
		return err
	}
	return fn(s)
}
