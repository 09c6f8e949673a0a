package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boardstore/internal/config"
	"github.com/mesh-intelligence/boardstore/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and history directories",
		Long:  "Write a default config.yaml if none exists and create the history directory.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if _, err := config.WriteDefault(configDir); err != nil {
		return err
	}

	cfg, err := config.Load(configDir, flags.historyDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, map[string]string{
			"config_dir":  configDir,
			"history_dir": cfg.HistoryDir,
		})
	}
	fmt.Fprintf(out, "config: %s\nhistory: %s\n", configDir, cfg.HistoryDir)
	return nil
}
