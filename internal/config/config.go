// Package config loads the board store configuration from config.yaml, an
// optional .env file and WBO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/boardstore/internal/coerce"
	"github.com/mesh-intelligence/boardstore/internal/paths"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
)

// Config keys. Durations are in milliseconds.
const (
	KeyHistoryDir   = "history_dir"
	KeySaveInterval = "save_interval"
	KeyMaxSaveDelay = "max_save_delay"
	KeyMaxItemCount = "max_item_count"
	KeyMaxChildren  = "max_children"
	KeyMaxBoardSize = "max_board_size"
	KeyMaxItemSize  = "max_item_size"
)

// envKeys maps each numeric key to its environment variable.
var envKeys = map[string]string{
	KeySaveInterval: "WBO_SAVE_INTERVAL",
	KeyMaxSaveDelay: "WBO_MAX_SAVE_DELAY",
	KeyMaxItemCount: "WBO_MAX_ITEM_COUNT",
	KeyMaxChildren:  "WBO_MAX_CHILDREN",
	KeyMaxBoardSize: "WBO_MAX_BOARD_SIZE",
	KeyMaxItemSize:  "WBO_MAX_ITEM_SIZE",
}

var defaults = map[string]int64{
	KeySaveInterval: types.DefaultSaveInterval.Milliseconds(),
	KeyMaxSaveDelay: types.DefaultMaxSaveDelay.Milliseconds(),
	KeyMaxItemCount: types.DefaultMaxItemCount,
	KeyMaxChildren:  types.DefaultMaxChildren,
	KeyMaxBoardSize: types.DefaultMaxBoardSize,
	KeyMaxItemSize:  types.DefaultMaxItemSize,
}

// defaultConfigYAML is written by WriteDefault.
const defaultConfigYAML = `# boardstore configuration
# Every value can be overridden by the matching WBO_* environment variable.

# Directory holding board files (optional; overridable by --history-dir)
# history_dir: ./server-data

# Debounce between the last change and the save, in milliseconds
save_interval: 2000

# Longest a change may stay unsaved, in milliseconds
max_save_delay: 60000

max_item_count: 32768
max_children: 192
max_board_size: 65536
max_item_size: 50
`

// Load builds a Config from configDir. Values come from, in increasing
// priority: defaults, config.yaml, the .env file in configDir, and the
// process environment. The history directory follows paths.ResolveHistoryDir
// with historyFlag as the flag value. Missing files are not errors; a
// missing, non-numeric or non-positive value falls back to its default.
func Load(configDir, historyFlag string) (types.Config, error) {
	if err := loadEnvFile(filepath.Join(configDir, envFileName)); err != nil {
		return types.Config{}, err
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	for key, env := range envKeys {
		v.SetDefault(key, defaults[key])
		if err := v.BindEnv(key, env); err != nil {
			return types.Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	historyDir, err := paths.ResolveHistoryDir(historyFlag, v.GetString(KeyHistoryDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve history dir: %w", err)
	}

	cfg := types.Config{
		HistoryDir:   historyDir,
		SaveInterval: millis(v, KeySaveInterval),
		MaxSaveDelay: millis(v, KeyMaxSaveDelay),
		MaxItemCount: int(positive(v, KeyMaxItemCount)),
		MaxChildren:  int(positive(v, KeyMaxChildren)),
		MaxBoardSize: float64(positive(v, KeyMaxBoardSize)),
		MaxItemSize:  int(positive(v, KeyMaxItemSize)),
	}
	return cfg, cfg.Validate()
}

// WriteDefault creates configDir and a commented config.yaml in it unless
// one already exists. It reports whether the file was written.
func WriteDefault(configDir string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}

// loadEnvFile sets variables from a .env file without overriding ones
// already present in the environment.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// positive parses key with leading-integer semantics; anything that does not
// yield a positive number falls back to the default.
func positive(v *viper.Viper, key string) int64 {
	n, ok := coerce.ParseInt(v.Get(key))
	if !ok || n <= 0 {
		return defaults[key]
	}
	return n
}

func millis(v *viper.Viper, key string) time.Duration {
	return time.Duration(positive(v, key)) * time.Millisecond
}
