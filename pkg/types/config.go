package types

import (
	"errors"
	"time"
)

// Config holds the limits and locations a board store runs with. It is
// loaded once at startup and treated as read-only afterwards.
type Config struct {
	HistoryDir   string        `json:"history_dir" yaml:"history_dir"`
	SaveInterval time.Duration `json:"save_interval" yaml:"save_interval"`
	MaxSaveDelay time.Duration `json:"max_save_delay" yaml:"max_save_delay"`
	MaxItemCount int           `json:"max_item_count" yaml:"max_item_count"`
	MaxChildren  int           `json:"max_children" yaml:"max_children"`
	MaxBoardSize float64       `json:"max_board_size" yaml:"max_board_size"`
	MaxItemSize  int           `json:"max_item_size" yaml:"max_item_size"`
}

// Default limits.
const (
	DefaultSaveInterval = 2 * time.Second
	DefaultMaxSaveDelay = time.Minute
	DefaultMaxItemCount = 32768
	DefaultMaxChildren  = 192
	DefaultMaxBoardSize = 65536
	DefaultMaxItemSize  = 50
)

// Config validation errors.
var (
	ErrHistoryDirEmpty     = errors.New("history directory must not be empty")
	ErrSaveIntervalInvalid = errors.New("save interval must be positive")
	ErrMaxSaveDelayInvalid = errors.New("max save delay must be positive")
	ErrMaxItemCountInvalid = errors.New("max item count must be positive")
	ErrMaxChildrenInvalid  = errors.New("max children must be positive")
	ErrMaxBoardSizeInvalid = errors.New("max board size must be positive")
	ErrMaxItemSizeInvalid  = errors.New("max item size must be positive")
)

// DefaultConfig returns a Config with every limit at its default and the
// given history directory.
func DefaultConfig(historyDir string) Config {
	return Config{
		HistoryDir:   historyDir,
		SaveInterval: DefaultSaveInterval,
		MaxSaveDelay: DefaultMaxSaveDelay,
		MaxItemCount: DefaultMaxItemCount,
		MaxChildren:  DefaultMaxChildren,
		MaxBoardSize: DefaultMaxBoardSize,
		MaxItemSize:  DefaultMaxItemSize,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	switch {
	case c.HistoryDir == "":
		return ErrHistoryDirEmpty
	case c.SaveInterval <= 0:
		return ErrSaveIntervalInvalid
	case c.MaxSaveDelay <= 0:
		return ErrMaxSaveDelayInvalid
	case c.MaxItemCount <= 0:
		return ErrMaxItemCountInvalid
	case c.MaxChildren <= 0:
		return ErrMaxChildrenInvalid
	case c.MaxBoardSize <= 0:
		return ErrMaxBoardSizeInvalid
	case c.MaxItemSize <= 0:
		return ErrMaxItemSizeInvalid
	}
	return nil
}
