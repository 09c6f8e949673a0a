// Package sqlite builds a throwaway SQLite index over a board snapshot. The
// board file stays the source of truth; the index exists only to answer
// filtered and aggregate queries that a plain map cannot.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/boardstore/pkg/types"
)

// ErrIndexClosed is returned by queries on a closed Index.
var ErrIndexClosed = errors.New("index is closed")

// Index holds an in-memory SQLite database loaded from one board.
type Index struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open creates a fresh in-memory database, applies the schema and loads
// every item of board. Null entries are skipped.
func Open(board types.Board) (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := loadBoard(db, board); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading board: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database. Close is idempotent.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}
