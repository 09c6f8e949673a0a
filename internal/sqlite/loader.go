package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mesh-intelligence/boardstore/internal/coerce"
	"github.com/mesh-intelligence/boardstore/pkg/types"
)

const insertItem = `INSERT INTO items (item_id, type, tool, time, x, y, size, children, body)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// loadBoard inserts every item in one transaction: all rows load or the
// database stays empty.
func loadBoard(db *sql.DB, board types.Board) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertItem)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for id, it := range board {
		if it == nil {
			continue
		}
		body, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encoding item %q: %w", id, err)
		}
		if _, err := stmt.Exec(
			id,
			stringOrNull(it[types.FieldType]),
			stringOrNull(it[types.FieldTool]),
			timeOf(it),
			floatOrNull(it[types.FieldX]),
			floatOrNull(it[types.FieldY]),
			intOrNull(it[types.FieldSize]),
			len(it.Children()),
			string(body),
		); err != nil {
			return fmt.Errorf("inserting item %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

func timeOf(it types.Item) int64 {
	t, ok := coerce.Number(it[types.FieldTime])
	if !ok || math.IsInf(t, 0) {
		return 0
	}
	return int64(t)
}

func stringOrNull(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	return nil
}

func floatOrNull(v any) any {
	if f, ok := coerce.Number(v); ok {
		return f
	}
	return nil
}

func intOrNull(v any) any {
	if n, ok := coerce.ParseInt(v); ok {
		return n
	}
	return nil
}
