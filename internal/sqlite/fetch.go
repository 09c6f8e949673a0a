package sqlite

import (
	"fmt"
	"strings"
)

// Filter selects items from the index. Zero fields do not constrain.
type Filter struct {
	Type    string
	Tool    string
	MinTime int64 // epoch milliseconds, inclusive
	Limit   int
}

// Fetch returns the ids of the items matching f, newest first; items with
// the same time are ordered by id.
func (ix *Index) Fetch(f Filter) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return nil, ErrIndexClosed
	}

	query := "SELECT item_id FROM items"
	var conditions []string
	var args []any

	if f.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, f.Type)
	}
	if f.Tool != "" {
		conditions = append(conditions, "tool = ?")
		args = append(args, f.Tool)
	}
	if f.MinTime > 0 {
		conditions = append(conditions, "time >= ?")
		args = append(args, f.MinTime)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY time DESC, item_id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching items: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Stats summarizes the indexed board.
type Stats struct {
	Items    int
	Children int
	ByType   map[string]int // untyped items count under ""
	Oldest   int64          // epoch milliseconds; 0 for an empty board
	Newest   int64
}

// Stats aggregates the item count, child count, per-type counts and the
// time range of the indexed board.
func (ix *Index) Stats() (Stats, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return Stats{}, ErrIndexClosed
	}

	st := Stats{ByType: make(map[string]int)}
	if err := ix.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(children), 0), COALESCE(MIN(time), 0), COALESCE(MAX(time), 0) FROM items",
	).Scan(&st.Items, &st.Children, &st.Oldest, &st.Newest); err != nil {
		return Stats{}, fmt.Errorf("counting items: %w", err)
	}

	rows, err := ix.db.Query("SELECT COALESCE(type, ''), COUNT(*) FROM items GROUP BY 1")
	if err != nil {
		return Stats{}, fmt.Errorf("counting types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning type count: %w", err)
		}
		st.ByType[typ] = n
	}
	return st, rows.Err()
}
