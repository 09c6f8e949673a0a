package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL. Columns mirror the recognized item fields; body keeps the
// full item as JSON so opaque fields are not lost.
const (
	createItems = `CREATE TABLE items (
    item_id TEXT PRIMARY KEY,
    type TEXT,
    tool TEXT,
    time INTEGER NOT NULL,
    x REAL,
    y REAL,
    size INTEGER,
    children INTEGER NOT NULL,
    body TEXT NOT NULL
);`

	createIndexType = `CREATE INDEX idx_items_type ON items(type);`
	createIndexTime = `CREATE INDEX idx_items_time ON items(time);`
)

var schemaStatements = []string{
	createItems,
	createIndexType,
	createIndexTime,
}

func createSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
