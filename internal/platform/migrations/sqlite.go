package migrations

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sqlite/schema.sql
var sqliteSchema string

// RunSQLite applies the board schema to a SQLite database. The statements
// are idempotent.
func RunSQLite(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return nil
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("apply sqlite schema: %w", err)
	}
	return nil
}
