package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.0.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Committed orders; placed_at is Unix nanoseconds (UTC)
CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    total REAL NOT NULL CHECK (total >= 0),
    line_count INTEGER NOT NULL,
    placed_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at);

-- One row per collapsed shopping-list line
CREATE TABLE IF NOT EXISTS order_lines (
    order_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    product_name TEXT NOT NULL,
    quantity INTEGER NOT NULL CHECK (quantity > 0),
    amount REAL NOT NULL,
    promotion TEXT,
    PRIMARY KEY (order_id, position),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_order_lines_product ON order_lines(product_name);

-- Orders that failed validation
CREATE TABLE IF NOT EXISTS rejections (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    product_name TEXT,
    message TEXT NOT NULL,
    rejected_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rejections_kind ON rejections(kind);
CREATE INDEX IF NOT EXISTS idx_rejections_rejected_at ON rejections(rejected_at);
`

const migrationV1Down = `
DROP TABLE IF EXISTS rejections;
DROP TABLE IF EXISTS order_lines;
DROP TABLE IF EXISTS orders;
DROP TABLE IF EXISTS schema_version;
`

// ApplyMigrations brings the journal schema up to CurrentSchemaVersion.
// Each migration runs in its own transaction together with its version record.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range AllMigrations {
		target, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if !current.LessThan(target) {
			continue
		}

		if err := runMigration(ctx, db, m); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		current = target
	}

	return nil
}

// RollbackMigration reverts the most recently applied migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for i := len(AllMigrations) - 1; i >= 0; i-- {
		m := AllMigrations[i]
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if !v.Equal(current) {
			continue
		}

		// The first migration's down script drops schema_version itself, so
		// the version row is removed before the script runs.
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version WHERE version = ?", m.Version); err != nil {
			return fmt.Errorf("failed to remove migration record %s: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.Down); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", m.Version, err)
		}
		return tx.Commit()
	}

	return fmt.Errorf("no migration to roll back from schema version %s", current)
}

// SchemaVersion returns the highest applied schema version, or 0.0.0 on a
// fresh database
func SchemaVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	zero := semver.MustParse("0.0.0")

	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer rows.Close()

	highest := zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan schema version: %w", err)
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", raw, err)
		}
		if v.GreaterThan(highest) {
			highest = v
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}

	return highest, nil
}

// runMigration executes the up script and records the version in a single
// transaction
func runMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
		return err
	}
	return tx.Commit()
}
