package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", version.String())

	require.NoError(t, ApplyMigrations(ctx, db))

	for _, table := range []string{"schema_version", "orders", "order_lines", "rejections"} {
		assert.True(t, tableExists(t, db, table), "table %s should exist", table)
	}

	version, err = SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version.String())
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, ApplyMigrations(ctx, db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRollbackMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, RollbackMigration(ctx, db))

	for _, table := range []string{"schema_version", "orders", "order_lines", "rejections"} {
		assert.False(t, tableExists(t, db, table), "table %s should be dropped", table)
	}

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", version.String())

	// Nothing left to roll back
	assert.Error(t, RollbackMigration(ctx, db))

	// And the schema can be rebuilt
	require.NoError(t, ApplyMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "orders"))
}

func TestSchema_Constraints(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db))

	_, err := db.ExecContext(ctx, "INSERT INTO orders (id, total, line_count, placed_at) VALUES ('o', -1, 0, 0)")
	assert.Error(t, err, "negative totals are rejected")

	_, err = db.ExecContext(ctx,
		"INSERT INTO order_lines (order_id, position, product_name, quantity, amount) VALUES ('missing', 0, 'x', 1, 1)")
	assert.Error(t, err, "lines need an order")
}
