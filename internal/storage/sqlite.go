package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/storefront/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
)

var _ Journal = (*SQLiteJournal)(nil)

// SQLiteJournal implements Journal using SQLite
type SQLiteJournal struct {
	db    *sql.DB
	retry RetryConfig
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteJournal opens the journal at dbPath and applies pending migrations.
// Use ":memory:" for a journal that lives only as long as the process.
func NewSQLiteJournal(ctx context.Context, dbPath string) (*SQLiteJournal, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteJournal{db: db, retry: DefaultRetryConfig()}, nil
}

// Close closes the database connection
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Order operations

// RecordOrder stores a committed order and its lines atomically. Writes that
// find the database file locked are retried with backoff.
func (s *SQLiteJournal) RecordOrder(ctx context.Context, receipt *types.Receipt) error {
	if err := receipt.Validate(); err != nil {
		return fmt.Errorf("refusing to record order: %w", err)
	}

	return retryBusy(ctx, s.retry, func() error {
		return s.recordOrder(ctx, receipt)
	})
}

func (s *SQLiteJournal) recordOrder(ctx context.Context, receipt *types.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM orders WHERE id = ?", receipt.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("order %s: %w", receipt.ID, ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check order %s: %w", receipt.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO orders (id, total, line_count, placed_at) VALUES (?, ?, ?, ?)",
		receipt.ID, receipt.Total, len(receipt.Lines), toUnixNano(receipt.PlacedAt))
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertOrderLines(ctx, tx, receipt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order %s: %w", receipt.ID, err)
	}
	return nil
}

func insertOrderLines(ctx context.Context, q querier, receipt *types.Receipt) error {
	const query = `
		INSERT INTO order_lines (order_id, position, product_name, quantity, amount, promotion)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, line := range receipt.Lines {
		_, err := q.ExecContext(ctx, query,
			receipt.ID, line.Position, line.Product, line.Quantity, line.Amount, nullString(line.Promotion))
		if err != nil {
			return fmt.Errorf("failed to insert line %d of order %s: %w", line.Position, receipt.ID, err)
		}
	}
	return nil
}

// GetOrder returns one committed order with its lines
func (s *SQLiteJournal) GetOrder(ctx context.Context, orderID string) (*types.Receipt, error) {
	receipt := &types.Receipt{}
	var placedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, total, placed_at FROM orders WHERE id = ?", orderID).
		Scan(&receipt.ID, &receipt.Total, &placedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	receipt.PlacedAt = fromUnixNano(placedAt)

	receipt.Lines, err = listOrderLines(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListOrders returns the most recent orders first, each with its lines.
// A non-positive limit means DefaultListLimit.
func (s *SQLiteJournal) ListOrders(ctx context.Context, limit int) ([]*types.Receipt, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, total, placed_at FROM orders
		ORDER BY placed_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	var receipts []*types.Receipt
	for rows.Next() {
		r := &types.Receipt{}
		var placedAt int64
		if err := rows.Scan(&r.ID, &r.Total, &placedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		r.PlacedAt = fromUnixNano(placedAt)
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	// The pool holds one connection, so the cursor must be released before
	// the line queries run
	_ = rows.Close()

	for _, r := range receipts {
		r.Lines, err = listOrderLines(ctx, s.db, r.ID)
		if err != nil {
			return nil, err
		}
	}
	return receipts, nil
}

func listOrderLines(ctx context.Context, q querier, orderID string) ([]types.ReceiptLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT position, product_name, quantity, amount, promotion
		FROM order_lines WHERE order_id = ?
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines of order %s: %w", orderID, err)
	}
	defer rows.Close()

	lines := []types.ReceiptLine{}
	for rows.Next() {
		var (
			line  types.ReceiptLine
			promo sql.NullString
		)
		if err := rows.Scan(&line.Position, &line.Product, &line.Quantity, &line.Amount, &promo); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		line.Promotion = promo.String
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Rejection operations

// RecordRejection stores a rejected order
func (s *SQLiteJournal) RecordRejection(ctx context.Context, rejection *Rejection) error {
	if rejection.ID == "" {
		return errors.New("rejection ID is required")
	}

	err := retryBusy(ctx, s.retry, func() error {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO rejections (id, kind, product_name, message, rejected_at) VALUES (?, ?, ?, ?, ?)",
			rejection.ID, string(rejection.Kind), nullString(rejection.Product), rejection.Message,
			toUnixNano(rejection.RejectedAt))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to record rejection: %w", err)
	}
	return nil
}

// ListRejections returns the most recent rejections first.
// A non-positive limit means DefaultListLimit.
func (s *SQLiteJournal) ListRejections(ctx context.Context, limit int) ([]*Rejection, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, product_name, message, rejected_at FROM rejections
		ORDER BY rejected_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rejections: %w", err)
	}
	defer rows.Close()

	var out []*Rejection
	for rows.Next() {
		var (
			r          Rejection
			kind       string
			product    sql.NullString
			rejectedAt int64
		)
		if err := rows.Scan(&r.ID, &kind, &product, &r.Message, &rejectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rejection: %w", err)
		}
		r.Kind = types.ErrorKind(kind)
		r.Product = product.String
		r.RejectedAt = fromUnixNano(rejectedAt)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Stats

// GetStats aggregates the journal
func (s *SQLiteJournal) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{RejectionsByKind: make(map[types.ErrorKind]int)}

	var lastOrder sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(total), 0), MAX(placed_at) FROM orders").
		Scan(&stats.Orders, &stats.Revenue, &lastOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if lastOrder.Valid {
		stats.LastOrderAt = fromUnixNano(lastOrder.Int64)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(quantity), 0) FROM order_lines").
		Scan(&stats.UnitsSold)
	if err != nil {
		return nil, fmt.Errorf("failed to count units sold: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM rejections GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("failed to count rejections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rejection count: %w", err)
		}
		stats.RejectionsByKind[types.ErrorKind(kind)] = count
		stats.Rejections += count
	}
	return stats, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
