// Package storage provides the SQLite-based order journal.
//
// The journal is an audit log of what the store did. It records:
//   - Committed orders and their priced lines
//   - Rejected orders with the error kind and the product at fault
//
// Inventory is never loaded from the journal. With the default ":memory:"
// path the journal lives exactly as long as the process.
//
// # Database Schema
//
// Tables:
//   - schema_version: applied migrations, ordered by semantic version
//   - orders: order ID, total, line count, placement time
//   - order_lines: one row per collapsed shopping-list line
//   - rejections: failed orders with kind and message
//
// Timestamps are stored as Unix nanoseconds in UTC so that both drivers
// round-trip them identically.
//
// # Basic Usage
//
//	journal, err := storage.NewSQLiteJournal(ctx, ":memory:")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer journal.Close()
//
//	receipt, err := store.PlaceOrder(list)
//	if err != nil {
//	    _ = journal.RecordRejection(ctx, storage.NewRejection(uuid.NewString(), err, time.Now()))
//	    return err
//	}
//	if err := journal.RecordOrder(ctx, receipt); err != nil {
//	    return err
//	}
//
// RecordOrder writes the order row and all of its lines in one transaction.
//
// # Drivers
//
// The default build uses modernc.org/sqlite and needs no C compiler. Build
// with -tags sqlite_cgo to use github.com/mattn/go-sqlite3 instead.
package storage
