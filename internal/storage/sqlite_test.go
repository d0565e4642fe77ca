package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dshills/storefront/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteJournal {
	t.Helper()

	// Use in-memory database for testing
	journal, err := NewSQLiteJournal(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NotNil(t, journal)
	t.Cleanup(func() { _ = journal.Close() })
	return journal
}

func testReceipt(id string, placedAt time.Time) *types.Receipt {
	return &types.Receipt{
		ID: id,
		Lines: []types.ReceiptLine{
			{Position: 0, Product: "MacBook Air M2", Quantity: 2, Amount: 2175, Promotion: "Second Half price!"},
			{Position: 1, Product: "Shipping", Quantity: 1, Amount: 10},
		},
		Total:    2185,
		PlacedAt: placedAt,
	}
}

func TestNewSQLiteJournal(t *testing.T) {
	journal := setupTestDB(t)

	assert.NotNil(t, journal.db)

	version, err := SchemaVersion(context.Background(), journal.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version.String())
}

func TestClose_ReleasesResources(t *testing.T) {
	defer goleak.VerifyNone(t)

	journal, err := NewSQLiteJournal(context.Background(), ":memory:")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, journal.RecordOrder(ctx, testReceipt("order-1", time.Now())))
	_, err = journal.ListOrders(ctx, 10)
	require.NoError(t, err)

	assert.NoError(t, journal.Close())
}

func TestRecordOrder_GetOrder(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()
	placedAt := time.Date(2026, 10, 15, 12, 30, 0, 123456789, time.UTC)

	require.NoError(t, journal.RecordOrder(ctx, testReceipt("order-1", placedAt)))

	got, err := journal.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, testReceipt("order-1", placedAt), got)
}

func TestRecordOrder_EmptyOrder(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, journal.RecordOrder(ctx, &types.Receipt{ID: "empty", PlacedAt: time.Now()}))

	got, err := journal.GetOrder(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
	assert.Zero(t, got.Total)
}

func TestRecordOrder_Duplicate(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, journal.RecordOrder(ctx, testReceipt("order-1", time.Now())))
	err := journal.RecordOrder(ctx, testReceipt("order-1", time.Now()))
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	stats, err := journal.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Orders)
}

func TestRecordOrder_InvalidReceipt(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()

	r := testReceipt("order-1", time.Now())
	r.Total = 1
	err := journal.RecordOrder(ctx, r)
	assert.True(t, errors.Is(err, types.ErrTotalMismatch))

	_, err = journal.GetOrder(ctx, "order-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordOrder_LineFailureRollsBack(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()

	r := testReceipt("order-1", time.Now())
	r.Lines[1].Position = 0 // primary key clash on the second line

	err := journal.RecordOrder(ctx, r)
	require.Error(t, err)

	_, err = journal.GetOrder(ctx, "order-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetOrder_NotFound(t *testing.T) {
	journal := setupTestDB(t)

	_, err := journal.GetOrder(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListOrders(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, journal.RecordOrder(ctx, testReceipt(fmt.Sprintf("order-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	orders, err := journal.ListOrders(ctx, 3)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-4", orders[0].ID)
	assert.Equal(t, "order-3", orders[1].ID)
	assert.Equal(t, "order-2", orders[2].ID)
	assert.Len(t, orders[0].Lines, 2)

	all, err := journal.ListOrders(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListOrders_Empty(t *testing.T) {
	journal := setupTestDB(t)

	orders, err := journal.ListOrders(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRecordRejection_ListRejections(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, journal.RecordRejection(ctx,
		NewRejection("r-1", types.NewLimitExceeded("Shipping", 1), base)))
	require.NoError(t, journal.RecordRejection(ctx,
		NewRejection("r-2", fmt.Errorf("place order: %w", types.NewProductNotFound("Nintendo Switch")), base.Add(time.Second))))
	require.NoError(t, journal.RecordRejection(ctx,
		NewRejection("r-3", errors.New("malformed list"), base.Add(2*time.Second))))

	rejections, err := journal.ListRejections(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rejections, 3)

	assert.Equal(t, "r-3", rejections[0].ID)
	assert.Equal(t, types.KindInvalidArgument, rejections[0].Kind)
	assert.Empty(t, rejections[0].Product)

	assert.Equal(t, types.KindProductNotFound, rejections[1].Kind)
	assert.Equal(t, "Nintendo Switch", rejections[1].Product)
	assert.Equal(t, "place order: Product Nintendo Switch not found in store", rejections[1].Message)

	assert.Equal(t, &Rejection{
		ID:         "r-1",
		Kind:       types.KindLimitExceeded,
		Product:    "Shipping",
		Message:    "Cannot buy more than 1 of Shipping in one order",
		RejectedAt: base,
	}, rejections[2])
}

func TestRecordRejection_RequiresID(t *testing.T) {
	journal := setupTestDB(t)

	err := journal.RecordRejection(context.Background(), &Rejection{Kind: types.KindLimitExceeded, Message: "x"})
	assert.Error(t, err)
}

func TestGetStats(t *testing.T) {
	journal := setupTestDB(t)
	ctx := context.Background()

	stats, err := journal.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Orders)
	assert.Zero(t, stats.Revenue)
	assert.True(t, stats.LastOrderAt.IsZero())

	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, journal.RecordOrder(ctx, testReceipt("order-1", last.Add(-time.Hour))))
	require.NoError(t, journal.RecordOrder(ctx, testReceipt("order-2", last)))
	require.NoError(t, journal.RecordRejection(ctx, NewRejection("r-1", types.NewLimitExceeded("Shipping", 1), last)))
	require.NoError(t, journal.RecordRejection(ctx, NewRejection("r-2", types.NewLimitExceeded("Shipping", 1), last)))
	require.NoError(t, journal.RecordRejection(ctx, NewRejection("r-3", types.NewInsufficientStock("MacBook", 0), last)))

	stats, err = journal.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Orders)
	assert.Equal(t, 6, stats.UnitsSold)
	assert.InDelta(t, 4370.0, stats.Revenue, 1e-9)
	assert.Equal(t, last, stats.LastOrderAt)
	assert.Equal(t, 3, stats.Rejections)
	assert.Equal(t, map[types.ErrorKind]int{
		types.KindLimitExceeded:     2,
		types.KindInsufficientStock: 1,
	}, stats.RejectionsByKind)
}

func TestJournal_FileBacked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	journal, err := NewSQLiteJournal(ctx, path)
	require.NoError(t, err)
	require.NoError(t, journal.RecordOrder(ctx, testReceipt("order-1", time.Now())))
	require.NoError(t, journal.Close())

	reopened, err := NewSQLiteJournal(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, 2185.0, got.Total)
}
