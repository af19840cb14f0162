package dashboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// RECORDING DB
// ============================================================================

// recordingDB captures the last statement so tests can assert on the
// predicates the repository sends to Postgres.
type recordingDB struct {
	sql  string
	args []interface{}
}

func (d *recordingDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	d.sql, d.args = sql, args
	return pgconn.CommandTag{}, nil
}

func (d *recordingDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	d.sql, d.args = sql, args
	return nil, pgx.ErrNoRows
}

func (d *recordingDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	d.sql, d.args = sql, args
	return noopRow{}
}

type noopRow struct{}

func (noopRow) Scan(dest ...interface{}) error { return nil }

// ============================================================================
// PREDICATES
// ============================================================================

func TestOpenOrdersCountsCancelledAsOpen(t *testing.T) {
	db := &recordingDB{}
	repo := &repository{db: db}

	_, err := repo.OpenOrders(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, db.args, 2)
	statuses, ok := db.args[1].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"concluido", "entregue"}, statuses)
	assert.NotContains(t, statuses, "cancelado")
}

func TestStockTotalsLowStockIsStrict(t *testing.T) {
	db := &recordingDB{}
	repo := &repository{db: db}

	_, _, err := repo.StockTotals(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Contains(t, db.sql, "stock < min_stock")
	assert.NotContains(t, db.sql, "stock <= min_stock")
}
