package finance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockInvalidator struct {
	bumps int
	err   error
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	m.bumps++
	return m.err
}

func newTestService(repo Repository) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, nil)
}

func TestCreateRevenueComputesProfit(t *testing.T) {
	repo := newMockTxRepository()
	svc := newTestService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateTransactionRequest{
		Description: "Venda de película",
		Type:        TypeReceita,
		Amount:      100,
		CostAmount:  30,
	})
	require.NoError(t, err)

	assert.Equal(t, 70.0, created.ProfitAmount)
	assert.Equal(t, StatusPendente, created.Status)
	assert.Nil(t, created.PaidAt)
}

func TestCreateExpenseHasZeroProfit(t *testing.T) {
	repo := newMockTxRepository()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), uuid.New(), CreateTransactionRequest{
		Description: "Aluguel",
		Type:        TypeDespesa,
		Amount:      1500,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, created.ProfitAmount)
	assert.Equal(t, 0.0, created.CostAmount)
}

func TestCreatePaidStampsPaidAt(t *testing.T) {
	repo := newMockTxRepository()
	svc := newTestService(repo)
	paid := StatusPago

	created, err := svc.Create(context.Background(), uuid.New(), CreateTransactionRequest{
		Description: "Venda balcão",
		Type:        TypeReceita,
		Amount:      50,
		Status:      &paid,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPago, created.Status)
	assert.NotNil(t, created.PaidAt)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := newTestService(newMockTxRepository())

	_, err := svc.Create(context.Background(), uuid.New(), CreateTransactionRequest{
		Description: "???",
		Type:        TransactionType("transferencia"),
		Amount:      10,
	})
	assert.Error(t, err)
}

func TestMarkPaid(t *testing.T) {
	repo := newMockTxRepository()
	svc := newTestService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateTransactionRequest{
		Description: "Conserto avulso",
		Type:        TypeReceita,
		Amount:      200,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPendente, created.Status)

	paid, err := svc.MarkPaid(context.Background(), userID, created.ID, MarkPaidRequest{
		PaymentMethod: "cartao_credito",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPago, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, "cartao_credito", *paid.PaymentMethod)
	assert.NotNil(t, paid.PaidAt)
}

func TestMarkPaidNotFound(t *testing.T) {
	svc := newTestService(newMockTxRepository())

	_, err := svc.MarkPaid(context.Background(), uuid.New(), uuid.New(), MarkPaidRequest{PaymentMethod: "pix"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRecomputesProfitOnAmountChange(t *testing.T) {
	repo := newMockTxRepository()
	svc := newTestService(repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateTransactionRequest{
		Description: "Venda",
		Type:        TypeReceita,
		Amount:      100,
		CostAmount:  40,
	})
	require.NoError(t, err)

	newAmount := 150.0
	updated, err := svc.Update(context.Background(), userID, created.ID, UpdateTransactionRequest{Amount: &newAmount})
	require.NoError(t, err)

	assert.Equal(t, 150.0, updated.Amount)
	assert.Equal(t, 110.0, updated.ProfitAmount)
}

func TestSummaryScopedToUser(t *testing.T) {
	repo := newMockTxRepository()
	svc := newTestService(repo)
	now := time.Now()
	svc.now = func() time.Time { return now }
	userA := uuid.New()
	userB := uuid.New()

	_, err := svc.Create(context.Background(), userA, CreateTransactionRequest{
		Description: "Venda A",
		Type:        TypeReceita,
		Amount:      100,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userB, CreateTransactionRequest{
		Description: "Venda B",
		Type:        TypeReceita,
		Amount:      999,
	})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), userA)
	require.NoError(t, err)

	assert.Equal(t, 100.0, summary.ReceitasMes)
}

func TestMutationsBumpDashboardCache(t *testing.T) {
	repo := newMockTxRepository()
	dash := &mockInvalidator{}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, dash)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateTransactionRequest{
		Description: "Venda",
		Type:        TypeReceita,
		Amount:      80,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dash.bumps)

	_, err = svc.MarkPaid(context.Background(), userID, created.ID, MarkPaidRequest{PaymentMethod: "pix"})
	require.NoError(t, err)
	assert.Equal(t, 2, dash.bumps)

	require.NoError(t, svc.Delete(context.Background(), userID, created.ID))
	assert.Equal(t, 3, dash.bumps)
}

func TestBumpFailureDoesNotFailTheSave(t *testing.T) {
	repo := newMockTxRepository()
	dash := &mockInvalidator{err: errors.New("redis: connection refused")}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, dash)

	created, err := svc.Create(context.Background(), uuid.New(), CreateTransactionRequest{
		Description: "Venda",
		Type:        TypeReceita,
		Amount:      80,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 1, dash.bumps)
}
