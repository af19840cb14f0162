package finance

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockTxRepository struct {
	transactions map[uuid.UUID]*Transaction
	createError  error
}

func newMockTxRepository() *mockTxRepository {
	return &mockTxRepository{transactions: make(map[uuid.UUID]*Transaction)}
}

func (m *mockTxRepository) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTxRepository) List(ctx context.Context, userID uuid.UUID, req ListTransactionsRequest) ([]Transaction, int, error) {
	all, err := m.All(ctx, userID)
	return all, len(all), err
}

func (m *mockTxRepository) All(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	var result []Transaction
	for _, t := range m.transactions {
		if t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTxRepository) Create(ctx context.Context, t Transaction) (uuid.UUID, error) {
	if m.createError != nil {
		return uuid.Nil, m.createError
	}
	id := uuid.New()
	t.ID = id
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.transactions[id] = &t
	return id, nil
}

func (m *mockTxRepository) Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) error {
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	if v, ok := updates["status"]; ok {
		t.Status = v.(TransactionStatus)
	}
	if v, ok := updates["payment_method"]; ok {
		s := v.(string)
		t.PaymentMethod = &s
	}
	if v, ok := updates["paid_at"]; ok {
		at := v.(time.Time)
		t.PaidAt = &at
	}
	if v, ok := updates["amount"]; ok {
		t.Amount = v.(float64)
	}
	if v, ok := updates["cost_amount"]; ok {
		t.CostAmount = v.(float64)
	}
	if v, ok := updates["profit_amount"]; ok {
		t.ProfitAmount = v.(float64)
	}
	if v, ok := updates["description"]; ok {
		t.Description = v.(string)
	}
	return nil
}

func (m *mockTxRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	t, ok := m.transactions[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

type mockOrderSource struct {
	info *OrderInfo
	err  error
}

func (m *mockOrderSource) OrderForDerivation(ctx context.Context, userID, orderID uuid.UUID) (*OrderInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func sampleOrderInfo() *OrderInfo {
	clientID := uuid.New()
	completed := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
	return &OrderInfo{
		OrderID:  uuid.New(),
		OSNumber: "OS-0042",
		ClientID: &clientID,
		Client:   &ClientSnapshot{Name: "Maria Souza"},
		Device:   "Notebook Dell",
		Category: "notebook",
		Items: []OrderItemInfo{
			{Name: "Teclado", Type: "product", CostPrice: 80, SalePrice: 160, Quantity: 1},
			{Name: "Troca de teclado", Type: "service", CostPrice: 0, SalePrice: 90, Quantity: 1},
		},
		TotalCost:   80,
		TotalSale:   250,
		TotalProfit: 170,
		CompletedAt: &completed,
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateFromOrderPending(t *testing.T) {
	repo := newMockTxRepository()
	source := &mockOrderSource{info: sampleOrderInfo()}
	deriver := NewDeriver(discardLogger(), repo, source)
	userID := uuid.New()

	created, err := deriver.CreateFromOrder(context.Background(), userID, source.info.OrderID, nil)
	require.NoError(t, err)

	assert.Equal(t, TypeReceita, created.Type)
	require.NotNil(t, created.Category)
	assert.Equal(t, CategoryOrdemServico, *created.Category)
	assert.Equal(t, StatusPendente, created.Status)
	assert.Nil(t, created.PaidAt)
	assert.Equal(t, 250.0, created.Amount)
	assert.Equal(t, 80.0, created.CostAmount)
	assert.Equal(t, 170.0, created.ProfitAmount)
	require.NotNil(t, created.OrderID)
	assert.Equal(t, source.info.OrderID, *created.OrderID)
	assert.Equal(t, "OS-0042 - Maria Souza - Notebook Dell", created.Description)
}

func TestCreateFromOrderPaid(t *testing.T) {
	repo := newMockTxRepository()
	source := &mockOrderSource{info: sampleOrderInfo()}
	deriver := NewDeriver(discardLogger(), repo, source)
	paidAt := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	deriver.now = func() time.Time { return paidAt }

	created, err := deriver.CreateFromOrder(context.Background(), uuid.New(), source.info.OrderID, &PaymentInfo{
		Method:  "pix",
		Details: PaymentDetails{MethodLabel: "PIX"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPago, created.Status)
	require.NotNil(t, created.PaidAt)
	assert.Equal(t, paidAt, *created.PaidAt)
	require.NotNil(t, created.PaymentMethod)
	assert.Equal(t, "pix", *created.PaymentMethod)
	require.NotNil(t, created.Details)
	require.NotNil(t, created.Details.Payment)
	assert.Equal(t, "PIX", created.Details.Payment.MethodLabel)
}

func TestCreateFromOrderWithoutClient(t *testing.T) {
	info := sampleOrderInfo()
	info.ClientID = nil
	info.Client = nil
	repo := newMockTxRepository()
	deriver := NewDeriver(discardLogger(), repo, &mockOrderSource{info: info})

	created, err := deriver.CreateFromOrder(context.Background(), uuid.New(), info.OrderID, nil)
	require.NoError(t, err)

	assert.Equal(t, "OS-0042 - Cliente não identificado - Notebook Dell", created.Description)
	assert.Nil(t, created.ClientID)
}

func TestCreateFromOrderSourceFailure(t *testing.T) {
	deriver := NewDeriver(discardLogger(), newMockTxRepository(), &mockOrderSource{err: errors.New("gateway down")})

	_, err := deriver.CreateFromOrder(context.Background(), uuid.New(), uuid.New(), nil)
	assert.Error(t, err)
}

func TestBuildDetailsSnapshot(t *testing.T) {
	info := sampleOrderInfo()
	details := BuildDetails(info, nil)

	assert.Equal(t, 1, details.SchemaVersion)
	require.NotNil(t, details.Client)
	assert.Equal(t, "Maria Souza", details.Client.Name)
	require.NotNil(t, details.Device)
	assert.Equal(t, "Notebook Dell", details.Device.Name)
	assert.Equal(t, info.CompletedAt, details.CompletedAt)
	assert.Nil(t, details.Payment)

	require.Len(t, details.Items, 2)
	assert.Equal(t, 80.0, details.Items[0].Profit)
	assert.Equal(t, 90.0, details.Items[1].Profit)

	totals := details.Totals
	require.NotNil(t, totals)
	assert.Equal(t, 80.0, totals.ProductsCost)
	assert.Equal(t, 160.0, totals.ProductsSale)
	assert.Equal(t, 0.0, totals.ServicesCost)
	assert.Equal(t, 90.0, totals.ServicesSale)
	assert.Equal(t, 250.0, totals.TotalSale)
	assert.Equal(t, "68.00", totals.MarginPercent)
}

func TestBuildDetailsZeroSaleMargin(t *testing.T) {
	info := sampleOrderInfo()
	info.Items = nil
	info.TotalCost = 0
	info.TotalSale = 0
	info.TotalProfit = 0

	details := BuildDetails(info, nil)

	require.NotNil(t, details.Totals)
	assert.Equal(t, "0", details.Totals.MarginPercent)
}

func TestBuildDetailsItemQuantityProfit(t *testing.T) {
	info := sampleOrderInfo()
	info.Items = []OrderItemInfo{
		{Name: "Pelicula", Type: "product", CostPrice: 5, SalePrice: 25, Quantity: 3},
	}

	details := BuildDetails(info, nil)

	require.Len(t, details.Items, 1)
	assert.Equal(t, 60.0, details.Items[0].Profit)
	assert.Equal(t, 15.0, details.Totals.ProductsCost)
	assert.Equal(t, 75.0, details.Totals.ProductsSale)
}
