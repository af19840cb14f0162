package orders

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oficina-erp/oficina-erp/internal/finance"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	orders map[uuid.UUID]*Order
	items  map[uuid.UUID][]OrderItem

	countError      error
	createError     error
	insertItemError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders: make(map[uuid.UUID]*Order),
		items:  make(map[uuid.UUID][]OrderItem),
	}
}

func (m *mockRepository) Get(ctx context.Context, userID, id uuid.UUID) (*Order, error) {
	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *o
	copied.Items = append([]OrderItem{}, m.items[id]...)
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context, userID uuid.UUID, req ListOrdersRequest) ([]Order, int, error) {
	var result []Order
	for id, o := range m.orders {
		if o.UserID != userID {
			continue
		}
		copied := *o
		copied.Items = append([]OrderItem{}, m.items[id]...)
		result = append(result, copied)
	}
	return result, len(result), nil
}

func (m *mockRepository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.countError != nil {
		return 0, m.countError
	}
	count := 0
	for _, o := range m.orders {
		if o.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) Create(ctx context.Context, order Order) (uuid.UUID, error) {
	if m.createError != nil {
		return uuid.Nil, m.createError
	}
	id := uuid.New()
	order.ID = id
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.orders[id] = &order
	return id, nil
}

func (m *mockRepository) Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) error {
	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return ErrNotFound
	}
	if v, ok := updates["status"]; ok {
		o.Status = v.(Status)
	}
	if v, ok := updates["completed_at"]; ok {
		t := v.(time.Time)
		o.CompletedAt = &t
	}
	if v, ok := updates["issue"]; ok {
		o.Issue = v.(string)
	}
	if v, ok := updates["device"]; ok {
		o.Device = v.(string)
	}
	if v, ok := updates["total_cost"]; ok {
		o.TotalCost = v.(float64)
	}
	if v, ok := updates["total_sale"]; ok {
		o.TotalSale = v.(float64)
	}
	if v, ok := updates["total_profit"]; ok {
		o.TotalProfit = v.(float64)
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return ErrNotFound
	}
	delete(m.orders, id)
	delete(m.items, id)
	return nil
}

func (m *mockRepository) InsertItem(ctx context.Context, item OrderItem) error {
	if m.insertItemError != nil {
		return m.insertItemError
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.items[item.OrderID] = append(m.items[item.OrderID], item)
	return nil
}

func (m *mockRepository) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	delete(m.items, orderID)
	return nil
}

// ============================================================================
// MOCK DERIVER
// ============================================================================

type mockDeriver struct {
	calls    int
	payments []*finance.PaymentInfo
	err      error
}

func (m *mockDeriver) CreateFromOrder(ctx context.Context, userID, orderID uuid.UUID, payment *finance.PaymentInfo) (*finance.Transaction, error) {
	m.calls++
	m.payments = append(m.payments, payment)
	if m.err != nil {
		return nil, m.err
	}
	return &finance.Transaction{ID: uuid.New(), OrderID: &orderID}, nil
}

// ============================================================================
// MOCK INVALIDATOR
// ============================================================================

type mockInvalidator struct {
	bumps int
	err   error
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	m.bumps++
	return m.err
}

// ============================================================================
// HELPERS
// ============================================================================

func newTestService(repo Repository, deriver LedgerDeriver) *Service {
	return newTestServiceWithDashboard(repo, deriver, nil)
}

func newTestServiceWithDashboard(repo Repository, deriver LedgerDeriver, dash DashboardInvalidator) *Service {
	return NewService(slog.New(slog.NewTextHandler(testWriter{}, nil)), repo, deriver, dash)
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func validCreateRequest(items []OrderItemInput) CreateOrderRequest {
	return CreateOrderRequest{
		Device:   "iPhone 12",
		Category: CategorySmartphone,
		Issue:    "tela quebrada",
		Priority: PriorityMedia,
		Items:    items,
	}
}

func statusPtr(s Status) *Status { return &s }

// ============================================================================
// CREATE
// ============================================================================

func TestCreateOrderComputesTotals(t *testing.T) {
	repo := newMockRepository()
	deriver := &mockDeriver{}
	svc := newTestService(repo, deriver)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest([]OrderItemInput{
		{Kind: "product", Name: "Tela", CostPrice: 100, SalePrice: 250, Quantity: 2},
		{Kind: "service", Name: "Troca de tela", CostPrice: 0, SalePrice: 80, Quantity: 1},
	}))
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.TotalCost)
	assert.Equal(t, 580.0, order.TotalSale)
	assert.Equal(t, 380.0, order.TotalProfit)
	assert.Equal(t, order.TotalSale-order.TotalCost, order.TotalProfit)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, StatusAguardando, order.Status)
	assert.Zero(t, deriver.calls)
}

func TestCreateOrderNumbersSequentially(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockDeriver{})
	userID := uuid.New()

	first, err := svc.Create(context.Background(), userID, validCreateRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "OS-0001", first.OSNumber)

	second, err := svc.Create(context.Background(), userID, validCreateRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "OS-0002", second.OSNumber)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockDeriver{})

	req := validCreateRequest(nil)
	req.Device = ""
	_, err := svc.Create(context.Background(), uuid.New(), req)
	assert.Error(t, err)

	req = validCreateRequest([]OrderItemInput{{Kind: "product", Name: "Tela", Quantity: 0}})
	_, err = svc.Create(context.Background(), uuid.New(), req)
	assert.Error(t, err)
}

func TestCreateOrderItemInsertFailureSurfaces(t *testing.T) {
	repo := newMockRepository()
	repo.insertItemError = errors.New("gateway rejected insert")
	svc := newTestService(repo, &mockDeriver{})

	_, err := svc.Create(context.Background(), uuid.New(), validCreateRequest([]OrderItemInput{
		{Kind: "manual", Name: "Parafuso", CostPrice: 1, SalePrice: 2, Quantity: 4},
	}))
	require.Error(t, err)

	// The order row stays behind without its items; no rollback.
	assert.Len(t, repo.orders, 1)
}

// ============================================================================
// UPDATE / COMPLETION
// ============================================================================

func TestUpdateCompletionStampsAndDerivesOnce(t *testing.T) {
	repo := newMockRepository()
	deriver := &mockDeriver{}
	svc := newTestService(repo, deriver)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest([]OrderItemInput{
		{Kind: "service", Name: "Reparo", CostPrice: 50, SalePrice: 150, Quantity: 1},
	}))
	require.NoError(t, err)
	require.Nil(t, order.CompletedAt)

	result, err := svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{
		Status: statusPtr(StatusConcluido),
	})
	require.NoError(t, err)
	require.NoError(t, result.LedgerErr)

	assert.Equal(t, StatusConcluido, result.Order.Status)
	require.NotNil(t, result.Order.CompletedAt)
	assert.Equal(t, 1, deriver.calls)
	assert.Nil(t, deriver.payments[0])
}

func TestUpdateAlreadyCompletedDoesNotRederive(t *testing.T) {
	repo := newMockRepository()
	deriver := &mockDeriver{}
	svc := newTestService(repo, deriver)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest(nil))
	require.NoError(t, err)

	result, err := svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{
		Status: statusPtr(StatusConcluido),
	})
	require.NoError(t, err)
	completedAt := *result.Order.CompletedAt
	require.Equal(t, 1, deriver.calls)

	// Editing text on a completed order changes nothing about the ledger.
	issue := "cliente relatou novo defeito"
	result, err = svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{
		Issue:  &issue,
		Status: statusPtr(StatusConcluido),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, deriver.calls)
	assert.Equal(t, completedAt, *result.Order.CompletedAt)
	assert.Equal(t, issue, result.Order.Issue)
}

func TestUpdateConcluidoToEntregueDoesNotRederive(t *testing.T) {
	repo := newMockRepository()
	deriver := &mockDeriver{}
	svc := newTestService(repo, deriver)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest(nil))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{Status: statusPtr(StatusConcluido)})
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{Status: statusPtr(StatusEntregue)})
	require.NoError(t, err)

	assert.Equal(t, 1, deriver.calls)
}

func TestUpdatePassesPaymentInfoToDeriver(t *testing.T) {
	repo := newMockRepository()
	deriver := &mockDeriver{}
	svc := newTestService(repo, deriver)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest([]OrderItemInput{
		{Kind: "service", Name: "Reparo", CostPrice: 50, SalePrice: 150, Quantity: 1},
	}))
	require.NoError(t, err)

	result, err := svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{
		Status:      statusPtr(StatusEntregue),
		PaymentInfo: &finance.PaymentInfo{Method: "pix"},
	})
	require.NoError(t, err)
	require.NoError(t, result.LedgerErr)

	require.Equal(t, 1, deriver.calls)
	require.NotNil(t, deriver.payments[0])
	assert.Equal(t, "pix", deriver.payments[0].Method)
}

func TestUpdateLedgerFailureStillSavesOrder(t *testing.T) {
	repo := newMockRepository()
	deriver := &mockDeriver{err: errors.New("ledger insert failed")}
	svc := newTestService(repo, deriver)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest(nil))
	require.NoError(t, err)

	result, err := svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{
		Status: statusPtr(StatusConcluido),
	})
	require.NoError(t, err)

	assert.Error(t, result.LedgerErr)
	assert.Equal(t, StatusConcluido, result.Order.Status)
	assert.NotNil(t, result.Order.CompletedAt)
}

func TestUpdateReplacesItemsAndRecomputesTotals(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockDeriver{})
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest([]OrderItemInput{
		{Kind: "product", Name: "Tela", CostPrice: 100, SalePrice: 250, Quantity: 1},
	}))
	require.NoError(t, err)

	newItems := []OrderItemInput{
		{Kind: "manual", Name: "Bateria", CostPrice: 60, SalePrice: 120, Quantity: 1},
		{Kind: "service", Name: "Limpeza", CostPrice: 0, SalePrice: 40, Quantity: 1},
	}
	result, err := svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{Items: &newItems})
	require.NoError(t, err)

	assert.Len(t, result.Order.Items, 2)
	assert.Equal(t, 60.0, result.Order.TotalCost)
	assert.Equal(t, 160.0, result.Order.TotalSale)
	assert.Equal(t, 100.0, result.Order.TotalProfit)
	for _, item := range result.Order.Items {
		assert.NotEqual(t, "Tela", item.Name)
	}
}

func TestUpdateWithoutItemsKeepsTotals(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &mockDeriver{})
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest([]OrderItemInput{
		{Kind: "product", Name: "Tela", CostPrice: 100, SalePrice: 250, Quantity: 1},
	}))
	require.NoError(t, err)

	device := "iPhone 13"
	result, err := svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{Device: &device})
	require.NoError(t, err)

	assert.Equal(t, order.TotalCost, result.Order.TotalCost)
	assert.Equal(t, order.TotalSale, result.Order.TotalSale)
	assert.Len(t, result.Order.Items, 1)
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockDeriver{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateOrderRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================================
// END TO END
// ============================================================================

func TestRepairOrderLifecycle(t *testing.T) {
	repo := newMockRepository()
	deriver := &mockDeriver{}
	svc := newTestService(repo, deriver)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest([]OrderItemInput{
		{Kind: "service", Name: "Reparo de placa", CostPrice: 50, SalePrice: 150, Quantity: 1},
	}))
	require.NoError(t, err)
	assert.Equal(t, "OS-0001", order.OSNumber)
	assert.Equal(t, 50.0, order.TotalCost)
	assert.Equal(t, 150.0, order.TotalSale)
	assert.Equal(t, 100.0, order.TotalProfit)

	result, err := svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{
		Status:      statusPtr(StatusEntregue),
		PaymentInfo: &finance.PaymentInfo{Method: "pix"},
	})
	require.NoError(t, err)
	require.NoError(t, result.LedgerErr)
	require.NotNil(t, result.Order.CompletedAt)
	require.Equal(t, 1, deriver.calls)
	assert.Equal(t, "pix", deriver.payments[0].Method)
}

// ============================================================================
// DASHBOARD CACHE
// ============================================================================

func TestMutationsBumpDashboardCache(t *testing.T) {
	repo := newMockRepository()
	dash := &mockInvalidator{}
	svc := newTestServiceWithDashboard(repo, &mockDeriver{}, dash)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, dash.bumps)

	_, err = svc.Update(context.Background(), userID, order.ID, UpdateOrderRequest{Status: statusPtr(StatusEmAndamento)})
	require.NoError(t, err)
	assert.Equal(t, 2, dash.bumps)

	require.NoError(t, svc.Delete(context.Background(), userID, order.ID))
	assert.Equal(t, 3, dash.bumps)
}

func TestBumpFailureDoesNotFailTheSave(t *testing.T) {
	repo := newMockRepository()
	dash := &mockInvalidator{err: errors.New("redis: connection refused")}
	svc := newTestServiceWithDashboard(repo, &mockDeriver{}, dash)
	userID := uuid.New()

	order, err := svc.Create(context.Background(), userID, validCreateRequest(nil))
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 1, dash.bumps)
}
