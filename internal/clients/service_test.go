package clients

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	clients map[uuid.UUID]*Client
}

func newMockRepository() *mockRepository {
	return &mockRepository{clients: make(map[uuid.UUID]*Client)}
}

func (m *mockRepository) Get(ctx context.Context, userID, id uuid.UUID) (*Client, error) {
	c, ok := m.clients[id]
	if !ok || c.UserID != userID {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context, userID uuid.UUID, req ListClientsRequest) ([]Client, int, error) {
	var result []Client
	for _, c := range m.clients {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, c Client) (uuid.UUID, error) {
	id := uuid.New()
	c.ID = id
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.clients[id] = &c
	return id, nil
}

func (m *mockRepository) Update(ctx context.Context, userID, id uuid.UUID, updates map[string]interface{}) error {
	c, ok := m.clients[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["phone"]; ok {
		s := v.(string)
		c.Phone = &s
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	c, ok := m.clients[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func TestCreateClient(t *testing.T) {
	svc := NewService(newMockRepository())
	userID := uuid.New()

	phone := "11 99999-0000"
	created, err := svc.Create(context.Background(), userID, CreateClientRequest{
		Name:  "João Silva",
		Phone: &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, "João Silva", created.Name)
	assert.Equal(t, userID, created.UserID)
	require.NotNil(t, created.Phone)
	assert.Equal(t, phone, *created.Phone)
}

func TestCreateClientRequiresName(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), uuid.New(), CreateClientRequest{})
	assert.Error(t, err)
}

func TestUpdateClientPartial(t *testing.T) {
	svc := NewService(newMockRepository())
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateClientRequest{Name: "Maria"})
	require.NoError(t, err)

	name := "Maria Souza"
	updated, err := svc.Update(context.Background(), userID, created.ID, UpdateClientRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Maria Souza", updated.Name)
}

func TestUpdateClientEmptyRequestIsNoop(t *testing.T) {
	svc := NewService(newMockRepository())
	userID := uuid.New()

	created, err := svc.Create(context.Background(), userID, CreateClientRequest{Name: "Maria"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), userID, created.ID, UpdateClientRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.Name, updated.Name)
}

func TestGetClientWrongUser(t *testing.T) {
	svc := NewService(newMockRepository())

	created, err := svc.Create(context.Background(), uuid.New(), CreateClientRequest{Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
