package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementation ---

type mockOrderRepo struct {
	lastDraft *Order
	placed    *Order
	createErr error

	byUser  map[string][]Order
	byID    map[string]*Order
	listErr error

	updatedID     string
	updatedStatus Status
	updateErr     error
}

func (m *mockOrderRepo) CreateFromCart(_ context.Context, draft *Order) (*Order, error) {
	m.lastDraft = draft
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.placed != nil {
		return m.placed, nil
	}
	return draft, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]Order, error) {
	return m.byUser[userID], m.listErr
}

func (m *mockOrderRepo) GetForUser(_ context.Context, id, userID string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok || o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]Order, error) {
	var all []Order
	for _, o := range m.byID {
		all = append(all, *o)
	}
	return all, m.listErr
}

func (m *mockOrderRepo) Get(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	o, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.updatedID = id
	m.updatedStatus = status
	o.Status = status
	return nil
}

// --- Helpers ---

func validPlaceRequest() PlaceRequest {
	return PlaceRequest{
		UserID: "u1",
		ShippingAddress: ShippingAddress{
			Name:       "Ada Lovelace",
			Email:      "ada@example.com",
			Phone:      "+1 555 0100",
			Address:    "12 Analytical Way",
			City:       "London",
			PostalCode: "EC1A 1BB",
			Country:    "UK",
		},
		PaymentMethod: "card",
		Subtotal:      decimal.RequireFromString("25.00"),
		Shipping:      decimal.Zero,
		Tax:           decimal.RequireFromString("2.00"),
		Total:         decimal.RequireFromString("27.00"),
	}
}

// --- Tests ---

func TestPlace_Success(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	o, err := svc.Place(context.Background(), validPlaceRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.True(t, decimal.RequireFromString("27.00").Equal(o.Total))
	// The stored totals are exactly what the caller supplied.
	assert.True(t, decimal.RequireFromString("25.00").Equal(repo.lastDraft.Subtotal))
	assert.True(t, decimal.RequireFromString("2.00").Equal(repo.lastDraft.Tax))
}

func TestPlace_EmptyCart(t *testing.T) {
	repo := &mockOrderRepo{createErr: ErrEmptyCart}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), validPlaceRequest())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlace_MissingAddressField(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(repo)

	req := validPlaceRequest()
	req.ShippingAddress.PostalCode = ""

	_, err := svc.Place(context.Background(), req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "shippingAddress.postalCode", vErr.Field)
	assert.Nil(t, repo.lastDraft, "no write may happen on validation failure")
}

func TestPlace_MissingPaymentMethod(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	req := validPlaceRequest()
	req.PaymentMethod = ""

	_, err := svc.Place(context.Background(), req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "paymentMethod", vErr.Field)
}

func TestPlace_NegativeTotal(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	req := validPlaceRequest()
	req.Total = decimal.RequireFromString("-1")

	_, err := svc.Place(context.Background(), req)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "total", vErr.Field)
}

func TestPlace_RepositoryError(t *testing.T) {
	repo := &mockOrderRepo{createErr: errors.New("db down")}
	svc := NewService(repo)

	_, err := svc.Place(context.Background(), validPlaceRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order from cart")
}

func TestGet_NotOwned(t *testing.T) {
	repo := &mockOrderRepo{byID: map[string]*Order{
		"o1": {ID: "o1", UserID: "someone-else"},
	}}
	svc := NewService(repo)

	_, err := svc.Get(context.Background(), "o1", "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_Success(t *testing.T) {
	repo := &mockOrderRepo{byID: map[string]*Order{
		"o1": {ID: "o1", UserID: "u1", Status: StatusPending},
	}}
	svc := NewService(repo)

	o, err := svc.UpdateStatus(context.Background(), "o1", StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, "o1", repo.updatedID)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc := NewService(&mockOrderRepo{})

	_, err := svc.UpdateStatus(context.Background(), "o1", Status("teleported"))

	var isErr *InvalidStatusError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, "teleported", isErr.Status)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := NewService(&mockOrderRepo{byID: map[string]*Order{}})

	_, err := svc.UpdateStatus(context.Background(), "missing", StatusCancelled)
	require.ErrorIs(t, err, ErrNotFound)
}
