package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceRequest holds the checkout input. UserID comes from the authenticated
// session, never from the request body. The monetary fields are supplied by
// the caller and stored as-is; the server does not recompute them from
// current product prices. That trust boundary is deliberate and documented.
type PlaceRequest struct {
	UserID          string
	ShippingAddress ShippingAddress
	PaymentMethod   string
	OrderNotes      string
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
}

// Service encapsulates order placement and administration.
type Service struct {
	orders Repository
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

// Place converts the caller's current cart into a durable order. Validation
// happens up front; the repository then performs the read-insert-insert-delete
// pipeline as one atomic unit. On any failure no partial order, no partial
// item set, and no partially cleared cart is ever persisted.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if err := validatePlaceRequest(&req); err != nil {
		return nil, err
	}

	draft := &Order{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Subtotal:        req.Subtotal,
		Shipping:        req.Shipping,
		Tax:             req.Tax,
		Total:           req.Total,
		Status:          StatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   PaymentPending,
		ShippingAddress: req.ShippingAddress,
		OrderNotes:      req.OrderNotes,
	}

	placed, err := s.orders.CreateFromCart(ctx, draft)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, ErrEmptyCart
		}
		return nil, errors.Wrap(err, "create order from cart")
	}

	return placed, nil
}

func validatePlaceRequest(req *PlaceRequest) error {
	addr := req.ShippingAddress
	fields := []struct {
		name  string
		value string
	}{
		{"shippingAddress.name", addr.Name},
		{"shippingAddress.email", addr.Email},
		{"shippingAddress.phone", addr.Phone},
		{"shippingAddress.address", addr.Address},
		{"shippingAddress.city", addr.City},
		{"shippingAddress.postalCode", addr.PostalCode},
		{"shippingAddress.country", addr.Country},
		{"paymentMethod", req.PaymentMethod},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Field: f.name}
		}
	}

	for _, m := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"subtotal", req.Subtotal},
		{"shipping", req.Shipping},
		{"tax", req.Tax},
		{"total", req.Total},
	} {
		if m.value.IsNegative() {
			return &ValidationError{Field: m.name}
		}
	}

	return nil
}

// ListMine returns the caller's orders, newest first, with item snapshots.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// Get returns one of the caller's orders. Orders belonging to other users are
// indistinguishable from absent ones.
func (s *Service) Get(ctx context.Context, id, userID string) (*Order, error) {
	o, err := s.orders.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %s", id)
	}
	return o, nil
}

// ListAll returns every order in the system. Admin only; the transport layer
// gates access.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list all orders")
	}
	return orders, nil
}

// UpdateStatus moves an order to a new lifecycle status and returns the
// updated record. This is the only mutation an order permits after creation.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, &InvalidStatusError{Status: string(status)}
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "update status of order %s", id)
	}

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "reload order %s", id)
	}
	return o, nil
}
