package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order placement and lookup.
var (
	ErrEmptyCart = errors.New("cart is empty")
	ErrNotFound  = errors.New("order not found")
)

// ValidationError indicates a required order field is missing or malformed.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s is required", e.Field)
}

// InvalidStatusError indicates an unknown lifecycle status value.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Status)
}

// Status is the order lifecycle state. Only administrators move an order past
// pending.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks the simulated payment lifecycle.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// ShippingAddress is the denormalized delivery snapshot stored on the order.
type ShippingAddress struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// Order is an immutable purchase record. Items are frozen copies of the cart
// lines and product display fields at placement time; later product edits or
// deletions never reach them.
type Order struct {
	ID              string
	UserID          string
	Subtotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Status          Status
	PaymentMethod   string
	PaymentStatus   PaymentStatus
	ShippingAddress ShippingAddress
	OrderNotes      string
	Items           []Item
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Item is a frozen per-product snapshot belonging to one order.
type Item struct {
	ID            string
	OrderID       string
	ProductID     string
	ProductName   string
	ProductImage  string
	Price         decimal.Decimal
	Quantity      int
	SelectedSize  string
	SelectedColor string
}

// Repository defines persistence operations for orders.
//
// CreateFromCart is the transactional core: within a single transaction it
// reads the owner's cart lines joined to their products, inserts the order
// row, inserts one item snapshot per cart line, and deletes the cart lines.
// It returns ErrEmptyCart (and performs no writes) when the cart is empty;
// any other failure rolls the whole unit back.
type Repository interface {
	CreateFromCart(ctx context.Context, draft *Order) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	GetForUser(ctx context.Context, id, userID string) (*Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
