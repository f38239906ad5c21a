package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a cart line does not exist or is not owned by
// the caller.
var ErrNotFound = errors.New("cart item not found")

// Line is one distinct (product, size, color) selection with a quantity,
// scoped to one owner. A repeated add for the same key merges into the
// existing line instead of creating a second one.
type Line struct {
	ID            string
	UserID        string
	ProductID     string
	Quantity      int
	SelectedSize  string
	SelectedColor string
}

// ProductSummary carries the product fields a cart listing embeds. Prices come
// from the live product row, not a snapshot; snapshots happen at checkout.
type ProductSummary struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string
	Stock    int
	Category string
}

// LineWithProduct joins a cart line to its product's current display fields.
type LineWithProduct struct {
	Line
	Product ProductSummary
}

// Repository defines persistence operations for cart lines.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]LineWithProduct, error)
	// FindByKey locates the owner's line for an exact (product, size, color)
	// combination. Returns ErrNotFound when absent.
	FindByKey(ctx context.Context, userID, productID, size, color string) (*Line, error)
	GetForUser(ctx context.Context, id, userID string) (*Line, error)
	Create(ctx context.Context, l *Line) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
