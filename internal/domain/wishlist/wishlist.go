package wishlist

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for wishlist mutations.
var (
	ErrNotFound = errors.New("wishlist item not found")
	ErrExists   = errors.New("product already in wishlist")
)

// Entry marks a product as saved by a user. Unique per (user, product).
type Entry struct {
	ID        string
	UserID    string
	ProductID string
}

// ProductSummary carries the product fields a wishlist listing embeds.
type ProductSummary struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string
	Category string
	Rating   decimal.Decimal
	Stock    int
}

// EntryWithProduct joins an entry to its product's current display fields.
type EntryWithProduct struct {
	Entry
	Product ProductSummary
}

// Repository defines persistence operations for wishlist entries.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]EntryWithProduct, error)
	// FindByUserAndProduct returns ErrNotFound when the product is not saved.
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*Entry, error)
	GetForUser(ctx context.Context, id, userID string) (*Entry, error)
	Create(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id string) error
}
