package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrInUse is returned when a product cannot be deleted because order
// snapshots still reference it.
var ErrInUse = errors.New("product is referenced by existing orders")

// Product is a catalog item. Rating and ReviewCount are derived fields,
// recomputed from the reviews table whenever a review changes; they are never
// incremented independently.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Image         string
	Category      string
	Stock         int
	Sizes         []string
	Colors        []string
	Rating        decimal.Decimal
	ReviewCount   int
	IsActive      bool
}

// SortBy enumerates the supported catalog orderings.
type SortBy string

const (
	SortDefault   SortBy = ""
	SortPriceLow  SortBy = "price-low"
	SortPriceHigh SortBy = "price-high"
	SortRating    SortBy = "rating"
)

// ListFilter narrows and orders a catalog listing. Zero values mean
// "no constraint". Page is 1-based.
type ListFilter struct {
	Category string
	Search   string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	SortBy   SortBy
	Page     int
	Limit    int
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Product, int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}
