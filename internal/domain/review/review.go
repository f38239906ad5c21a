package review

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for review mutations.
var (
	ErrNotFound  = errors.New("review not found")
	ErrDuplicate = errors.New("you have already reviewed this product")
)

// InvalidRatingError indicates a rating outside the 1..5 scale.
type InvalidRatingError struct {
	Rating int
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("rating %d is outside the valid range 1-5", e.Rating)
}

// Review is one user's rating and comment for a product. A user holds at most
// one review per product; the database unique constraint is the enforcement
// of last resort under concurrent writes.
type Review struct {
	ID        string
	UserID    string
	UserName  string
	ProductID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Repository defines persistence operations for reviews.
//
// Create, Update, and Delete each run the review write and the recomputation
// of the product's rating/reviewCount aggregate inside one transaction: a
// review must never exist whose effect on the aggregate was not applied, and
// vice versa.
type Repository interface {
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	GetForUser(ctx context.Context, id, userID string) (*Review, error)
	// FindByUserAndProduct returns ErrNotFound when the user has not reviewed
	// the product.
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*Review, error)
	Create(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id string) error
}
