package review

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/stylestore/api/internal/domain/product"
)

// AddRequest holds the input for creating a review. UserID comes from the
// authenticated session.
type AddRequest struct {
	UserID    string
	ProductID string
	Rating    int
	Comment   string
}

// UpdateRequest holds the input for editing one's own review. Zero-valued
// fields keep the existing values.
type UpdateRequest struct {
	UserID   string
	ReviewID string
	Rating   int
	Comment  string
}

// Service encapsulates review mutations and the product aggregate contract.
type Service struct {
	reviews  Repository
	products product.Repository
}

// NewService creates a review Service with the required dependencies.
func NewService(reviews Repository, products product.Repository) *Service {
	return &Service{reviews: reviews, products: products}
}

// Add creates a review for a product the caller has not reviewed yet. The
// repository recomputes the product's rating and review count in the same
// transaction as the insert.
func (s *Service) Add(ctx context.Context, req AddRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &InvalidRatingError{Rating: req.Rating}
	}

	if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %s", req.ProductID)
	}

	// Pre-check for a duplicate so the common case fails with a clean error.
	// Under concurrent writes the unique constraint is the real enforcement.
	_, err := s.reviews.FindByUserAndProduct(ctx, req.UserID, req.ProductID)
	switch {
	case err == nil:
		return nil, ErrDuplicate
	case errors.Is(err, ErrNotFound):
	default:
		return nil, errors.Wrap(err, "check existing review")
	}

	r := &Review{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create review")
	}

	return r, nil
}

// Update edits the caller's own review. Reviews owned by other users are
// indistinguishable from absent ones.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Review, error) {
	r, err := s.reviews.GetForUser(ctx, req.ReviewID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get review %s", req.ReviewID)
	}

	if req.Rating != 0 {
		if req.Rating < 1 || req.Rating > 5 {
			return nil, &InvalidRatingError{Rating: req.Rating}
		}
		r.Rating = req.Rating
	}
	if req.Comment != "" {
		r.Comment = req.Comment
	}

	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, errors.Wrap(err, "update review")
	}

	return r, nil
}

// Delete removes the caller's own review and folds its absence into the
// product aggregate.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	r, err := s.reviews.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrapf(err, "get review %s", id)
	}

	if err := s.reviews.Delete(ctx, r.ID); err != nil {
		return errors.Wrap(err, "delete review")
	}

	return nil
}

// ListByProduct returns all reviews for a product, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrapf(err, "list reviews for product %s", productID)
	}
	return reviews, nil
}
