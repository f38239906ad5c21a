package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stylestore/api/internal/domain/review"
)

const (
	listReviewsByProductSQL = `SELECT r.id, r.user_id, u.name, r.product_id, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC`

	getReviewForUserSQL = `SELECT id, user_id, '', product_id, rating, comment, created_at
		FROM reviews WHERE id = $1 AND user_id = $2`

	findReviewByUserAndProductSQL = `SELECT id, user_id, '', product_id, rating, comment, created_at
		FROM reviews WHERE user_id = $1 AND product_id = $2`

	insertReviewSQL = `INSERT INTO reviews (id, user_id, product_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	updateReviewSQL = `UPDATE reviews SET rating = $2, comment = $3, updated_at = now()
		WHERE id = $1`

	deleteReviewSQL = `DELETE FROM reviews WHERE id = $1 RETURNING product_id`

	selectRatingsSQL = `SELECT rating FROM reviews WHERE product_id = $1`

	updateProductAggregateSQL = `UPDATE products
		SET rating = $2, review_count = $3, updated_at = now()
		WHERE id = $1`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL. Every
// mutation recomputes the reviewed product's rating and review count in the
// same transaction as the review write.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// ListByProduct returns a product's reviews with author names, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsByProductSQL, productID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing reviews of product %q", productID)
	}

	reviews, err := pgx.CollectRows(rows, scanReview)
	if err != nil {
		return nil, errors.Wrapf(err, "listing reviews of product %q", productID)
	}
	return reviews, nil
}

// GetForUser returns one review scoped to its author.
func (r *ReviewRepository) GetForUser(ctx context.Context, id, userID string) (*review.Review, error) {
	return r.getReview(ctx, getReviewForUserSQL, id, userID)
}

// FindByUserAndProduct returns the user's review of a product, or ErrNotFound.
func (r *ReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (*review.Review, error) {
	return r.getReview(ctx, findReviewByUserAndProductSQL, userID, productID)
}

func (r *ReviewRepository) getReview(ctx context.Context, query string, args ...any) (*review.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "getting review")
	}

	rev, err := pgx.CollectExactlyOneRow(rows, scanReview)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, review.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting review")
	}
	return &rev, nil
}

// Create inserts a review and refreshes the product aggregate atomically.
// A second review by the same user for the same product yields ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertReviewSQL,
			rev.ID, rev.UserID, rev.ProductID, rev.Rating, rev.Comment,
		).Scan(&rev.CreatedAt)
		if err != nil {
			return errors.Wrap(err, "inserting review")
		}
		return r.refreshAggregate(ctx, tx, rev.ProductID)
	})
	if err != nil {
		if isPgErr(err, codeUniqueViolation) {
			return review.ErrDuplicate
		}
		return errors.Wrapf(err, "creating review for product %q", rev.ProductID)
	}
	return nil
}

// Update rewrites a review's rating and comment and refreshes the product
// aggregate atomically.
func (r *ReviewRepository) Update(ctx context.Context, rev *review.Review) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateReviewSQL, rev.ID, rev.Rating, rev.Comment)
		if err != nil {
			return errors.Wrap(err, "updating review")
		}
		if tag.RowsAffected() == 0 {
			return review.ErrNotFound
		}
		return r.refreshAggregate(ctx, tx, rev.ProductID)
	})
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			return review.ErrNotFound
		}
		return errors.Wrapf(err, "updating review %q", rev.ID)
	}
	return nil
}

// Delete removes a review and refreshes the product aggregate atomically.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var productID string
		err := tx.QueryRow(ctx, deleteReviewSQL, id).Scan(&productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return review.ErrNotFound
			}
			return errors.Wrap(err, "deleting review")
		}
		return r.refreshAggregate(ctx, tx, productID)
	})
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			return review.ErrNotFound
		}
		return errors.Wrapf(err, "deleting review %q", id)
	}
	return nil
}

// refreshAggregate recomputes a product's rating and review count from the
// ratings visible inside tx and writes them back. Called after every review
// mutation, before the transaction commits.
func (r *ReviewRepository) refreshAggregate(ctx context.Context, tx pgx.Tx, productID string) error {
	rows, err := tx.Query(ctx, selectRatingsSQL, productID)
	if err != nil {
		return errors.Wrap(err, "loading ratings")
	}

	ratings, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return errors.Wrap(err, "loading ratings")
	}

	rating, count := review.Aggregate(ratings)
	if _, err := tx.Exec(ctx, updateProductAggregateSQL, productID, rating, count); err != nil {
		return errors.Wrap(err, "writing product aggregate")
	}
	return nil
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rev review.Review
	err := row.Scan(
		&rev.ID, &rev.UserID, &rev.UserName, &rev.ProductID,
		&rev.Rating, &rev.Comment, &rev.CreatedAt,
	)
	return rev, err
}
