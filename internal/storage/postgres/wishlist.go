package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stylestore/api/internal/domain/wishlist"
)

const (
	listWishlistSQL = `SELECT w.id, w.user_id, w.product_id,
			p.name, p.price, p.image, p.category, p.rating, p.stock
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`

	findWishlistEntrySQL = `SELECT id, user_id, product_id FROM wishlist_items
		WHERE user_id = $1 AND product_id = $2`

	getWishlistEntrySQL = `SELECT id, user_id, product_id FROM wishlist_items
		WHERE id = $1 AND user_id = $2`

	insertWishlistEntrySQL = `INSERT INTO wishlist_items (id, user_id, product_id)
		VALUES ($1, $2, $3)`

	deleteWishlistEntrySQL = `DELETE FROM wishlist_items WHERE id = $1`
)

var _ wishlist.Repository = (*WishlistRepository)(nil)

// WishlistRepository implements wishlist.Repository backed by PostgreSQL.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

// NewWishlistRepository returns a WishlistRepository that uses the given pool.
func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// ListByUser returns the user's saved products, newest first.
func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]wishlist.EntryWithProduct, error) {
	rows, err := r.pool.Query(ctx, listWishlistSQL, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing wishlist")
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (wishlist.EntryWithProduct, error) {
		var e wishlist.EntryWithProduct
		err := row.Scan(
			&e.ID, &e.UserID, &e.ProductID,
			&e.Product.Name, &e.Product.Price, &e.Product.Image,
			&e.Product.Category, &e.Product.Rating, &e.Product.Stock,
		)
		e.Product.ID = e.ProductID
		return e, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing wishlist")
	}
	return entries, nil
}

// FindByUserAndProduct returns the user's entry for a product, or ErrNotFound.
func (r *WishlistRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (*wishlist.Entry, error) {
	return r.getEntry(ctx, findWishlistEntrySQL, userID, productID)
}

// GetForUser returns one entry scoped to its owner.
func (r *WishlistRepository) GetForUser(ctx context.Context, id, userID string) (*wishlist.Entry, error) {
	return r.getEntry(ctx, getWishlistEntrySQL, id, userID)
}

func (r *WishlistRepository) getEntry(ctx context.Context, query string, args ...any) (*wishlist.Entry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "getting wishlist entry")
	}

	e, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (wishlist.Entry, error) {
		var e wishlist.Entry
		err := row.Scan(&e.ID, &e.UserID, &e.ProductID)
		return e, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wishlist.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting wishlist entry")
	}
	return &e, nil
}

// Create saves a product for a user. A product already saved by the same
// user yields ErrExists.
func (r *WishlistRepository) Create(ctx context.Context, e *wishlist.Entry) error {
	_, err := r.pool.Exec(ctx, insertWishlistEntrySQL, e.ID, e.UserID, e.ProductID)
	if err != nil {
		if isPgErr(err, codeUniqueViolation) {
			return wishlist.ErrExists
		}
		return errors.Wrapf(err, "saving product %q", e.ProductID)
	}
	return nil
}

// Delete removes an entry by id.
func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteWishlistEntrySQL, id)
	if err != nil {
		return errors.Wrapf(err, "removing wishlist entry %q", id)
	}
	if tag.RowsAffected() == 0 {
		return wishlist.ErrNotFound
	}
	return nil
}
