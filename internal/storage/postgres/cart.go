package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stylestore/api/internal/domain/cart"
)

const (
	listCartSQL = `SELECT c.id, c.user_id, c.product_id, c.quantity, c.selected_size, c.selected_color,
			p.id, p.name, p.price, p.image, p.stock, p.category
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`

	findCartLineSQL = `SELECT id, user_id, product_id, quantity, selected_size, selected_color
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND selected_size = $3 AND selected_color = $4`

	getCartLineSQL = `SELECT id, user_id, product_id, quantity, selected_size, selected_color
		FROM cart_items WHERE id = $1 AND user_id = $2`

	createCartLineSQL = `INSERT INTO cart_items
		(id, user_id, product_id, quantity, selected_size, selected_color)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateCartQuantitySQL = `UPDATE cart_items SET quantity = $2, updated_at = now() WHERE id = $1`

	deleteCartLineSQL   = `DELETE FROM cart_items WHERE id = $1`
	deleteCartByUserSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// ListByUser returns the owner's cart lines joined to the products' current
// display fields.
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]cart.LineWithProduct, error) {
	rows, err := r.pool.Query(ctx, listCartSQL, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing cart")
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (cart.LineWithProduct, error) {
		var l cart.LineWithProduct
		err := row.Scan(
			&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.SelectedSize, &l.SelectedColor,
			&l.Product.ID, &l.Product.Name, &l.Product.Price, &l.Product.Image,
			&l.Product.Stock, &l.Product.Category,
		)
		return l, err
	})
}

// FindByKey locates the owner's line for an exact (product, size, color)
// combination.
func (r *CartRepository) FindByKey(ctx context.Context, userID, productID, size, color string) (*cart.Line, error) {
	return r.getLine(ctx, findCartLineSQL, userID, productID, size, color)
}

// GetForUser returns the owner's line with the given id.
func (r *CartRepository) GetForUser(ctx context.Context, id, userID string) (*cart.Line, error) {
	return r.getLine(ctx, getCartLineSQL, id, userID)
}

func (r *CartRepository) getLine(ctx context.Context, query string, args ...any) (*cart.Line, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "getting cart line")
	}

	l, err := pgx.CollectExactlyOneRow(rows, scanCartLine)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting cart line")
	}
	return &l, nil
}

// Create inserts a new cart line.
func (r *CartRepository) Create(ctx context.Context, l *cart.Line) error {
	_, err := r.pool.Exec(ctx, createCartLineSQL,
		l.ID, l.UserID, l.ProductID, l.Quantity, l.SelectedSize, l.SelectedColor,
	)
	if err != nil {
		return errors.Wrapf(err, "creating cart line %q", l.ID)
	}
	return nil
}

// UpdateQuantity sets a line's quantity in place.
func (r *CartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	tag, err := r.pool.Exec(ctx, updateCartQuantitySQL, id, quantity)
	if err != nil {
		return errors.Wrapf(err, "updating cart line %q", id)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// Delete removes a single cart line.
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCartLineSQL, id)
	if err != nil {
		return errors.Wrapf(err, "deleting cart line %q", id)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrNotFound
	}
	return nil
}

// DeleteByUser clears the owner's whole cart.
func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, deleteCartByUserSQL, userID); err != nil {
		return errors.Wrap(err, "clearing cart")
	}
	return nil
}

func scanCartLine(row pgx.CollectableRow) (cart.Line, error) {
	var l cart.Line
	err := row.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.SelectedSize, &l.SelectedColor)
	return l, err
}
