package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stylestore/api/internal/domain/product"
)

const (
	productColumns = `id, name, description, price, original_price, image, category,
		stock, sizes, colors, rating, review_count, is_active`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products
		(id, name, description, price, original_price, image, category, stock, sizes, colors, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateProductSQL = `UPDATE products SET
		name = $2, description = $3, price = $4, original_price = $5, image = $6,
		category = $7, stock = $8, sizes = $9, colors = $10, is_active = $11,
		updated_at = now()
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns the active products matching the filter plus the total match
// count before pagination.
func (r *ProductRepository) List(ctx context.Context, f product.ListFilter) ([]product.Product, int, error) {
	where, args := buildProductFilter(f)

	var total int
	countSQL := "SELECT count(*) FROM products" + where
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "counting products")
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	listSQL := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, productOrder(f.SortBy), len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing products")
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing products")
	}
	return products, total, nil
}

func buildProductFilter(f product.ListFilter) (string, []any) {
	conds := []string{"is_active"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" && f.Category != "all" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if f.MinPrice.IsPositive() {
		conds = append(conds, "price >= "+arg(f.MinPrice))
	}
	if f.MaxPrice.IsPositive() {
		conds = append(conds, "price <= "+arg(f.MaxPrice))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func productOrder(s product.SortBy) string {
	switch s {
	case product.SortPriceLow:
		return "price ASC"
	case product.SortPriceHigh:
		return "price DESC"
	case product.SortRating:
		return "rating DESC"
	default:
		return "name ASC"
	}
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting product %q", id)
	}
	return &p, nil
}

// Create inserts a new catalog item.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	var origPrice *decimal.Decimal
	if p.OriginalPrice.IsPositive() {
		origPrice = &p.OriginalPrice
	}

	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.Name, p.Description, p.Price, origPrice, p.Image, p.Category,
		p.Stock, p.Sizes, p.Colors, p.IsActive,
	)
	if err != nil {
		return errors.Wrapf(err, "creating product %q", p.ID)
	}
	return nil
}

// Update rewrites a product's editable fields. Rating and review_count are
// derived columns and only change through review mutations.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	var origPrice *decimal.Decimal
	if p.OriginalPrice.IsPositive() {
		origPrice = &p.OriginalPrice
	}

	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Description, p.Price, origPrice, p.Image, p.Category,
		p.Stock, p.Sizes, p.Colors, p.IsActive,
	)
	if err != nil {
		return errors.Wrapf(err, "updating product %q", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product. Products referenced by order snapshots cannot be
// deleted (RESTRICT) and map to product.ErrInUse.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		if isPgErr(err, codeForeignKeyViolation) {
			return product.ErrInUse
		}
		return errors.Wrapf(err, "deleting product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p         product.Product
		origPrice *decimal.Decimal
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &origPrice, &p.Image,
		&p.Category, &p.Stock, &p.Sizes, &p.Colors, &p.Rating, &p.ReviewCount,
		&p.IsActive,
	)
	if origPrice != nil {
		p.OriginalPrice = *origPrice
	}
	return p, err
}
