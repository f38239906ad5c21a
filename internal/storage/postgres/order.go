package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stylestore/api/internal/domain/order"
)

const (
	// Step 1 of the checkout pipeline: the owner's cart joined to the
	// products' current display fields, read inside the transaction so the
	// snapshots and the cart deletion observe the same state.
	selectCartForCheckoutSQL = `SELECT c.product_id, c.quantity, c.selected_size, c.selected_color,
			p.name, p.image, p.price
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`

	insertOrderSQL = `INSERT INTO orders
		(id, user_id, subtotal, shipping, tax, total, status, payment_method, payment_status,
		 shipping_name, shipping_email, shipping_phone, shipping_address, shipping_city,
		 shipping_postal_code, shipping_country, order_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	insertOrderItemSQL = `INSERT INTO order_items
		(id, order_id, product_id, product_name, product_image, price, quantity,
		 selected_size, selected_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	clearCartSQL = `DELETE FROM cart_items WHERE user_id = $1`

	orderColumns = `id, user_id, subtotal, shipping, tax, total, status, payment_method,
		payment_status, shipping_name, shipping_email, shipping_phone, shipping_address,
		shipping_city, shipping_postal_code, shipping_country, order_notes, created_at, updated_at`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC`

	listAllOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	getOrderForUserSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`

	listOrderItemsSQL = `SELECT id, order_id, product_id, product_name, product_image,
			price, quantity, selected_size, selected_color
		FROM order_items WHERE order_id = ANY($1) ORDER BY created_at`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateFromCart runs the checkout pipeline as one atomic unit: read the
// owner's cart lines with their products' current name/image/price, insert
// the order row, insert one frozen item snapshot per line, and delete the
// cart lines. pgx.BeginFunc commits only when every step succeeded; any
// failure (including order.ErrEmptyCart) rolls the whole unit back.
func (r *OrderRepository) CreateFromCart(ctx context.Context, draft *order.Order) (*order.Order, error) {
	o := *draft

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectCartForCheckoutSQL, o.UserID)
		if err != nil {
			return errors.Wrap(err, "loading cart")
		}

		items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
			it := order.Item{ID: uuid.New().String(), OrderID: o.ID}
			err := row.Scan(
				&it.ProductID, &it.Quantity, &it.SelectedSize, &it.SelectedColor,
				&it.ProductName, &it.ProductImage, &it.Price,
			)
			return it, err
		})
		if err != nil {
			return errors.Wrap(err, "loading cart")
		}

		if len(items) == 0 {
			return order.ErrEmptyCart
		}

		addr := o.ShippingAddress
		err = tx.QueryRow(ctx, insertOrderSQL,
			o.ID, o.UserID, o.Subtotal, o.Shipping, o.Tax, o.Total,
			string(o.Status), o.PaymentMethod, string(o.PaymentStatus),
			addr.Name, addr.Email, addr.Phone, addr.Address, addr.City,
			addr.PostalCode, addr.Country, o.OrderNotes,
		).Scan(&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "inserting order")
		}

		for _, it := range items {
			_, err := tx.Exec(ctx, insertOrderItemSQL,
				it.ID, it.OrderID, it.ProductID, it.ProductName, it.ProductImage,
				it.Price, it.Quantity, it.SelectedSize, it.SelectedColor,
			)
			if err != nil {
				return errors.Wrapf(err, "inserting order item for product %q", it.ProductID)
			}
		}

		if _, err := tx.Exec(ctx, clearCartSQL, o.UserID); err != nil {
			return errors.Wrap(err, "clearing cart")
		}

		o.Items = items
		return nil
	})
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			return nil, order.ErrEmptyCart
		}
		return nil, errors.Wrapf(err, "placing order %q", o.ID)
	}

	return &o, nil
}

// ListByUser returns the owner's orders, newest first, with item snapshots.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return r.listOrders(ctx, listOrdersByUserSQL, userID)
}

// ListAll returns every order in the system, newest first, with item
// snapshots.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	return r.listOrders(ctx, listAllOrdersSQL)
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing orders")
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, errors.Wrap(err, "listing orders")
	}
	if len(orders) == 0 {
		return orders, nil
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the item snapshots for a batch of orders in one query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []order.Order) error {
	ids := make([]string, len(orders))
	index := make(map[string]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	rows, err := r.pool.Query(ctx, listOrderItemsSQL, ids)
	if err != nil {
		return errors.Wrap(err, "listing order items")
	}

	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		return errors.Wrap(err, "listing order items")
	}

	for _, it := range items {
		o := index[it.OrderID]
		o.Items = append(o.Items, it)
	}
	return nil
}

// Get returns one order by id regardless of owner. Admin paths only.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	return r.getOrder(ctx, getOrderSQL, id)
}

// GetForUser returns one order scoped to its owner.
func (r *OrderRepository) GetForUser(ctx context.Context, id, userID string) (*order.Order, error) {
	return r.getOrder(ctx, getOrderForUserSQL, id, userID)
}

func (r *OrderRepository) getOrder(ctx context.Context, query string, args ...any) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "getting order")
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting order")
	}

	orders := []order.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// UpdateStatus moves an order to a new lifecycle status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return errors.Wrapf(err, "updating status of order %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		status        string
		paymentStatus string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.Shipping, &o.Tax, &o.Total,
		&status, &o.PaymentMethod, &paymentStatus,
		&o.ShippingAddress.Name, &o.ShippingAddress.Email, &o.ShippingAddress.Phone,
		&o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.OrderNotes, &o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductImage,
		&it.Price, &it.Quantity, &it.SelectedSize, &it.SelectedColor,
	)
	return it, err
}
