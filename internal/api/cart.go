package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stylestore/api/internal/domain/cart"
	"github.com/stylestore/api/internal/domain/product"
)

type addToCartRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"omitempty,gte=1"`
	SelectedSize  string `json:"selectedSize"`
	SelectedColor string `json:"selectedColor"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}

type cartProductView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
}

type cartLineView struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selectedSize"`
	SelectedColor string          `json:"selectedColor"`
	Product       cartProductView `json:"product"`
}

func toCartLineView(l *cart.LineWithProduct) cartLineView {
	return cartLineView{
		ID:            l.ID,
		ProductID:     l.ProductID,
		Quantity:      l.Quantity,
		SelectedSize:  l.SelectedSize,
		SelectedColor: l.SelectedColor,
		Product: cartProductView{
			ID:       l.Product.ID,
			Name:     l.Product.Name,
			Price:    l.Product.Price,
			Image:    l.Product.Image,
			Stock:    l.Product.Stock,
			Category: l.Product.Category,
		},
	}
}

// GetCart lists the caller's cart lines with their products.
func (h *Handler) GetCart(c *gin.Context) {
	lines, err := h.carts.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondInternal(c, "failed to load cart", err)
		return
	}

	views := make([]cartLineView, len(lines))
	for i := range lines {
		views[i] = toCartLineView(&lines[i])
	}

	respond(c, http.StatusOK, gin.H{"count": len(views), "data": views})
}

// AddToCart puts a product selection into the caller's cart. An add for an
// already present (product, size, color) key merges into the existing line by
// incrementing its quantity.
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId is required and quantity must be at least 1")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	if _, err := h.products.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, "failed to add to cart", err)
		return
	}

	existing, err := h.carts.FindByKey(ctx, userID, req.ProductID, req.SelectedSize, req.SelectedColor)
	switch {
	case err == nil:
		if err := h.carts.UpdateQuantity(ctx, existing.ID, existing.Quantity+req.Quantity); err != nil {
			respondInternal(c, "failed to add to cart", err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "cart updated"})
		return
	case errors.Is(err, cart.ErrNotFound):
	default:
		respondInternal(c, "failed to add to cart", err)
		return
	}

	line := &cart.Line{
		ID:            uuid.New().String(),
		UserID:        userID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		SelectedSize:  req.SelectedSize,
		SelectedColor: req.SelectedColor,
	}
	if err := h.carts.Create(ctx, line); err != nil {
		respondInternal(c, "failed to add to cart", err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"message": "added to cart"})
}

// UpdateCartItem changes the quantity of one of the caller's lines.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	ctx := c.Request.Context()
	line, err := h.carts.GetForUser(ctx, c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			respondError(c, http.StatusNotFound, "cart item not found")
			return
		}
		respondInternal(c, "failed to update cart", err)
		return
	}

	if err := h.carts.UpdateQuantity(ctx, line.ID, req.Quantity); err != nil {
		respondInternal(c, "failed to update cart", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "cart updated"})
}

// RemoveCartItem deletes one of the caller's lines.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	ctx := c.Request.Context()
	line, err := h.carts.GetForUser(ctx, c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			respondError(c, http.StatusNotFound, "cart item not found")
			return
		}
		respondInternal(c, "failed to update cart", err)
		return
	}

	if err := h.carts.Delete(ctx, line.ID); err != nil {
		respondInternal(c, "failed to update cart", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "removed from cart"})
}

// ClearCart deletes every line the caller owns.
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.DeleteByUser(c.Request.Context(), currentUserID(c)); err != nil {
		respondInternal(c, "failed to clear cart", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "cart cleared"})
}
