package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stylestore/api/internal/domain/product"
	"github.com/stylestore/api/internal/domain/wishlist"
)

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type wishlistProductView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Rating   decimal.Decimal `json:"rating"`
	Stock    int             `json:"stock"`
}

type wishlistEntryView struct {
	ID        string              `json:"id"`
	ProductID string              `json:"productId"`
	Product   wishlistProductView `json:"product"`
}

func toWishlistEntryView(e *wishlist.EntryWithProduct) wishlistEntryView {
	return wishlistEntryView{
		ID:        e.ID,
		ProductID: e.ProductID,
		Product: wishlistProductView{
			ID:       e.Product.ID,
			Name:     e.Product.Name,
			Price:    e.Product.Price,
			Image:    e.Product.Image,
			Category: e.Product.Category,
			Rating:   e.Product.Rating,
			Stock:    e.Product.Stock,
		},
	}
}

// GetWishlist lists the caller's saved products.
func (h *Handler) GetWishlist(c *gin.Context) {
	entries, err := h.wishlists.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondInternal(c, "failed to load wishlist", err)
		return
	}

	views := make([]wishlistEntryView, len(entries))
	for i := range entries {
		views[i] = toWishlistEntryView(&entries[i])
	}

	respond(c, http.StatusOK, gin.H{"count": len(views), "data": views})
}

// AddToWishlist saves a product for the caller.
func (h *Handler) AddToWishlist(c *gin.Context) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId is required")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.products.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, "failed to update wishlist", err)
		return
	}

	entry := &wishlist.Entry{
		ID:        uuid.New().String(),
		UserID:    currentUserID(c),
		ProductID: req.ProductID,
	}
	if err := h.wishlists.Create(ctx, entry); err != nil {
		if errors.Is(err, wishlist.ErrExists) {
			respondError(c, http.StatusBadRequest, "product already in wishlist")
			return
		}
		respondInternal(c, "failed to update wishlist", err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"message": "added to wishlist"})
}

// ToggleWishlist saves the product when absent and removes it when present.
func (h *Handler) ToggleWishlist(c *gin.Context) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId is required")
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	existing, err := h.wishlists.FindByUserAndProduct(ctx, userID, req.ProductID)
	switch {
	case err == nil:
		if err := h.wishlists.Delete(ctx, existing.ID); err != nil {
			respondInternal(c, "failed to update wishlist", err)
			return
		}
		respond(c, http.StatusOK, gin.H{"message": "removed from wishlist", "added": false})
		return
	case errors.Is(err, wishlist.ErrNotFound):
	default:
		respondInternal(c, "failed to update wishlist", err)
		return
	}

	if _, err := h.products.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, "failed to update wishlist", err)
		return
	}

	entry := &wishlist.Entry{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: req.ProductID,
	}
	if err := h.wishlists.Create(ctx, entry); err != nil {
		// A concurrent toggle may have added it first.
		if errors.Is(err, wishlist.ErrExists) {
			respond(c, http.StatusOK, gin.H{"message": "already in wishlist", "added": true})
			return
		}
		respondInternal(c, "failed to update wishlist", err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"message": "added to wishlist", "added": true})
}

// RemoveFromWishlist deletes one of the caller's entries.
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	ctx := c.Request.Context()
	entry, err := h.wishlists.GetForUser(ctx, c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, wishlist.ErrNotFound) {
			respondError(c, http.StatusNotFound, "wishlist item not found")
			return
		}
		respondInternal(c, "failed to update wishlist", err)
		return
	}

	if err := h.wishlists.Delete(ctx, entry.ID); err != nil {
		respondInternal(c, "failed to update wishlist", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "removed from wishlist"})
}
