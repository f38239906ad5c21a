// Package api exposes the storefront over HTTP. Handlers bind JSON with gin,
// call into the domain layer, and translate domain errors into the uniform
// {success, message, ...} response contract.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/stylestore/api/internal/auth"
	"github.com/stylestore/api/internal/domain/cart"
	"github.com/stylestore/api/internal/domain/order"
	"github.com/stylestore/api/internal/domain/product"
	"github.com/stylestore/api/internal/domain/review"
	"github.com/stylestore/api/internal/domain/user"
	"github.com/stylestore/api/internal/domain/wishlist"
)

// Handler carries the dependencies of every endpoint.
type Handler struct {
	users     user.Repository
	products  product.Repository
	carts     cart.Repository
	wishlists wishlist.Repository
	orders    *order.Service
	reviews   *review.Service
	tokens    *auth.TokenManager
}

// NewHandler assembles the API handler from its dependencies.
func NewHandler(
	users user.Repository,
	products product.Repository,
	carts cart.Repository,
	wishlists wishlist.Repository,
	orders *order.Service,
	reviews *review.Service,
	tokens *auth.TokenManager,
) *Handler {
	return &Handler{
		users:     users,
		products:  products,
		carts:     carts,
		wishlists: wishlists,
		orders:    orders,
		reviews:   reviews,
		tokens:    tokens,
	}
}

// respond writes a success body. Extra fields (data, count, token, ...) come
// from body; success is always set.
func respond(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// respondError writes a failure body with a caller-facing message.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondInternal logs the cause and answers with a generic message plus the
// error string, matching the storefront's established contract.
func respondInternal(c *gin.Context, message string, err error) {
	zctx.From(c.Request.Context()).Error(message,
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
