package api

import (
	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with the full route table. Middleware that
// applies to every route (recovery, logging, CORS, rate limiting) wraps the
// returned handler at the server level.
func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", h.Authenticate, h.Me)
		}

		products := api.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.POST("", h.Authenticate, h.RequireAdmin, h.CreateProduct)
			products.PUT("/:id", h.Authenticate, h.RequireAdmin, h.UpdateProduct)
			products.DELETE("/:id", h.Authenticate, h.RequireAdmin, h.DeleteProduct)
		}

		cartGroup := api.Group("/cart", h.Authenticate)
		{
			cartGroup.GET("", h.GetCart)
			cartGroup.POST("", h.AddToCart)
			cartGroup.PUT("/:id", h.UpdateCartItem)
			cartGroup.DELETE("/:id", h.RemoveCartItem)
			cartGroup.DELETE("", h.ClearCart)
		}

		orders := api.Group("/orders", h.Authenticate)
		{
			orders.POST("", h.PlaceOrder)
			orders.GET("", h.ListMyOrders)
			orders.GET("/admin/all", h.RequireAdmin, h.ListAllOrders)
			orders.PUT("/:id/status", h.RequireAdmin, h.UpdateOrderStatus)
			orders.GET("/:id", h.GetOrder)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/product/:productId", h.ListProductReviews)
			reviews.POST("", h.Authenticate, h.AddReview)
			reviews.PUT("/:id", h.Authenticate, h.UpdateReview)
			reviews.DELETE("/:id", h.Authenticate, h.DeleteReview)
		}

		wishlistGroup := api.Group("/wishlist", h.Authenticate)
		{
			wishlistGroup.GET("", h.GetWishlist)
			wishlistGroup.POST("/toggle", h.ToggleWishlist)
			wishlistGroup.POST("", h.AddToWishlist)
			wishlistGroup.DELETE("/:id", h.RemoveFromWishlist)
		}
	}

	return r
}
