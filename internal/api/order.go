package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/stylestore/api/internal/domain/order"
)

type shippingAddressPayload struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type placeOrderRequest struct {
	ShippingAddress shippingAddressPayload `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	OrderNotes      string                 `json:"orderNotes"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Shipping        decimal.Decimal        `json:"shipping"`
	Tax             decimal.Decimal        `json:"tax"`
	Total           decimal.Decimal        `json:"total"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type orderItemView struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	ProductImage  string          `json:"productImage"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selectedSize"`
	SelectedColor string          `json:"selectedColor"`
}

type orderView struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"userId"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	Shipping        decimal.Decimal        `json:"shipping"`
	Tax             decimal.Decimal        `json:"tax"`
	Total           decimal.Decimal        `json:"total"`
	Status          string                 `json:"status"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentStatus   string                 `json:"paymentStatus"`
	ShippingAddress shippingAddressPayload `json:"shippingAddress"`
	OrderNotes      string                 `json:"orderNotes"`
	Items           []orderItemView        `json:"items"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func toOrderView(o *order.Order) orderView {
	items := make([]orderItemView, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemView{
			ID:            it.ID,
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			ProductImage:  it.ProductImage,
			Price:         it.Price,
			Quantity:      it.Quantity,
			SelectedSize:  it.SelectedSize,
			SelectedColor: it.SelectedColor,
		}
	}
	return orderView{
		ID:            o.ID,
		UserID:        o.UserID,
		Subtotal:      o.Subtotal,
		Shipping:      o.Shipping,
		Tax:           o.Tax,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: string(o.PaymentStatus),
		ShippingAddress: shippingAddressPayload{
			Name:       o.ShippingAddress.Name,
			Email:      o.ShippingAddress.Email,
			Phone:      o.ShippingAddress.Phone,
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		OrderNotes: o.OrderNotes,
		Items:      items,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// PlaceOrder turns the caller's cart into an order.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid order payload")
		return
	}

	placed, err := h.orders.Place(c.Request.Context(), order.PlaceRequest{
		UserID: currentUserID(c),
		ShippingAddress: order.ShippingAddress{
			Name:       req.ShippingAddress.Name,
			Email:      req.ShippingAddress.Email,
			Phone:      req.ShippingAddress.Phone,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
		OrderNotes:    req.OrderNotes,
		Subtotal:      req.Subtotal,
		Shipping:      req.Shipping,
		Tax:           req.Tax,
		Total:         req.Total,
	})
	if err != nil {
		var vErr *order.ValidationError
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			respondError(c, http.StatusBadRequest, "cart is empty")
		case errors.As(err, &vErr):
			respondError(c, http.StatusBadRequest, vErr.Error())
		default:
			respondInternal(c, "failed to place order", err)
		}
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "order placed successfully",
		"data":    toOrderView(placed),
	})
}

// ListMyOrders returns the caller's orders, newest first.
func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondInternal(c, "failed to load orders", err)
		return
	}

	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = toOrderView(&orders[i])
	}

	respond(c, http.StatusOK, gin.H{"count": len(views), "data": views})
}

// GetOrder returns one of the caller's orders.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(c, http.StatusNotFound, "order not found")
			return
		}
		respondInternal(c, "failed to load order", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"data": toOrderView(o)})
}

// ListAllOrders returns every order in the system. Admin only.
func (h *Handler) ListAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondInternal(c, "failed to load orders", err)
		return
	}

	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = toOrderView(&orders[i])
	}

	respond(c, http.StatusOK, gin.H{"count": len(views), "data": views})
}

// UpdateOrderStatus moves an order through its lifecycle. Admin only.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}

	o, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), order.Status(req.Status))
	if err != nil {
		var sErr *order.InvalidStatusError
		switch {
		case errors.As(err, &sErr):
			respondError(c, http.StatusBadRequest, sErr.Error())
		case errors.Is(err, order.ErrNotFound):
			respondError(c, http.StatusNotFound, "order not found")
		default:
			respondInternal(c, "failed to update order", err)
		}
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "order status updated",
		"data":    toOrderView(o),
	})
}
