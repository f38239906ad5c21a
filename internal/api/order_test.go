package api

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylestore/api/internal/domain/order"
	"github.com/stylestore/api/internal/domain/user"
)

func checkoutPayload() map[string]any {
	return map[string]any{
		"shippingAddress": map[string]any{
			"name":       "Ada Lovelace",
			"email":      "ada@example.com",
			"phone":      "+4420123456",
			"address":    "12 Analytical Row",
			"city":       "London",
			"postalCode": "EC1A",
			"country":    "UK",
		},
		"paymentMethod": "card",
		"subtotal":      "25.00",
		"shipping":      "2.00",
		"tax":           "0.00",
		"total":         "27.00",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "ada@example.com", user.RoleCustomer)
	env.orders.items = []order.Item{
		{ID: "i1", ProductID: "p1", ProductName: "Linen Shirt", Price: decimal.RequireFromString("12.50"), Quantity: 2},
	}

	code, body := env.do(t, http.MethodPost, "/api/orders", token, checkoutPayload())

	require.Equal(t, http.StatusCreated, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "pending", data["paymentStatus"])
	assert.Equal(t, "27", data["total"])
	assert.Len(t, data["items"], 1)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "ada@example.com", user.RoleCustomer)
	env.orders.emptyCart = true

	code, body := env.do(t, http.MethodPost, "/api/orders", token, checkoutPayload())

	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "cart is empty", body["message"])
}

func TestPlaceOrder_MissingAddressField(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "ada@example.com", user.RoleCustomer)

	payload := checkoutPayload()
	payload["shippingAddress"].(map[string]any)["postalCode"] = ""

	code, body := env.do(t, http.MethodPost, "/api/orders", token, payload)

	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["message"], "postalCode")
	assert.Empty(t, env.orders.byID)
}

func TestGetOrder_NotOwned(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "ada@example.com", user.RoleCustomer)
	env.orders.byID["o1"] = &order.Order{ID: "o1", UserID: "u2", Status: order.StatusPending}

	code, _ := env.do(t, http.MethodGet, "/api/orders/o1", token, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestListAllOrders_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "ada@example.com", user.RoleCustomer)

	code, _ := env.do(t, http.MethodGet, "/api/orders/admin/all", token, nil)
	require.Equal(t, http.StatusForbidden, code)
}

func TestListAllOrders_AsAdmin(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "a1", "admin@example.com", user.RoleAdmin)
	env.orders.byID["o1"] = &order.Order{ID: "o1", UserID: "u2", Status: order.StatusPending}

	code, body := env.do(t, http.MethodGet, "/api/orders/admin/all", token, nil)

	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "a1", "admin@example.com", user.RoleAdmin)
	env.orders.byID["o1"] = &order.Order{ID: "o1", UserID: "u2", Status: order.StatusPending}

	code, _ := env.do(t, http.MethodPut, "/api/orders/o1/status", token, map[string]any{"status": "teleported"})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "a1", "admin@example.com", user.RoleAdmin)
	env.orders.byID["o1"] = &order.Order{ID: "o1", UserID: "u2", Status: order.StatusPending}

	code, body := env.do(t, http.MethodPut, "/api/orders/o1/status", token, map[string]any{"status": "shipped"})

	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "shipped", data["status"])
}

func TestUpdateOrderStatus_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedUser(t, "u1", "ada@example.com", user.RoleCustomer)

	code, _ := env.do(t, http.MethodPut, "/api/orders/o1/status", token, map[string]any{"status": "shipped"})
	require.Equal(t, http.StatusForbidden, code)
}
