package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/stylestore/api/internal/auth"
	"github.com/stylestore/api/internal/domain/cart"
	"github.com/stylestore/api/internal/domain/order"
	"github.com/stylestore/api/internal/domain/product"
	"github.com/stylestore/api/internal/domain/review"
	"github.com/stylestore/api/internal/domain/user"
	"github.com/stylestore/api/internal/domain/wishlist"
)

type mockUserRepo struct {
	byID    map[string]*user.User
	byEmail map[string]*user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: map[string]*user.User{}, byEmail: map[string]*user.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type mockProductRepo struct {
	byID map[string]*product.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{byID: map[string]*product.Product{}}
}

func (m *mockProductRepo) List(_ context.Context, _ product.ListFilter) ([]product.Product, int, error) {
	var out []product.Product
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) Create(_ context.Context, p *product.Product) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, p *product.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return product.ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return product.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type cartKey struct {
	userID, productID, size, color string
}

type mockCartRepo struct {
	byID map[string]*cart.Line
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{byID: map[string]*cart.Line{}}
}

func (m *mockCartRepo) ListByUser(_ context.Context, userID string) ([]cart.LineWithProduct, error) {
	var out []cart.LineWithProduct
	for _, l := range m.byID {
		if l.UserID == userID {
			out = append(out, cart.LineWithProduct{Line: *l})
		}
	}
	return out, nil
}

func (m *mockCartRepo) FindByKey(_ context.Context, userID, productID, size, color string) (*cart.Line, error) {
	want := cartKey{userID, productID, size, color}
	for _, l := range m.byID {
		if (cartKey{l.UserID, l.ProductID, l.SelectedSize, l.SelectedColor}) == want {
			cp := *l
			return &cp, nil
		}
	}
	return nil, cart.ErrNotFound
}

func (m *mockCartRepo) GetForUser(_ context.Context, id, userID string) (*cart.Line, error) {
	l, ok := m.byID[id]
	if !ok || l.UserID != userID {
		return nil, cart.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *mockCartRepo) Create(_ context.Context, l *cart.Line) error {
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	l, ok := m.byID[id]
	if !ok {
		return cart.ErrNotFound
	}
	l.Quantity = quantity
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return cart.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockCartRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, l := range m.byID {
		if l.UserID == userID {
			delete(m.byID, id)
		}
	}
	return nil
}

type mockWishlistRepo struct {
	byID map[string]*wishlist.Entry
}

func newMockWishlistRepo() *mockWishlistRepo {
	return &mockWishlistRepo{byID: map[string]*wishlist.Entry{}}
}

func (m *mockWishlistRepo) ListByUser(_ context.Context, userID string) ([]wishlist.EntryWithProduct, error) {
	var out []wishlist.EntryWithProduct
	for _, e := range m.byID {
		if e.UserID == userID {
			out = append(out, wishlist.EntryWithProduct{Entry: *e})
		}
	}
	return out, nil
}

func (m *mockWishlistRepo) FindByUserAndProduct(_ context.Context, userID, productID string) (*wishlist.Entry, error) {
	for _, e := range m.byID {
		if e.UserID == userID && e.ProductID == productID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, wishlist.ErrNotFound
}

func (m *mockWishlistRepo) GetForUser(_ context.Context, id, userID string) (*wishlist.Entry, error) {
	e, ok := m.byID[id]
	if !ok || e.UserID != userID {
		return nil, wishlist.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockWishlistRepo) Create(_ context.Context, e *wishlist.Entry) error {
	for _, existing := range m.byID {
		if existing.UserID == e.UserID && existing.ProductID == e.ProductID {
			return wishlist.ErrExists
		}
	}
	cp := *e
	m.byID[e.ID] = &cp
	return nil
}

func (m *mockWishlistRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return wishlist.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockOrderRepo struct {
	byID      map[string]*order.Order
	emptyCart bool
	items     []order.Item
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{byID: map[string]*order.Order{}}
}

func (m *mockOrderRepo) CreateFromCart(_ context.Context, draft *order.Order) (*order.Order, error) {
	if m.emptyCart {
		return nil, order.ErrEmptyCart
	}
	o := *draft
	o.Items = m.items
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.byID[o.ID] = &o
	cp := o
	return &cp, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) GetForUser(_ context.Context, id, userID string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok || o.UserID != userID {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.byID {
		out = append(out, *o)
	}
	return out, nil
}

func (m *mockOrderRepo) Get(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status order.Status) error {
	o, ok := m.byID[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	return nil
}

type mockReviewRepo struct {
	byID map[string]*review.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{byID: map[string]*review.Review{}}
}

func (m *mockReviewRepo) ListByProduct(_ context.Context, productID string) ([]review.Review, error) {
	var out []review.Review
	for _, r := range m.byID {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) GetForUser(_ context.Context, id, userID string) (*review.Review, error) {
	r, ok := m.byID[id]
	if !ok || r.UserID != userID {
		return nil, review.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockReviewRepo) FindByUserAndProduct(_ context.Context, userID, productID string) (*review.Review, error) {
	for _, r := range m.byID {
		if r.UserID == userID && r.ProductID == productID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, review.ErrNotFound
}

func (m *mockReviewRepo) Create(_ context.Context, r *review.Review) error {
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *mockReviewRepo) Update(_ context.Context, r *review.Review) error {
	if _, ok := m.byID[r.ID]; !ok {
		return review.ErrNotFound
	}
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *mockReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return review.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// testEnv bundles the handler, its router, and every mock behind it.
type testEnv struct {
	router    *gin.Engine
	users     *mockUserRepo
	products  *mockProductRepo
	carts     *mockCartRepo
	wishlists *mockWishlistRepo
	orders    *mockOrderRepo
	reviews   *mockReviewRepo
	tokens    *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:     newMockUserRepo(),
		products:  newMockProductRepo(),
		carts:     newMockCartRepo(),
		wishlists: newMockWishlistRepo(),
		orders:    newMockOrderRepo(),
		reviews:   newMockReviewRepo(),
		tokens:    auth.NewTokenManager([]byte("test-secret"), time.Hour),
	}

	h := NewHandler(
		env.users,
		env.products,
		env.carts,
		env.wishlists,
		order.NewService(env.orders),
		review.NewService(env.reviews, env.products),
		env.tokens,
	)
	env.router = h.Router()
	return env
}

// seedUser stores an account directly and returns a valid bearer token for it.
func (env *testEnv) seedUser(t *testing.T, id, email string, role user.Role) string {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	err = env.users.Create(context.Background(), &user.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	token, err := env.tokens.Issue(id)
	require.NoError(t, err)
	return token
}

// do performs a request against the router and decodes the JSON body.
func (env *testEnv) do(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}
