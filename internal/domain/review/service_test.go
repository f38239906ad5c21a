package review

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylestore/api/internal/domain/product"
)

// --- Mock implementations ---

type mockReviewRepo struct {
	byID        map[string]*Review
	byUserProd  map[string]*Review // key: userID + "/" + productID
	created     *Review
	updated     *Review
	deletedID   string
	writeErr    error
	byProduct   map[string][]Review
	listByErr   error
}

func upKey(userID, productID string) string { return userID + "/" + productID }

func (m *mockReviewRepo) ListByProduct(_ context.Context, productID string) ([]Review, error) {
	return m.byProduct[productID], m.listByErr
}

func (m *mockReviewRepo) GetForUser(_ context.Context, id, userID string) (*Review, error) {
	r, ok := m.byID[id]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockReviewRepo) FindByUserAndProduct(_ context.Context, userID, productID string) (*Review, error) {
	r, ok := m.byUserProd[upKey(userID, productID)]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *mockReviewRepo) Create(_ context.Context, r *Review) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.created = r
	return nil
}

func (m *mockReviewRepo) Update(_ context.Context, r *Review) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.updated = r
	return nil
}

func (m *mockReviewRepo) Delete(_ context.Context, id string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.deletedID = id
	return nil
}

type mockProductRepo struct {
	byID map[string]*product.Product
}

func (m *mockProductRepo) List(_ context.Context, _ product.ListFilter) ([]product.Product, int, error) {
	return nil, 0, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) Create(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Update(_ context.Context, _ *product.Product) error { return nil }
func (m *mockProductRepo) Delete(_ context.Context, _ string) error           { return nil }

// --- Helpers ---

func newProductRepo(ids ...string) *mockProductRepo {
	byID := make(map[string]*product.Product, len(ids))
	for _, id := range ids {
		byID[id] = &product.Product{ID: id, Name: "Linen Shirt", Price: decimal.NewFromInt(40)}
	}
	return &mockProductRepo{byID: byID}
}

// --- Tests ---

func TestAdd_Success(t *testing.T) {
	repo := &mockReviewRepo{byUserProd: map[string]*Review{}}
	svc := NewService(repo, newProductRepo("p1"))

	r, err := svc.Add(context.Background(), AddRequest{
		UserID:    "u1",
		ProductID: "p1",
		Rating:    4,
		Comment:   "fits well",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 4, r.Rating)
	require.NotNil(t, repo.created)
	assert.Equal(t, "p1", repo.created.ProductID)
}

func TestAdd_ProductMissing(t *testing.T) {
	repo := &mockReviewRepo{byUserProd: map[string]*Review{}}
	svc := NewService(repo, newProductRepo())

	_, err := svc.Add(context.Background(), AddRequest{
		UserID: "u1", ProductID: "ghost", Rating: 3,
	})
	require.ErrorIs(t, err, product.ErrNotFound)
	assert.Nil(t, repo.created)
}

func TestAdd_Duplicate(t *testing.T) {
	repo := &mockReviewRepo{byUserProd: map[string]*Review{
		upKey("u1", "p1"): {ID: "r1", UserID: "u1", ProductID: "p1", Rating: 5},
	}}
	svc := NewService(repo, newProductRepo("p1"))

	_, err := svc.Add(context.Background(), AddRequest{
		UserID: "u1", ProductID: "p1", Rating: 2,
	})
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Nil(t, repo.created, "a duplicate must create no row")
}

func TestAdd_RatingOutOfRange(t *testing.T) {
	svc := NewService(&mockReviewRepo{byUserProd: map[string]*Review{}}, newProductRepo("p1"))

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Add(context.Background(), AddRequest{
			UserID: "u1", ProductID: "p1", Rating: rating,
		})
		var irErr *InvalidRatingError
		require.ErrorAs(t, err, &irErr)
		assert.Equal(t, rating, irErr.Rating)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := &mockReviewRepo{byID: map[string]*Review{
		"r1": {ID: "r1", UserID: "u1", ProductID: "p1", Rating: 2, Comment: "too tight"},
	}}
	svc := NewService(repo, newProductRepo("p1"))

	// Only the rating changes; the zero-valued comment keeps the old text.
	r, err := svc.Update(context.Background(), UpdateRequest{
		UserID: "u1", ReviewID: "r1", Rating: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "too tight", r.Comment)
	require.NotNil(t, repo.updated)
}

func TestUpdate_NotOwned(t *testing.T) {
	repo := &mockReviewRepo{byID: map[string]*Review{
		"r1": {ID: "r1", UserID: "someone-else", ProductID: "p1", Rating: 3},
	}}
	svc := NewService(repo, newProductRepo("p1"))

	_, err := svc.Update(context.Background(), UpdateRequest{
		UserID: "u1", ReviewID: "r1", Rating: 1,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Success(t *testing.T) {
	repo := &mockReviewRepo{byID: map[string]*Review{
		"r1": {ID: "r1", UserID: "u1", ProductID: "p1", Rating: 4},
	}}
	svc := NewService(repo, newProductRepo("p1"))

	require.NoError(t, svc.Delete(context.Background(), "r1", "u1"))
	assert.Equal(t, "r1", repo.deletedID)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockReviewRepo{byID: map[string]*Review{}}
	svc := NewService(repo, newProductRepo())

	err := svc.Delete(context.Background(), "missing", "u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdd_RepositoryError(t *testing.T) {
	repo := &mockReviewRepo{
		byUserProd: map[string]*Review{},
		writeErr:   errors.New("constraint violation"),
	}
	svc := NewService(repo, newProductRepo("p1"))

	_, err := svc.Add(context.Background(), AddRequest{
		UserID: "u1", ProductID: "p1", Rating: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create review")
}
