package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/stylestore/api/internal/domain/product"
	"github.com/stylestore/api/internal/domain/review"
)

type addReviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	ProductID string    `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReviewView(r *review.Review) reviewView {
	return reviewView{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// ListProductReviews serves a product's reviews, newest first. Public.
func (h *Handler) ListProductReviews(c *gin.Context) {
	reviews, err := h.reviews.ListByProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondInternal(c, "failed to load reviews", err)
		return
	}

	views := make([]reviewView, len(reviews))
	for i := range reviews {
		views[i] = toReviewView(&reviews[i])
	}

	respond(c, http.StatusOK, gin.H{"count": len(views), "data": views})
}

// AddReview creates the caller's review for a product and folds it into the
// product's rating.
func (h *Handler) AddReview(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId and rating are required")
		return
	}

	r, err := h.reviews.Add(c.Request.Context(), review.AddRequest{
		UserID:    currentUserID(c),
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		var rErr *review.InvalidRatingError
		switch {
		case errors.As(err, &rErr):
			respondError(c, http.StatusBadRequest, rErr.Error())
		case errors.Is(err, product.ErrNotFound):
			respondError(c, http.StatusNotFound, "product not found")
		case errors.Is(err, review.ErrDuplicate):
			respondError(c, http.StatusBadRequest, "you have already reviewed this product")
		default:
			respondInternal(c, "failed to add review", err)
		}
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "review added",
		"data":    toReviewView(r),
	})
}

// UpdateReview edits the caller's own review.
func (h *Handler) UpdateReview(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid review payload")
		return
	}

	r, err := h.reviews.Update(c.Request.Context(), review.UpdateRequest{
		UserID:   currentUserID(c),
		ReviewID: c.Param("id"),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		var rErr *review.InvalidRatingError
		switch {
		case errors.As(err, &rErr):
			respondError(c, http.StatusBadRequest, rErr.Error())
		case errors.Is(err, review.ErrNotFound):
			respondError(c, http.StatusNotFound, "review not found")
		default:
			respondInternal(c, "failed to update review", err)
		}
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "review updated",
		"data":    toReviewView(r),
	})
}

// DeleteReview removes the caller's own review.
func (h *Handler) DeleteReview(c *gin.Context) {
	err := h.reviews.Delete(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, review.ErrNotFound) {
			respondError(c, http.StatusNotFound, "review not found")
			return
		}
		respondInternal(c, "failed to delete review", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "review deleted"})
}
