package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stylestore/api/internal/domain/product"
)

type productPayload struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Stock         int              `json:"stock" binding:"gte=0"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	IsActive      *bool            `json:"isActive"`
}

type productView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Stock         int              `json:"stock"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	Rating        decimal.Decimal  `json:"rating"`
	ReviewCount   int              `json:"reviewCount"`
	IsActive      bool             `json:"isActive"`
}

func toProductView(p *product.Product) productView {
	v := productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Colors:      p.Colors,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		IsActive:    p.IsActive,
	}
	if !p.OriginalPrice.IsZero() {
		op := p.OriginalPrice
		v.OriginalPrice = &op
	}
	if v.Sizes == nil {
		v.Sizes = []string{}
	}
	if v.Colors == nil {
		v.Colors = []string{}
	}
	return v
}

// ListProducts serves the public catalog with filters and pagination.
func (h *Handler) ListProducts(c *gin.Context) {
	f := product.ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   product.SortBy(c.Query("sortBy")),
	}
	if s := c.Query("minPrice"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "minPrice must be a number")
			return
		}
		f.MinPrice = d
	}
	if s := c.Query("maxPrice"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "maxPrice must be a number")
			return
		}
		f.MaxPrice = d
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "12"))

	products, total, err := h.products.List(c.Request.Context(), f)
	if err != nil {
		respondInternal(c, "failed to load products", err)
		return
	}

	views := make([]productView, len(products))
	for i := range products {
		views[i] = toProductView(&products[i])
	}

	limit := f.Limit
	if limit < 1 {
		limit = 12
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	totalPages := (total + limit - 1) / limit

	respond(c, http.StatusOK, gin.H{
		"count":       total,
		"totalPages":  totalPages,
		"currentPage": page,
		"data":        views,
	})
}

// GetProduct serves one catalog item.
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, "failed to load product", err)
		return
	}

	respond(c, http.StatusOK, gin.H{"data": toProductView(p)})
}

// CreateProduct adds a catalog item. Admin only.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name and a non-negative price are required")
		return
	}
	if req.Price.IsNegative() {
		respondError(c, http.StatusBadRequest, "price must not be negative")
		return
	}

	p := payloadToProduct(&req)
	p.ID = uuid.New().String()

	if err := h.products.Create(c.Request.Context(), p); err != nil {
		respondInternal(c, "failed to create product", err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "product created",
		"data":    toProductView(p),
	})
}

// UpdateProduct rewrites a catalog item. Admin only.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name and a non-negative price are required")
		return
	}
	if req.Price.IsNegative() {
		respondError(c, http.StatusBadRequest, "price must not be negative")
		return
	}

	p := payloadToProduct(&req)
	p.ID = c.Param("id")

	if err := h.products.Update(c.Request.Context(), p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, "failed to update product", err)
		return
	}

	// Reload so derived rating fields appear in the response.
	updated, err := h.products.GetByID(c.Request.Context(), p.ID)
	if err != nil {
		respondInternal(c, "failed to update product", err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "product updated",
		"data":    toProductView(updated),
	})
}

// DeleteProduct removes a catalog item. Admin only. Products referenced by
// order snapshots cannot be removed.
func (h *Handler) DeleteProduct(c *gin.Context) {
	err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			respondError(c, http.StatusNotFound, "product not found")
		case errors.Is(err, product.ErrInUse):
			respondError(c, http.StatusBadRequest, "product is referenced by existing orders")
		default:
			respondInternal(c, "failed to delete product", err)
		}
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "product deleted"})
}

func payloadToProduct(req *productPayload) *product.Product {
	p := &product.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		IsActive:    true,
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = *req.OriginalPrice
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}
