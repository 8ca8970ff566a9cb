package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finexpress/storefront/internal/domain/product"
)

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	InStock     bool            `json:"inStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := product.ListFilter{
		Query:    q.Get("search"),
		Category: q.Get("category"),
	}
	if raw := q.Get("minPrice"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := q.Get("maxPrice"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &v
		}
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": out,
		"count":    len(out),
	})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": toProductResponse(p),
	})
}

type productRequest struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
	InStock     *bool            `json:"inStock"`
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	now := time.Now()
	p := &product.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}

	if err := p.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"product": toProductResponse(p),
	})
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string          `json:"name"`
		Price       *decimal.Decimal `json:"price"`
		Category    *string          `json:"category"`
		Image       *string          `json:"image"`
		Description *string          `json:"description"`
		InStock     *bool            `json:"inStock"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	p, err := h.products.Update(r.Context(), r.PathValue("id"), product.Update{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
		InStock:     req.InStock,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": toProductResponse(p),
	})
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "product deleted",
	})
}
