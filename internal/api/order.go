package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finexpress/storefront/internal/domain/order"
)

type orderResponse struct {
	ID             string                `json:"id"`
	OrderNumber    string                `json:"orderNumber"`
	CustomerName   string                `json:"customerName"`
	CustomerEmail  string                `json:"customerEmail"`
	CustomerPhone  string                `json:"customerPhone,omitempty"`
	BillingAddress *order.BillingAddress `json:"billingAddress,omitempty"`
	PaymentMethod  string                `json:"paymentMethod,omitempty"`
	Items          []order.Item          `json:"items"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	Discount       decimal.Decimal       `json:"discount"`
	DiscountCode   string                `json:"discountCode,omitempty"`
	Tax            decimal.Decimal       `json:"tax"`
	GrandTotal     decimal.Decimal       `json:"grandTotal"`
	Status         string                `json:"status"`
	StatusHistory  []order.StatusChange  `json:"statusHistory"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		BillingAddress: o.BillingAddress,
		PaymentMethod:  o.PaymentMethod,
		Items:          o.Items,
		Subtotal:       o.Subtotal,
		Discount:       o.Discount,
		DiscountCode:   o.DiscountCode,
		Tax:            o.Tax,
		GrandTotal:     o.GrandTotal,
		Status:         string(o.Status),
		StatusHistory:  o.StatusHistory,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := order.ListFilter{
		CustomerEmail: q.Get("email"),
		SortBy:        q.Get("sortBy"),
		Descending:    q.Get("order") != "asc",
	}
	if raw := q.Get("status"); raw != "" {
		status, err := order.ParseStatus(raw)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		filter.Status = status
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	page, err := h.orders.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]orderResponse, len(page.Orders))
	for i := range page.Orders {
		out[i] = toOrderResponse(&page.Orders[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  out,
		"pagination": map[string]int{
			"total": page.Total,
			"page":  page.Page,
			"pages": page.Pages,
			"limit": page.Limit,
		},
	})
}

func (h *Handler) handleOrderStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.orders.CountByStatus(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats": map[string]int{
			"total":      counts.Total,
			"placed":     counts.Placed,
			"processing": counts.Processing,
			"delivered":  counts.Delivered,
		},
	})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   toOrderResponse(o),
	})
}

func (h *Handler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	o, err := h.orderSvc.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   toOrderResponse(o),
	})
}

func (h *Handler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "order deleted",
	})
}
