package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

type recentOrderResponse struct {
	ID           string          `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	CustomerName string          `json:"customerName"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	Status       string          `json:"status"`
	ItemCount    int             `json:"itemCount"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	recent := make([]recentOrderResponse, len(stats.RecentOrders))
	for i, o := range stats.RecentOrders {
		recent[i] = recentOrderResponse{
			ID:           o.ID,
			OrderNumber:  o.OrderNumber,
			CustomerName: o.CustomerName,
			GrandTotal:   o.GrandTotal,
			Status:       string(o.Status),
			ItemCount:    o.ItemCount,
			CreatedAt:    o.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats": map[string]any{
			"products": map[string]int{
				"total":      stats.Products.Total,
				"active":     stats.Products.InStock,
				"outOfStock": stats.Products.OutOfStock,
			},
			"orders": map[string]int{
				"total":      stats.Orders.Total,
				"placed":     stats.Orders.Placed,
				"processing": stats.Orders.Processing,
				"delivered":  stats.Orders.Delivered,
			},
			"revenue": map[string]any{
				"total": stats.TotalRevenue,
			},
			"recentOrders": recent,
		},
	})
}
