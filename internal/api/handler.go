// Package api implements the admin REST API over net/http.
package api

import (
	"net/http"
	"time"

	"github.com/finexpress/storefront/internal/domain/admin"
	"github.com/finexpress/storefront/internal/domain/dashboard"
	"github.com/finexpress/storefront/internal/domain/order"
	"github.com/finexpress/storefront/internal/domain/product"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// SessionTTL controls the adminToken cookie lifetime.
	SessionTTL time.Duration
	// SecureCookies marks session cookies Secure. Disable for local
	// plain-HTTP development only.
	SecureCookies bool
}

// Handler serves the admin REST API, delegating business logic to the
// injected domain services and repositories.
type Handler struct {
	cfg       HandlerConfig
	products  product.Repository
	orders    order.Repository
	orderSvc  *order.Service
	admins    *admin.Service
	dashboard *dashboard.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	products product.Repository,
	orders order.Repository,
	orderSvc *order.Service,
	admins *admin.Service,
	dash *dashboard.Service,
) *Handler {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	return &Handler{
		cfg:       cfg,
		products:  products,
		orders:    orders,
		orderSvc:  orderSvc,
		admins:    admins,
		dashboard: dash,
	}
}

// Register attaches all admin API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/register", h.handleRegister)
	mux.HandleFunc("POST /api/admin/login", h.handleLogin)
	mux.HandleFunc("POST /api/admin/logout", h.handleLogout)
	mux.HandleFunc("GET /api/admin/profile", h.requireAuth(h.handleProfile))
	mux.HandleFunc("PUT /api/admin/password", h.requireAuth(h.handleChangePassword))

	mux.HandleFunc("GET /api/admin/dashboard", h.requireManager(h.handleDashboard))

	mux.HandleFunc("GET /api/admin/products", h.requireManager(h.handleListProducts))
	mux.HandleFunc("POST /api/admin/products", h.requireManager(h.handleCreateProduct))
	mux.HandleFunc("GET /api/admin/products/{id}", h.requireManager(h.handleGetProduct))
	mux.HandleFunc("PUT /api/admin/products/{id}", h.requireManager(h.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/admin/products/{id}", h.requireManager(h.handleDeleteProduct))

	mux.HandleFunc("GET /api/admin/orders", h.requireManager(h.handleListOrders))
	mux.HandleFunc("GET /api/admin/orders/stats", h.requireManager(h.handleOrderStats))
	mux.HandleFunc("GET /api/admin/orders/{id}", h.requireManager(h.handleGetOrder))
	mux.HandleFunc("PATCH /api/admin/orders/{id}/status", h.requireManager(h.handleUpdateOrderStatus))
	mux.HandleFunc("DELETE /api/admin/orders/{id}", h.requireManager(h.handleDeleteOrder))
}
