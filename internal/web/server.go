// Package web serves the public storefront: server-rendered catalog,
// cart, checkout, and order history pages.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finexpress/storefront/internal/domain/coupon"
	"github.com/finexpress/storefront/internal/domain/order"
	"github.com/finexpress/storefront/internal/domain/product"
)

//go:embed templates/*.html
var templateFS embed.FS

// defaultTaxRate mirrors the checkout orchestrator's fallback rate for
// page previews.
var defaultTaxRate = decimal.NewFromFloat(0.05)

// featuredCount is how many in-stock products the home page shows.
const featuredCount = 4

// Server renders the storefront pages.
type Server struct {
	products product.Repository
	orders   order.Repository
	orderSvc *order.Service
	coupons  coupon.Evaluator
	tmpl     *template.Template
}

// NewServer constructs the storefront page server.
func NewServer(
	products product.Repository,
	orders order.Repository,
	orderSvc *order.Service,
	coupons coupon.Evaluator,
) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	return &Server{
		products: products,
		orders:   orders,
		orderSvc: orderSvc,
		coupons:  coupons,
		tmpl:     tmpl,
	}, nil
}

// Register attaches the storefront routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /menu", s.handleMenu)
	mux.HandleFunc("GET /cart", s.handleCart)
	mux.HandleFunc("GET /checkout", s.handleCheckout)
	mux.HandleFunc("GET /order/preview", s.handlePreview)
	mux.HandleFunc("POST /order/confirm", s.handleConfirm)
	mux.HandleFunc("GET /order/success", s.handleSuccess)
	mux.HandleFunc("GET /my-orders", s.handleMyOrders)
	mux.HandleFunc("POST /my-orders", s.handleMyOrders)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		zctx.From(r.Context()).Error("render template",
			zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("storefront page failed", zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	s.render(w, r, "error.html", map[string]any{
		"Message": "Something went wrong. Please try again.",
	})
}

// pricing is the computed cost summary shown on cart, checkout, and
// preview pages.
type pricing struct {
	Items    []cartItem
	Subtotal decimal.Decimal
	Quote    coupon.Quote
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func (s *Server) price(r *http.Request) (pricing, error) {
	items := readCart(r)
	subtotal := cartSubtotal(items)

	quote, err := s.coupons.Evaluate(r.Context(), subtotal, discountCode(r))
	if err != nil {
		return pricing{}, errors.Wrap(err, "evaluate coupon")
	}

	tax := subtotal.Mul(defaultTaxRate).Round(2)
	return pricing{
		Items:    items,
		Subtotal: subtotal,
		Quote:    quote,
		Tax:      tax,
		Total:    subtotal.Sub(quote.DiscountAmount).Add(tax),
	}, nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.List(r.Context(), product.ListFilter{})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	featured := make([]product.Product, 0, featuredCount)
	for _, p := range products {
		if !p.InStock {
			continue
		}
		featured = append(featured, p)
		if len(featured) == featuredCount {
			break
		}
	}

	s.render(w, r, "home.html", map[string]any{
		"Featured": featured,
	})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	products, err := s.products.List(r.Context(), product.ListFilter{Category: category})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	categories, err := s.products.Categories(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.render(w, r, "menu.html", map[string]any{
		"Products":   products,
		"Categories": categories,
		"Selected":   category,
	})
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	p, err := s.price(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "cart.html", p)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	p, err := s.price(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if len(p.Items) == 0 {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	s.render(w, r, "checkout.html", p)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := s.price(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, "preview.html", p)
}

// confirmRequest is the JSON body the checkout page posts.
type confirmRequest struct {
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone"`
	PaymentMethod  string                `json:"paymentMethod"`
	BillingAddress *order.BillingAddress `json:"billingAddress"`
	CouponCode     string                `json:"couponCode"`
	Subtotal       *decimal.Decimal      `json:"subtotal"`
	Tax            *decimal.Decimal      `json:"tax"`
	Total          *decimal.Decimal      `json:"total"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeConfirmError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := readCart(r)
	orderItems := make([]order.Item, len(items))
	for i, item := range items {
		orderItems[i] = item.toOrderItem()
	}

	code := req.CouponCode
	if code == "" {
		code = discountCode(r)
	}

	result, err := s.orderSvc.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		Customer: order.Customer{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		Billing:       req.BillingAddress,
		PaymentMethod: req.PaymentMethod,
		Items:         orderItems,
		CouponCode:    code,
		ClientTotals: order.ClientTotals{
			Subtotal:   req.Subtotal,
			Tax:        req.Tax,
			GrandTotal: req.Total,
		},
	})
	if err != nil {
		status := http.StatusInternalServerError
		var invalidQty *order.InvalidQuantityError
		switch {
		case errors.Is(err, order.ErrEmptyCart),
			errors.Is(err, order.ErrMissingCustomer),
			errors.As(err, &invalidQty):
			status = http.StatusBadRequest
		default:
			zctx.From(r.Context()).Error("confirm order", zap.Error(err))
		}
		writeConfirmError(w, status, userMessage(err, status))
		return
	}

	clearCartCookies(w)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"orderId":     result.OrderID,
		"orderNumber": result.OrderNumber,
	})
}

func writeConfirmError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

func userMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "could not place the order, please try again"
	}
	return err.Error()
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "success.html", map[string]any{
		"OrderNumber": r.URL.Query().Get("number"),
	})
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err == nil {
			email = r.PostFormValue("email")
		}
	}

	data := map[string]any{"Email": email}
	if email != "" {
		page, err := s.orders.List(r.Context(), order.ListFilter{
			CustomerEmail: email,
			Limit:         50,
			Descending:    true,
		})
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		data["Orders"] = page.Orders
		data["Searched"] = true
	}

	s.render(w, r, "myorders.html", data)
}
