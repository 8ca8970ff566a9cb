package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finexpress/storefront/internal/domain/coupon"
	"github.com/finexpress/storefront/internal/domain/order"
	"github.com/finexpress/storefront/internal/domain/product"
)

type stubProductRepo struct {
	products []product.Product
}

func (s *stubProductRepo) List(_ context.Context, filter product.ListFilter) ([]product.Product, error) {
	if filter.Category == "" {
		return s.products, nil
	}
	var out []product.Product
	for _, p := range s.products {
		if p.Category == filter.Category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, product.ErrNotFound
}

func (s *stubProductRepo) Create(context.Context, *product.Product) error { return nil }

func (s *stubProductRepo) Update(context.Context, string, product.Update) (*product.Product, error) {
	return nil, product.ErrNotFound
}

func (s *stubProductRepo) Delete(context.Context, string) error { return nil }

func (s *stubProductRepo) CountByStock(context.Context) (product.StockCounts, error) {
	return product.StockCounts{}, nil
}

func (s *stubProductRepo) Categories(context.Context) ([]string, error) {
	return []string{"books"}, nil
}

type stubOrderRepo struct {
	created []*order.Order
	seq     int64
}

func (s *stubOrderRepo) Create(_ context.Context, o *order.Order) error {
	s.seq++
	o.OrderNumber = order.FormatOrderNumber(s.seq)
	cp := *o
	s.created = append(s.created, &cp)
	return nil
}

func (s *stubOrderRepo) GetByID(context.Context, string) (*order.Order, error) {
	return nil, order.ErrNotFound
}

func (s *stubOrderRepo) List(_ context.Context, filter order.ListFilter) (order.Page, error) {
	var out []order.Order
	for _, o := range s.created {
		if filter.CustomerEmail == "" || o.CustomerEmail == strings.ToLower(filter.CustomerEmail) {
			out = append(out, *o)
		}
	}
	return order.Page{Orders: out, Total: len(out), Page: 1, Pages: 1, Limit: 50}, nil
}

func (s *stubOrderRepo) Update(context.Context, *order.Order) error { return nil }
func (s *stubOrderRepo) Delete(context.Context, string) error       { return nil }

func (s *stubOrderRepo) CountByStatus(context.Context) (order.StatusCounts, error) {
	return order.StatusCounts{}, nil
}

func (s *stubOrderRepo) TotalRevenue(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubOrderRepo) ListRecent(context.Context, int) ([]order.Order, error) {
	return nil, nil
}

type ruleEvaluator struct {
	rules map[string]*coupon.Rule
}

func (e ruleEvaluator) Evaluate(_ context.Context, subtotal decimal.Decimal, code string) (coupon.Quote, error) {
	return coupon.QuoteRule(e.rules[strings.ToUpper(code)], subtotal, code), nil
}

func (e ruleEvaluator) Redeem(context.Context, string) error { return nil }

func newTestServer(t *testing.T) (*Server, *stubOrderRepo) {
	t.Helper()

	products := &stubProductRepo{products: []product.Product{
		{ID: "p1", Name: "Ledger", Price: decimal.NewFromInt(50), Category: "books", InStock: true},
		{ID: "p2", Name: "Abacus", Price: decimal.NewFromInt(30), Category: "tools", InStock: false},
	}}
	orders := &stubOrderRepo{}
	eval := ruleEvaluator{rules: map[string]*coupon.Rule{
		"SAVE10": {Code: "SAVE10", Percentage: decimal.NewFromInt(10)},
	}}

	srv, err := NewServer(products, orders, order.NewService(orders, eval, nil, nil), eval)
	require.NoError(t, err)
	return srv, orders
}

func cartCookieValue(t *testing.T, items []cartItem) string {
	t.Helper()
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	return url.QueryEscape(string(raw))
}

func TestHome_ShowsInStockProducts(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ledger")
	assert.NotContains(t, w.Body.String(), "Abacus", "out-of-stock products are not featured")
}

func TestMenu_CategoryFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu?category=books", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ledger")
	assert.NotContains(t, w.Body.String(), "Abacus")
}

func TestCart_AppliesCoupon(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	items := []cartItem{{ProductID: "p1", Name: "Ledger", Price: decimal.NewFromInt(50), Quantity: 2}}
	req := httptest.NewRequest(http.MethodGet, "/cart?coupon=save10", nil)
	req.AddCookie(&http.Cookie{Name: "cart", Value: cartCookieValue(t, items)})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "SAVE10")
	assert.Contains(t, body, "-10", "10% of 100")
}

func TestCart_EmptyCart(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your cart is empty")
}

func TestCheckout_RedirectsWhenEmpty(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/checkout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))
}

func TestConfirm_PlacesOrderAndClearsCart(t *testing.T) {
	srv, orders := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	items := []cartItem{{ProductID: "p1", Name: "Ledger", Price: decimal.NewFromInt(50), Quantity: 2}}
	req := httptest.NewRequest(http.MethodPost, "/order/confirm",
		strings.NewReader(`{"name":"Ada","email":"Ada@Example.com","couponCode":"SAVE10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart", Value: cartCookieValue(t, items)})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "ORD-000001", resp["orderNumber"])

	require.Len(t, orders.created, 1)
	placed := orders.created[0]
	assert.Equal(t, "ada@example.com", placed.CustomerEmail)
	assert.True(t, placed.Discount.Equal(decimal.NewFromInt(10)))

	cleared := map[string]bool{}
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	assert.True(t, cleared["cart"], "cart cookie cleared")
	assert.True(t, cleared["discount"], "discount cookie cleared")
}

func TestConfirm_EmptyCart(t *testing.T) {
	srv, _ := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/order/confirm",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyOrders_FindsByEmail(t *testing.T) {
	srv, orders := newTestServer(t)
	mux := http.NewServeMux()
	srv.Register(mux)

	orders.created = append(orders.created, &order.Order{
		OrderNumber:   "ORD-000007",
		CustomerEmail: "ada@example.com",
		GrandTotal:    decimal.NewFromInt(95),
		Status:        order.StatusPlaced,
	})

	form := url.Values{"email": {"ada@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/my-orders", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ORD-000007")
}
