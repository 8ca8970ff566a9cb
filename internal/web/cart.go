package web

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/finexpress/storefront/internal/domain/order"
)

// Cookie names shared with the storefront's client-side scripts.
const (
	cartCookie     = "cart"
	discountCookie = "discount"
)

// cartItem is the client-held cart snapshot entry. The cookie stores a
// URL-encoded JSON array of these.
type cartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

func (c cartItem) toOrderItem() order.Item {
	return order.Item{
		ProductID: c.ProductID,
		Name:      c.Name,
		Price:     c.Price,
		Quantity:  c.Quantity,
		Image:     c.Image,
	}
}

// readCart decodes the cart cookie. A missing or malformed cookie yields an
// empty cart rather than an error; the storefront treats both as "nothing
// in the basket".
func readCart(r *http.Request) []cartItem {
	c, err := r.Cookie(cartCookie)
	if err != nil {
		return nil
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}

	var items []cartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}

	valid := items[:0]
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

// cartSubtotal sums price x quantity over the snapshot.
func cartSubtotal(items []cartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// discountCode returns the coupon code the client is carrying, preferring
// an explicit query/form parameter over the discount cookie.
func discountCode(r *http.Request) string {
	if code := r.URL.Query().Get("coupon"); code != "" {
		return code
	}
	if c, err := r.Cookie(discountCookie); err == nil {
		if code, err := url.QueryUnescape(c.Value); err == nil {
			return code
		}
	}
	return ""
}

// clearCartCookies expires the cart and discount cookies after a confirmed
// order.
func clearCartCookies(w http.ResponseWriter) {
	for _, name := range []string{cartCookie, discountCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:   name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}
