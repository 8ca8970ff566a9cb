package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/finexpress/storefront/internal/domain/coupon"
)

// Sentinel errors for checkout validation.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingCustomer = errors.New("customer name and email are required")
)

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for product %s", e.ProductID)
}

// defaultTaxRate is applied when the caller supplies no tax figure.
var defaultTaxRate = decimal.NewFromFloat(0.05)

// clientTotalsTolerance is the largest client/server divergence attributed
// to rounding. Larger gaps are logged, never rejected.
var clientTotalsTolerance = decimal.NewFromInt(1)

var tracer = otel.Tracer("github.com/finexpress/storefront/internal/domain/order")

// Customer identifies who placed the order. Name and email are required.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// ClientTotals carries figures the storefront client computed itself.
// Non-nil values are trusted and persisted as-is; the server-side figures
// are used only to log divergence. This mirrors the storefront's existing
// trust boundary.
type ClientTotals struct {
	Subtotal   *decimal.Decimal
	Tax        *decimal.Decimal
	GrandTotal *decimal.Decimal
}

// PlaceOrderRequest holds the input for the checkout orchestrator.
type PlaceOrderRequest struct {
	Customer      Customer
	Billing       *BillingAddress
	PaymentMethod string
	Items         []Item
	CouponCode    string
	ClientTotals  ClientTotals
}

// PlaceOrderResult identifies the created order. Callers clear their cart
// and discount state on receipt.
type PlaceOrderResult struct {
	OrderID     string
	OrderNumber string
	Order       *Order
}

// Service implements the checkout orchestrator and the order lifecycle
// manager on top of the order repository and the coupon evaluator.
type Service struct {
	orders  Repository
	coupons coupon.Evaluator
	metrics *Metrics
	lg      *zap.Logger
	now     func() time.Time
}

// NewService creates an order Service. metrics may be nil.
func NewService(orders Repository, coupons coupon.Evaluator, metrics *Metrics, lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{
		orders:  orders,
		coupons: coupons,
		metrics: metrics,
		lg:      lg,
		now:     time.Now,
	}
}

// PlaceOrder validates the cart and customer details, prices the order with
// the coupon evaluator, persists it with status Placed, and returns its
// identity. Stock flags are untouched: inventory is managed manually by
// admins.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	ctx, span := tracer.Start(ctx, "PlaceOrder")
	defer span.End()

	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	name := strings.TrimSpace(req.Customer.Name)
	email := strings.ToLower(strings.TrimSpace(req.Customer.Email))
	if name == "" || email == "" {
		return nil, ErrMissingCustomer
	}

	computed := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		computed = computed.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	subtotal := computed
	if req.ClientTotals.Subtotal != nil {
		subtotal = *req.ClientTotals.Subtotal
		if diff := subtotal.Sub(computed).Abs(); diff.GreaterThan(clientTotalsTolerance) {
			s.lg.Warn("client subtotal diverges from server-computed figure",
				zap.String("client", subtotal.String()),
				zap.String("computed", computed.String()),
			)
		}
	}

	// The discount is always a percentage of what the cart actually costs.
	// Client figures are persisted, never priced against.
	quote, err := s.coupons.Evaluate(ctx, computed, req.CouponCode)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate coupon")
	}

	tax := subtotal.Mul(defaultTaxRate).Round(2)
	if req.ClientTotals.Tax != nil {
		tax = *req.ClientTotals.Tax
	}

	grandTotal := subtotal.Sub(quote.DiscountAmount).Add(tax)
	if req.ClientTotals.GrandTotal != nil {
		grandTotal = *req.ClientTotals.GrandTotal
	}

	discountCode := ""
	if quote.Applied {
		discountCode = quote.Code
	}

	now := s.now()
	o := &Order{
		ID:             uuid.New().String(),
		CustomerName:   name,
		CustomerEmail:  email,
		CustomerPhone:  strings.TrimSpace(req.Customer.Phone),
		BillingAddress: req.Billing,
		PaymentMethod:  req.PaymentMethod,
		Items:          req.Items,
		Subtotal:       subtotal,
		Discount:       quote.DiscountAmount,
		DiscountCode:   discountCode,
		Tax:            tax,
		GrandTotal:     grandTotal,
		Status:         StatusPlaced,
		StatusHistory:  []StatusChange{{Status: StatusPlaced, Timestamp: now}},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if quote.Applied {
		// The order is already durable; a failed redemption only skews the
		// coupon's usage counter.
		if err := s.coupons.Redeem(ctx, quote.Code); err != nil {
			s.lg.Warn("redeem coupon", zap.String("code", quote.Code), zap.Error(err))
		}
	}

	span.SetAttributes(attribute.String("order.number", o.OrderNumber))
	s.metrics.recordPlaced(ctx, o)
	s.lg.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("grand_total", o.GrandTotal.String()),
		zap.Int("items", len(o.Items)),
	)

	return &PlaceOrderResult{OrderID: o.ID, OrderNumber: o.OrderNumber, Order: o}, nil
}

// UpdateStatus moves an order one step along the lifecycle. Every transition
// is an explicit administrative action; nothing advances on a timer.
func (s *Service) UpdateStatus(ctx context.Context, id, requested string) (*Order, error) {
	status, err := ParseStatus(requested)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := o.TransitionTo(status, now); err != nil {
		return nil, err
	}
	o.UpdatedAt = now

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	s.lg.Info("order status updated",
		zap.String("order_number", o.OrderNumber),
		zap.String("status", string(o.Status)),
	)
	return o, nil
}
