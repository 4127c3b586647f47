package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"
	"storefront/pkg/money"
)

const SessionTTL = 30 * time.Minute

var (
	ErrUnauthenticated = apperror.Auth("Unauthenticated user", nil)
	ErrNoAddress       = apperror.Validation("Please select a delivery address", nil)
	ErrEmptyCart       = apperror.Validation("Your cart is empty", nil)
	ErrSessionNotFound = apperror.NotFound("Checkout session not found or expired", nil)
)

type CartRepository interface {
	FindLines(ctx context.Context, userID uint) ([]domain.CartLine, error)
}

type AddressRepository interface {
	FindByIDForUser(ctx context.Context, id, userID uint) (domain.Address, error)
}

type CouponApplier interface {
	Apply(ctx context.Context, code string) (domain.Coupon, error)
}

type AbuseGuard interface {
	Protect(ctx context.Context, req domain.GuardRequest) error
}

type PaymentProvider interface {
	CreateOrder(ctx context.Context, total money.Money, referenceID string) (string, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (domain.PaymentCapture, error)
}

type SessionStore interface {
	Save(ctx context.Context, session domain.CheckoutSession, ttl time.Duration) error
	Get(ctx context.Context, providerOrderID string) (domain.CheckoutSession, error)
	Delete(ctx context.Context, providerOrderID string) error
}

// OrderWriter persists a captured order. PlaceOrder inserts the order and its
// items, consumes one coupon use, moves stock into sold count and clears the
// user's cart in one transaction.
type OrderWriter interface {
	PlaceOrder(ctx context.Context, order *domain.Order) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

type PrepareInput struct {
	UserID     uint
	AddressID  uint
	CouponCode string
	Email      string
	ClientIP   string
	UserAgent  string
}

type PrepareResult struct {
	ProviderOrderID string        `json:"orderId"`
	Totals          domain.Totals `json:"totals"`
}

type checkoutService struct {
	cartRepo    CartRepository
	addressRepo AddressRepository
	coupons     CouponApplier
	guard       AbuseGuard
	provider    PaymentProvider
	sessions    SessionStore
	orders      OrderWriter
	notifRepo   NotificationRepository
	now         func() time.Time
}

func NewCheckoutService(
	cartRepo CartRepository,
	addressRepo AddressRepository,
	coupons CouponApplier,
	guard AbuseGuard,
	provider PaymentProvider,
	sessions SessionStore,
	orders OrderWriter,
	notifRepo NotificationRepository,
) *checkoutService {
	return &checkoutService{
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		coupons:     coupons,
		guard:       guard,
		provider:    provider,
		sessions:    sessions,
		orders:      orders,
		notifRepo:   notifRepo,
		now:         time.Now,
	}
}

// Quote prices the user's current cart without side effects.
func (s *checkoutService) Quote(ctx context.Context, userID uint, couponCode string) (domain.Totals, error) {
	if userID == 0 {
		return domain.Totals{}, ErrUnauthenticated
	}

	items, err := s.snapshot(ctx, userID)
	if err != nil {
		return domain.Totals{}, err
	}

	c, err := s.applyCoupon(ctx, couponCode)
	if err != nil {
		return domain.Totals{}, err
	}

	return CalculateTotals(items, c.DiscountPercent), nil
}

// Prepare validates the checkout and opens a provider order for the total.
// Nothing is written to the database until Capture.
func (s *checkoutService) Prepare(ctx context.Context, in PrepareInput) (PrepareResult, error) {
	if in.UserID == 0 {
		return PrepareResult{}, ErrUnauthenticated
	}

	if in.AddressID == 0 {
		return PrepareResult{}, ErrNoAddress
	}
	if _, err := s.addressRepo.FindByIDForUser(ctx, in.AddressID, in.UserID); err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			return PrepareResult{}, ErrNoAddress
		}
		return PrepareResult{}, err
	}

	if err := s.guard.Protect(ctx, domain.GuardRequest{
		Rule:      domain.GuardPrePayment,
		ClientIP:  in.ClientIP,
		UserAgent: in.UserAgent,
		Email:     in.Email,
	}); err != nil {
		metrics.CheckoutTotal.WithLabelValues("prepare", "guard_denied").Inc()
		return PrepareResult{}, err
	}

	items, err := s.snapshot(ctx, in.UserID)
	if err != nil {
		return PrepareResult{}, err
	}

	c, err := s.applyCoupon(ctx, in.CouponCode)
	if err != nil {
		return PrepareResult{}, err
	}

	totals := CalculateTotals(items, c.DiscountPercent)
	if totals.Total <= 0 {
		return PrepareResult{}, apperror.Validation("Order total must be greater than zero", nil)
	}

	providerOrderID, err := s.provider.CreateOrder(ctx, totals.Total, fmt.Sprintf("user-%d", in.UserID))
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("prepare", "provider_error").Inc()
		logger.Error("Failed to create provider order", "user_id", in.UserID, "error", err)
		return PrepareResult{}, apperror.Upstream(http.StatusBadGateway, "Failed to create payment order", err)
	}

	session := domain.CheckoutSession{
		ProviderOrderID: providerOrderID,
		UserID:          in.UserID,
		AddressID:       in.AddressID,
		Email:           strings.TrimSpace(in.Email),
		Items:           items,
		Totals:          totals,
		CreatedAt:       s.now().UTC(),
	}
	if c.ID != 0 {
		id := c.ID
		session.CouponID = &id
		session.CouponCode = c.Code
	}

	if err := s.sessions.Save(ctx, session, SessionTTL); err != nil {
		logger.Error("Failed to save checkout session", "provider_order_id", providerOrderID, "error", err)
		return PrepareResult{}, err
	}

	metrics.CheckoutTotal.WithLabelValues("prepare", "ok").Inc()
	return PrepareResult{ProviderOrderID: providerOrderID, Totals: totals}, nil
}

// Capture finalizes an approved provider order and records it. A failed
// capture leaves the cart untouched. If the order cannot be written after
// money moved, the capture id is logged for manual reconciliation.
func (s *checkoutService) Capture(ctx context.Context, userID uint, providerOrderID string) (domain.Order, error) {
	if userID == 0 {
		return domain.Order{}, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return domain.Order{}, ErrSessionNotFound
		}
		return domain.Order{}, err
	}
	if session.UserID != userID {
		return domain.Order{}, ErrSessionNotFound
	}

	// The coupon may have been used up since Prepare. Check again before
	// any money moves.
	if session.CouponCode != "" {
		if _, err := s.coupons.Apply(ctx, session.CouponCode); err != nil {
			metrics.CheckoutTotal.WithLabelValues("capture", "coupon_rejected").Inc()
			return domain.Order{}, err
		}
	}

	capture, err := s.provider.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("capture", "provider_error").Inc()
		logger.Error("Failed to capture payment", "provider_order_id", providerOrderID, "error", err)
		return domain.Order{}, apperror.Upstream(http.StatusBadGateway, "Payment capture failed", err)
	}
	if capture.Status != string(domain.PaymentCompleted) {
		metrics.CheckoutTotal.WithLabelValues("capture", "not_completed").Inc()
		return domain.Order{}, apperror.Upstream(http.StatusPaymentRequired, "Payment was not completed", fmt.Errorf("capture status %s", capture.Status))
	}

	order := domain.Order{
		UserID:          session.UserID,
		AddressID:       session.AddressID,
		Items:           session.Items,
		CouponID:        session.CouponID,
		Subtotal:        session.Totals.Subtotal,
		Discount:        session.Totals.Discount,
		Total:           session.Totals.Total,
		PaymentMethod:   domain.PaymentMethodCreditCard,
		PaymentStatus:   domain.PaymentCompleted,
		PaymentID:       capture.CaptureID,
		ProviderOrderID: providerOrderID,
		PaymentDetails:  capture.Raw,
	}

	if err := s.orders.PlaceOrder(ctx, &order); err != nil {
		metrics.CheckoutTotal.WithLabelValues("capture", "persist_failed").Inc()
		logger.Error("Payment captured but order was not saved",
			"provider_order_id", providerOrderID,
			"payment_id", capture.CaptureID,
			"user_id", userID,
			"total", order.Total.String(),
			"error", err,
		)
		if errors.Is(err, domain.ErrCouponExhausted) || errors.Is(err, domain.ErrOutOfStock) {
			return domain.Order{}, apperror.Validation("Your order could not be completed, please contact support", err)
		}
		return domain.Order{}, err
	}

	if err := s.sessions.Delete(ctx, providerOrderID); err != nil {
		logger.Warn("Failed to delete checkout session", "provider_order_id", providerOrderID, "error", err)
	}

	if session.Email != "" {
		if err := s.notifRepo.SendEmail(session.Email, session.Email, SubjectOrderConfirmed, orderConfirmationBody(order)); err != nil {
			logger.Warn("Failed to send order confirmation email", "order_id", order.ID, "error", err)
		}
	}

	metrics.CheckoutTotal.WithLabelValues("capture", "ok").Inc()
	logger.Info("Order placed", "order_id", order.ID, "user_id", userID, "total", order.Total.String())
	return order, nil
}

func (s *checkoutService) snapshot(ctx context.Context, userID uint) ([]domain.OrderItem, error) {
	lines, err := s.cartRepo.FindLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > l.Product.Stock {
			return nil, apperror.Validation(fmt.Sprintf("Not enough stock for %s", l.Product.Name), nil)
		}
		items = append(items, domain.OrderItem{
			ProductID:       l.ProductID,
			ProductName:     l.Product.Name,
			ProductCategory: l.Product.Category,
			Price:           l.Product.Price,
			Quantity:        l.Quantity,
			Size:            l.Size,
			Color:           l.Color,
		})
	}
	return items, nil
}

func (s *checkoutService) applyCoupon(ctx context.Context, code string) (domain.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return domain.Coupon{}, nil
	}
	return s.coupons.Apply(ctx, code)
}
