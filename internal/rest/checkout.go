package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/business/checkout"
	"storefront/domain"
	"storefront/internal/middleware"
	"storefront/pkg/apperror"

	"github.com/labstack/echo/v4"
)

type CheckoutService interface {
	Quote(ctx context.Context, userID uint, couponCode string) (domain.Totals, error)
	Prepare(ctx context.Context, in checkout.PrepareInput) (checkout.PrepareResult, error)
	Capture(ctx context.Context, userID uint, providerOrderID string) (domain.Order, error)
}

type CheckoutHandler struct {
	checkoutService CheckoutService
	timeout         time.Duration
}

func NewCheckoutHandler(checkoutService CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		timeout:         20 * time.Second,
	}
}

type QuoteRequest struct {
	CouponCode string `json:"couponCode"`
}

type CreateOrderRequest struct {
	AddressID  uint   `json:"addressId"`
	CouponCode string `json:"couponCode"`
	Email      string `json:"email"`
}

type CaptureOrderRequest struct {
	OrderID string `json:"orderId"`
}

func (h *CheckoutHandler) Quote(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req QuoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	totals, err := h.checkoutService.Quote(ctx, userID, req.CouponCode)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"totals":  totals,
	})
}

// CreateOrder opens a provider order for the caller's cart. The checkout email
// defaults to the account email.
func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = middleware.Email(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.checkoutService.Prepare(ctx, checkout.PrepareInput{
		UserID:     userID,
		AddressID:  req.AddressID,
		CouponCode: req.CouponCode,
		Email:      email,
		ClientIP:   c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orderId": res.ProviderOrderID,
		"totals":  res.Totals,
	})
}

func (h *CheckoutHandler) CaptureOrder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CaptureOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return apperror.Validation("orderId is required", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.checkoutService.Capture(ctx, userID, strings.TrimSpace(req.OrderID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Order placed successfully",
		"order":   order,
	})
}
