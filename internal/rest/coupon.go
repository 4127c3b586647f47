package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/business/coupon"
	"storefront/domain"
	"storefront/pkg/apperror"

	"github.com/labstack/echo/v4"
)

type CouponService interface {
	Create(ctx context.Context, in coupon.CreateInput) (domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	Delete(ctx context.Context, id uint) error
}

type CouponHandler struct {
	couponService CouponService
	guard         AbuseGuard
	timeout       time.Duration
}

func NewCouponHandler(couponService CouponService, guard AbuseGuard) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		guard:         guard,
		timeout:       defaultTimeout,
	}
}

// CreateCouponRequest accepts dates either as RFC 3339 timestamps or as
// plain YYYY-MM-DD (interpreted as UTC midnight).
type CreateCouponRequest struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discountPercent"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	UsageLimit      int    `json:"usageLimit"`
}

func (h *CouponHandler) FetchAllCoupons(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	coupons, err := h.couponService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"couponList": coupons,
	})
}

func (h *CouponHandler) CreateCoupon(c echo.Context) error {
	var req CreateCouponRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return apperror.Validation("Invalid startDate", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return apperror.Validation("Invalid endDate", err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.guard.Protect(ctx, guardRequest(c, domain.GuardCoupon, "")); err != nil {
		return err
	}

	created, err := h.couponService.Create(ctx, coupon.CreateInput{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		StartDate:       start,
		EndDate:         end,
		UsageLimit:      req.UsageLimit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Coupon created successfully",
		"coupon":  created,
	})
}

func (h *CouponHandler) DeleteCoupon(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.guard.Protect(ctx, guardRequest(c, domain.GuardCoupon, "")); err != nil {
		return err
	}

	if err := h.couponService.Delete(ctx, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Coupon deleted successfully",
		"id":      id,
	})
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}
