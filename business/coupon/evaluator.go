package coupon

import (
	"errors"
	"strings"
	"time"

	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/metrics"
)

var (
	ErrCodeNotFound = errors.New("coupon code not found")
	ErrOutOfWindow  = errors.New("coupon is outside its validity window")
	ErrLimitReached = errors.New("coupon usage limit reached")
)

// Evaluate finds code in catalog and returns its discount percent. The first
// coupon with a matching code wins, so callers pass the catalog in creation
// order. A spent coupon reports ErrLimitReached even when it is also out of
// its window.
func Evaluate(code string, catalog []domain.Coupon, now time.Time) (domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Coupon{}, ErrCodeNotFound
	}

	for _, c := range catalog {
		if c.Code != code {
			continue
		}
		if c.UsageCount >= c.UsageLimit {
			return domain.Coupon{}, ErrLimitReached
		}
		if !InWindow(c, now) {
			return domain.Coupon{}, ErrOutOfWindow
		}
		return c, nil
	}

	return domain.Coupon{}, ErrCodeNotFound
}

// InWindow reports whether now falls in [StartDate, EndDate).
func InWindow(c domain.Coupon, now time.Time) bool {
	return !now.Before(c.StartDate) && now.Before(c.EndDate)
}

// Reject converts an evaluation failure into the client facing error and
// counts it.
func Reject(err error) error {
	switch {
	case errors.Is(err, ErrCodeNotFound):
		metrics.CouponRejections.WithLabelValues("not_found").Inc()
		return apperror.Validation("Invalid Coupon code", err)
	case errors.Is(err, ErrOutOfWindow):
		metrics.CouponRejections.WithLabelValues("out_of_window").Inc()
		return apperror.Validation("Coupon is not valid in this time or expired coupon", err)
	case errors.Is(err, ErrLimitReached):
		metrics.CouponRejections.WithLabelValues("limit_reached").Inc()
		return apperror.Validation("Coupon has reached its usage limit! Please try a diff coupon", err)
	}
	return err
}
