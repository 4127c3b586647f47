package rest

import (
	"net/http"
	"testing"
	"time"

	"storefront/business/coupon"
	"storefront/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateCouponAcceptsPlainDates(t *testing.T) {
	coupons := new(MockCouponService)
	guard := new(MockGuard)
	h := NewCouponHandler(coupons, guard)

	guard.On("Protect", mock.Anything, mock.MatchedBy(func(r domain.GuardRequest) bool {
		return r.Rule == domain.GuardCoupon
	})).Return(nil)
	coupons.On("Create", mock.Anything, coupon.CreateInput{
		Code:            "SAVE20",
		DiscountPercent: 20,
		StartDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		UsageLimit:      5,
	}).Return(domain.Coupon{ID: 1, Code: "SAVE20"}, nil)

	c, rec := newContext(http.MethodPost, "/api/coupons/create-coupon",
		`{"code":"SAVE20","discountPercent":20,"startDate":"2026-01-01","endDate":"2026-02-01T00:00:00Z","usageLimit":5}`)
	require.NoError(t, h.CreateCoupon(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	coupons.AssertExpectations(t)
}

func TestCreateCouponBadDate(t *testing.T) {
	coupons := new(MockCouponService)
	h := NewCouponHandler(coupons, new(MockGuard))

	c, rec := newContext(http.MethodPost, "/api/coupons/create-coupon",
		`{"code":"SAVE20","discountPercent":20,"startDate":"soon","endDate":"2026-02-01","usageLimit":5}`)
	render(c, h.CreateCoupon(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid startDate")
}

func TestFetchAllCoupons(t *testing.T) {
	coupons := new(MockCouponService)
	h := NewCouponHandler(coupons, new(MockGuard))
	coupons.On("List", mock.Anything).Return([]domain.Coupon{{ID: 1, Code: "A"}, {ID: 2, Code: "B"}}, nil)

	c, rec := newContext(http.MethodGet, "/api/coupons", "")
	require.NoError(t, h.FetchAllCoupons(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"couponList"`)
}
