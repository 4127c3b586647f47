package domain

import (
	"time"

	"storefront/pkg/money"
)

type Totals struct {
	Subtotal        money.Money `json:"subtotal"`
	DiscountPercent int         `json:"discountPercent"`
	Discount        money.Money `json:"discount"`
	Total           money.Money `json:"total"`
}

// CheckoutSession is held between provider order creation and capture.
type CheckoutSession struct {
	ProviderOrderID string      `json:"providerOrderId"`
	UserID          uint        `json:"userId"`
	AddressID       uint        `json:"addressId"`
	CouponID        *uint       `json:"couponId,omitempty"`
	CouponCode      string      `json:"couponCode,omitempty"`
	Email           string      `json:"email"`
	Items           []OrderItem `json:"items"`
	Totals          Totals      `json:"totals"`
	CreatedAt       time.Time   `json:"createdAt"`
}
