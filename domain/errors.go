package domain

import (
	"errors"
	"fmt"

	"storefront/pkg/apperror"
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", apperror.ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", apperror.ErrNotFound)
	ErrCouponNotFound   = fmt.Errorf("coupon %w", apperror.ErrNotFound)
	ErrAddressNotFound  = fmt.Errorf("address %w", apperror.ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("cart item %w", apperror.ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", apperror.ErrNotFound)
)

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateCouponCode = errors.New("coupon code already exists")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrOutOfStock          = errors.New("product out of stock")
)
