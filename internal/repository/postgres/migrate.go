package postgres

import (
	"storefront/domain"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the storefront owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Coupon{},
		&domain.Address{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
	)
}
