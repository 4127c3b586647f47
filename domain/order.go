package domain

import (
	"time"

	"storefront/pkg/money"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

const PaymentMethodCreditCard = "CREDIT_CARD"

type Order struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"column:user_id;index;not null" json:"userId"`
	AddressID       uint           `gorm:"column:address_id;not null" json:"addressId"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	CouponID        *uint          `gorm:"column:coupon_id" json:"couponId,omitempty"`
	Subtotal        money.Money    `gorm:"column:subtotal;type:bigint;not null" json:"subtotal"`
	Discount        money.Money    `gorm:"column:discount;type:bigint;not null" json:"discount"`
	Total           money.Money    `gorm:"column:total;type:bigint;not null" json:"total"`
	PaymentMethod   string         `gorm:"column:payment_method;not null" json:"paymentMethod"`
	PaymentStatus   PaymentStatus  `gorm:"column:payment_status;type:text;not null" json:"paymentStatus"`
	PaymentID       string         `gorm:"column:payment_id" json:"paymentId"`
	ProviderOrderID string         `gorm:"column:provider_order_id;uniqueIndex" json:"providerOrderId"`
	PaymentDetails  datatypes.JSON `gorm:"column:payment_details;type:jsonb" json:"-"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a denormalized snapshot of the product at purchase time.
type OrderItem struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderID         uint        `gorm:"column:order_id;index;not null" json:"orderId"`
	ProductID       uint        `gorm:"column:product_id;not null" json:"productId"`
	ProductName     string      `gorm:"column:product_name;not null" json:"productName"`
	ProductCategory string      `gorm:"column:product_category" json:"productCategory"`
	Price           money.Money `gorm:"column:price;type:bigint;not null" json:"price"`
	Quantity        int         `gorm:"column:quantity;not null" json:"quantity"`
	Size            string      `gorm:"column:size" json:"size"`
	Color           string      `gorm:"column:color" json:"color"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
