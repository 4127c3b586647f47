package domain

import "time"

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"userId"`
	ProductID uint      `gorm:"column:product_id;not null" json:"productId"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	Size      string    `gorm:"column:size" json:"size"`
	Color     string    `gorm:"column:color" json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart item joined with its product at read time.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}
