package domain

import "time"

type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"column:user_id;index;not null" json:"userId"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Address    string    `gorm:"column:address;not null" json:"address"`
	City       string    `gorm:"column:city;not null" json:"city"`
	Country    string    `gorm:"column:country;not null" json:"country"`
	PostalCode string    `gorm:"column:postal_code;not null" json:"postalCode"`
	Phone      string    `gorm:"column:phone;not null" json:"phone"`
	IsDefault  bool      `gorm:"column:is_default;default:false" json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Address) TableName() string {
	return "addresses"
}
