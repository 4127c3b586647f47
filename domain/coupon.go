package domain

import "time"

type Coupon struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"column:code;uniqueIndex;not null" json:"code"`
	DiscountPercent int       `gorm:"column:discount_percent;not null" json:"discountPercent"`
	StartDate       time.Time `gorm:"column:start_date;not null" json:"startDate"`
	EndDate         time.Time `gorm:"column:end_date;not null" json:"endDate"`
	UsageLimit      int       `gorm:"column:usage_limit;not null" json:"usageLimit"`
	UsageCount      int       `gorm:"column:usage_count;not null;default:0" json:"usageCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (Coupon) TableName() string {
	return "coupons"
}
