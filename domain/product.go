package domain

import (
	"time"

	"storefront/pkg/money"

	"github.com/lib/pq"
)

// CREATE TABLE public.products (
//     id          BIGSERIAL PRIMARY KEY,
//     name        TEXT NOT NULL,
//     brand       TEXT NOT NULL,
//     description TEXT,
//     category    TEXT NOT NULL,
//     gender      TEXT NOT NULL,
//     sizes       TEXT[],
//     colors      TEXT[],
//     price       BIGINT NOT NULL,   -- cents
//     stock       INTEGER NOT NULL,
//     images      TEXT[],
//     sold_count  INTEGER DEFAULT 0,
//     rating      NUMERIC DEFAULT 0,
//     created_at  TIMESTAMPTZ,
//     updated_at  TIMESTAMPTZ
// );

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Brand       string         `gorm:"column:brand;index;not null" json:"brand"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Category    string         `gorm:"column:category;index;not null" json:"category"`
	Gender      string         `gorm:"column:gender;not null" json:"gender"`
	Sizes       pq.StringArray `gorm:"column:sizes;type:text[]" json:"sizes"`
	Colors      pq.StringArray `gorm:"column:colors;type:text[]" json:"colors"`
	Price       money.Money    `gorm:"column:price;type:bigint;not null" json:"price"`
	Stock       int            `gorm:"column:stock;not null" json:"stock"`
	Images      pq.StringArray `gorm:"column:images;type:text[]" json:"images"`
	SoldCount   int            `gorm:"column:sold_count;default:0" json:"soldCount"`
	Rating      float64        `gorm:"column:rating;default:0" json:"rating"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter is the client listing query.
type ProductFilter struct {
	Page       int
	Limit      int
	Categories []string
	Brands     []string
	Sizes      []string
	Colors     []string
	MinPrice   *money.Money
	MaxPrice   *money.Money
	SortBy     string
	SortOrder  string
}

type ProductPage struct {
	Products      []Product `json:"products"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalProducts int64     `json:"totalProducts"`
}
