package postgres

import (
	"context"
	"errors"
	"fmt"

	"storefront/domain"

	"gorm.io/gorm"
)

type CouponRepository struct {
	DB *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{
		DB: db,
	}
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCouponCode
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

func (r *CouponRepository) FindAll(ctx context.Context) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to find coupons: %w", err)
	}

	return coupons, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id uint) (domain.Coupon, error) {
	var c domain.Coupon

	err := r.DB.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Coupon{}, domain.ErrCouponNotFound
		}
		return domain.Coupon{}, err
	}

	return c, nil
}

// FindByCode returns every coupon with the code in creation order.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	err := r.DB.WithContext(ctx).Where("code = ?", code).Order("id").Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}

	return coupons, nil
}

func (r *CouponRepository) Delete(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&domain.Coupon{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCouponNotFound
	}

	return nil
}
