package postgres

import (
	"context"
	"errors"
	"fmt"

	"storefront/domain"

	"gorm.io/gorm"
)

type AddressRepository struct {
	DB *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{
		DB: db,
	}
}

func (r *AddressRepository) Create(ctx context.Context, a *domain.Address) error {
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func (r *AddressRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Address, error) {
	var addresses []domain.Address
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find addresses: %w", err)
	}

	return addresses, nil
}

func (r *AddressRepository) FindByIDForUser(ctx context.Context, id, userID uint) (domain.Address, error) {
	var a domain.Address

	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Address{}, domain.ErrAddressNotFound
		}
		return domain.Address{}, err
	}

	return a, nil
}

func (r *AddressRepository) Update(ctx context.Context, a *domain.Address) error {
	result := r.DB.WithContext(ctx).Model(&domain.Address{}).
		Where("id = ? AND user_id = ?", a.ID, a.UserID).
		Updates(map[string]interface{}{
			"name":        a.Name,
			"address":     a.Address,
			"city":        a.City,
			"country":     a.Country,
			"postal_code": a.PostalCode,
			"phone":       a.Phone,
			"is_default":  a.IsDefault,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAddressNotFound
	}

	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAddressNotFound
	}

	return nil
}

func (r *AddressRepository) ClearDefault(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&domain.Address{}).
		Where("user_id = ? AND is_default", userID).
		Update("is_default", false).Error
}
