package address

import (
	"context"
	"strings"

	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	FindByUser(ctx context.Context, userID uint) ([]domain.Address, error)
	FindByIDForUser(ctx context.Context, id, userID uint) (domain.Address, error)
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id, userID uint) error
	ClearDefault(ctx context.Context, userID uint) error
}

type AddressInput struct {
	Name       string `validate:"required,max=100"`
	Address    string `validate:"required,max=255"`
	City       string `validate:"required,max=100"`
	Country    string `validate:"required,max=100"`
	PostalCode string `validate:"required,max=20"`
	Phone      string `validate:"required,max=30"`
	IsDefault  bool
}

type addressService struct {
	addressRepo AddressRepository
	validate    *validator.Validate
}

func NewAddressService(addressRepo AddressRepository, validate *validator.Validate) *addressService {
	return &addressService{
		addressRepo: addressRepo,
		validate:    validate,
	}
}

func (s *addressService) List(ctx context.Context, userID uint) ([]domain.Address, error) {
	return s.addressRepo.FindByUser(ctx, userID)
}

// Add stores a new address. The user's first address is always the default.
func (s *addressService) Add(ctx context.Context, userID uint, in AddressInput) (domain.Address, error) {
	in = trim(in)
	if err := s.validate.Struct(in); err != nil {
		return domain.Address{}, apperror.Validation("Invalid address details", err)
	}

	existing, err := s.addressRepo.FindByUser(ctx, userID)
	if err != nil {
		return domain.Address{}, err
	}

	isDefault := in.IsDefault || len(existing) == 0
	if isDefault && len(existing) > 0 {
		if err := s.addressRepo.ClearDefault(ctx, userID); err != nil {
			return domain.Address{}, err
		}
	}

	a := domain.Address{
		UserID:     userID,
		Name:       in.Name,
		Address:    in.Address,
		City:       in.City,
		Country:    in.Country,
		PostalCode: in.PostalCode,
		Phone:      in.Phone,
		IsDefault:  isDefault,
	}
	if err := s.addressRepo.Create(ctx, &a); err != nil {
		logger.Error("Failed to create address", "user_id", userID, "error", err)
		return domain.Address{}, err
	}

	return a, nil
}

func (s *addressService) Update(ctx context.Context, userID, id uint, in AddressInput) (domain.Address, error) {
	in = trim(in)
	if err := s.validate.Struct(in); err != nil {
		return domain.Address{}, apperror.Validation("Invalid address details", err)
	}

	a, err := s.addressRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return domain.Address{}, err
	}

	if in.IsDefault && !a.IsDefault {
		if err := s.addressRepo.ClearDefault(ctx, userID); err != nil {
			return domain.Address{}, err
		}
	}

	a.Name = in.Name
	a.Address = in.Address
	a.City = in.City
	a.Country = in.Country
	a.PostalCode = in.PostalCode
	a.Phone = in.Phone
	a.IsDefault = in.IsDefault || a.IsDefault

	if err := s.addressRepo.Update(ctx, &a); err != nil {
		return domain.Address{}, err
	}

	return a, nil
}

func (s *addressService) Delete(ctx context.Context, userID, id uint) error {
	return s.addressRepo.Delete(ctx, id, userID)
}

func trim(in AddressInput) AddressInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}
