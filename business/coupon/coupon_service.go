package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/domain"
	"storefront/pkg/apperror"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	FindAll(ctx context.Context) ([]domain.Coupon, error)
	FindByID(ctx context.Context, id uint) (domain.Coupon, error)
	FindByCode(ctx context.Context, code string) ([]domain.Coupon, error)
	Delete(ctx context.Context, id uint) error
}

type CreateInput struct {
	Code            string    `validate:"required,max=64"`
	DiscountPercent int       `validate:"gte=1,lte=100"`
	StartDate       time.Time `validate:"required"`
	EndDate         time.Time `validate:"required"`
	UsageLimit      int       `validate:"gte=1"`
}

type couponService struct {
	couponRepo CouponRepository
	validate   *validator.Validate
	now        func() time.Time
}

func NewCouponService(couponRepo CouponRepository, validate *validator.Validate) *couponService {
	return &couponService{
		couponRepo: couponRepo,
		validate:   validate,
		now:        time.Now,
	}
}

func (s *couponService) Create(ctx context.Context, in CreateInput) (domain.Coupon, error) {
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validate.Struct(in); err != nil {
		return domain.Coupon{}, apperror.Validation("Invalid coupon details", err)
	}
	if !in.EndDate.After(in.StartDate) {
		return domain.Coupon{}, apperror.Validation("End date must be after start date", nil)
	}

	existing, err := s.couponRepo.FindByCode(ctx, in.Code)
	if err != nil {
		return domain.Coupon{}, err
	}
	if len(existing) > 0 {
		return domain.Coupon{}, apperror.Validation("Coupon code already exists", domain.ErrDuplicateCouponCode)
	}

	c := domain.Coupon{
		Code:            in.Code,
		DiscountPercent: in.DiscountPercent,
		StartDate:       in.StartDate.UTC(),
		EndDate:         in.EndDate.UTC(),
		UsageLimit:      in.UsageLimit,
	}
	if err := s.couponRepo.Create(ctx, &c); err != nil {
		if errors.Is(err, domain.ErrDuplicateCouponCode) {
			return domain.Coupon{}, apperror.Validation("Coupon code already exists", err)
		}
		logger.Error("Failed to create coupon", "error", err)
		return domain.Coupon{}, err
	}

	return c, nil
}

func (s *couponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.couponRepo.FindAll(ctx)
}

func (s *couponService) Delete(ctx context.Context, id uint) error {
	if err := s.couponRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Coupon deleted", "coupon_id", id)
	return nil
}

// Apply validates code against the stored catalog at the current time.
func (s *couponService) Apply(ctx context.Context, code string) (domain.Coupon, error) {
	catalog, err := s.couponRepo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return domain.Coupon{}, err
	}

	c, err := Evaluate(code, catalog, s.now())
	if err != nil {
		return domain.Coupon{}, Reject(err)
	}
	return c, nil
}
