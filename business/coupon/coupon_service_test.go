package coupon

import (
	"context"
	"testing"
	"time"

	"storefront/domain"
	"storefront/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCouponRepository) FindAll(ctx context.Context) ([]domain.Coupon, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uint) (domain.Coupon, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) ([]domain.Coupon, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func TestCreateCoupon(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("FindByCode", mock.Anything, "SAVE20").Return([]domain.Coupon{}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Coupon")).Return(nil)

	svc := NewCouponService(repo, validator.New())
	c, err := svc.Create(context.Background(), CreateInput{
		Code: " SAVE20 ", DiscountPercent: 20, StartDate: start, EndDate: end, UsageLimit: 5,
	})

	require.NoError(t, err)
	assert.Equal(t, "SAVE20", c.Code)
	assert.Equal(t, 0, c.UsageCount)
	repo.AssertExpectations(t)
}

func TestCreateCouponRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
	}{
		{"missing code", CreateInput{DiscountPercent: 10, StartDate: start, EndDate: end, UsageLimit: 1}},
		{"zero percent", CreateInput{Code: "X", DiscountPercent: 0, StartDate: start, EndDate: end, UsageLimit: 1}},
		{"over 100 percent", CreateInput{Code: "X", DiscountPercent: 101, StartDate: start, EndDate: end, UsageLimit: 1}},
		{"zero limit", CreateInput{Code: "X", DiscountPercent: 10, StartDate: start, EndDate: end, UsageLimit: 0}},
		{"end before start", CreateInput{Code: "X", DiscountPercent: 10, StartDate: end, EndDate: start, UsageLimit: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCouponRepository)
			svc := NewCouponService(repo, validator.New())

			_, err := svc.Create(context.Background(), tt.in)
			assert.Equal(t, apperror.KindValidation, apperror.From(err).Kind)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("FindByCode", mock.Anything, "SAVE20").Return([]domain.Coupon{coupon("SAVE20", 20, 0, 1)}, nil)

	svc := NewCouponService(repo, validator.New())
	_, err := svc.Create(context.Background(), CreateInput{Code: "SAVE20", DiscountPercent: 20, StartDate: start, EndDate: end, UsageLimit: 5})

	assert.ErrorIs(t, err, domain.ErrDuplicateCouponCode)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestApply(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("FindByCode", mock.Anything, "SAVE20").Return([]domain.Coupon{coupon("SAVE20", 20, 0, 5)}, nil)
	repo.On("FindByCode", mock.Anything, "GONE").Return([]domain.Coupon{}, nil)

	svc := NewCouponService(repo, validator.New())
	svc.now = func() time.Time { return start.Add(time.Hour) }

	c, err := svc.Apply(context.Background(), "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, 20, c.DiscountPercent)

	_, err = svc.Apply(context.Background(), "GONE")
	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.Equal(t, apperror.KindValidation, apperror.From(err).Kind)

	svc.now = func() time.Time { return end }
	_, err = svc.Apply(context.Background(), "SAVE20")
	assert.ErrorIs(t, err, ErrOutOfWindow)
}
