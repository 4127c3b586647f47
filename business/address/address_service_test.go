package address

import (
	"context"
	"testing"

	"storefront/domain"
	"storefront/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, a *domain.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAddressRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByIDForUser(ctx context.Context, id, userID uint) (domain.Address, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(domain.Address), args.Error(1)
}

func (m *MockAddressRepository) Update(ctx context.Context, a *domain.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func input() AddressInput {
	return AddressInput{Name: "Home", Address: "1 Main St", City: "Springfield", Country: "US", PostalCode: "12345", Phone: "555-0100"}
}

func TestAddFirstAddressIsDefault(t *testing.T) {
	repo := new(MockAddressRepository)
	repo.On("FindByUser", mock.Anything, uint(7)).Return([]domain.Address{}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Address) bool { return a.IsDefault && a.UserID == 7 })).Return(nil)

	a, err := NewAddressService(repo, validator.New()).Add(context.Background(), 7, input())
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
}

func TestAddDefaultClearsPrevious(t *testing.T) {
	repo := new(MockAddressRepository)
	repo.On("FindByUser", mock.Anything, uint(7)).Return([]domain.Address{{ID: 1, IsDefault: true}}, nil)
	repo.On("ClearDefault", mock.Anything, uint(7)).Return(nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	in := input()
	in.IsDefault = true
	_, err := NewAddressService(repo, validator.New()).Add(context.Background(), 7, in)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAddValidation(t *testing.T) {
	repo := new(MockAddressRepository)
	in := input()
	in.City = "   "

	_, err := NewAddressService(repo, validator.New()).Add(context.Background(), 7, in)
	assert.Equal(t, apperror.KindValidation, apperror.From(err).Kind)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOtherUsersAddress(t *testing.T) {
	repo := new(MockAddressRepository)
	repo.On("FindByIDForUser", mock.Anything, uint(3), uint(7)).Return(domain.Address{}, domain.ErrAddressNotFound)

	_, err := NewAddressService(repo, validator.New()).Update(context.Background(), 7, 3, input())
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	assert.Equal(t, 404, apperror.From(err).Status)
}
