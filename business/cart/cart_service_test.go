package cart

import (
	"context"
	"testing"

	"storefront/domain"
	"storefront/pkg/apperror"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindLines(ctx context.Context, userID uint) ([]domain.CartLine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCartRepository) FindByIDForUser(ctx context.Context, id, userID uint) (domain.CartItem, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindMatching(ctx context.Context, userID, productID uint, size, color string) (domain.CartItem, error) {
	args := m.Called(ctx, userID, productID, size, color)
	return args.Get(0).(domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, id, userID uint, quantity int) error {
	return m.Called(ctx, id, userID, quantity).Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

var tee = domain.Product{ID: 5, Name: "Tee", Stock: 4, Sizes: pq.StringArray{"S", "M"}, Colors: pq.StringArray{"black"}}

func TestAddNewItem(t *testing.T) {
	repo := new(MockCartRepository)
	products := new(MockProductFinder)
	products.On("FindByID", mock.Anything, uint(5)).Return(tee, nil)
	repo.On("FindMatching", mock.Anything, uint(7), uint(5), "M", "black").Return(domain.CartItem{}, domain.ErrCartItemNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CartItem")).Return(nil)

	item, err := NewCartService(repo, products).Add(context.Background(), 7, AddInput{ProductID: 5, Quantity: 2, Size: "M", Color: "black"})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddMergesQuantity(t *testing.T) {
	repo := new(MockCartRepository)
	products := new(MockProductFinder)
	products.On("FindByID", mock.Anything, uint(5)).Return(tee, nil)
	repo.On("FindMatching", mock.Anything, uint(7), uint(5), "S", "").Return(domain.CartItem{ID: 11, Quantity: 1}, nil)
	repo.On("UpdateQuantity", mock.Anything, uint(11), uint(7), 3).Return(nil)

	item, err := NewCartService(repo, products).Add(context.Background(), 7, AddInput{ProductID: 5, Quantity: 2, Size: "S"})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddRejects(t *testing.T) {
	tests := []struct {
		name string
		in   AddInput
	}{
		{"zero quantity", AddInput{ProductID: 5, Quantity: 0}},
		{"unknown size", AddInput{ProductID: 5, Quantity: 1, Size: "XXL"}},
		{"unknown color", AddInput{ProductID: 5, Quantity: 1, Color: "pink"}},
		{"over stock", AddInput{ProductID: 5, Quantity: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCartRepository)
			products := new(MockProductFinder)
			products.On("FindByID", mock.Anything, uint(5)).Return(tee, nil)
			repo.On("FindMatching", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(domain.CartItem{}, domain.ErrCartItemNotFound)

			_, err := NewCartService(repo, products).Add(context.Background(), 7, tt.in)
			assert.Equal(t, apperror.KindValidation, apperror.From(err).Kind)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateQuantityChecksOwnership(t *testing.T) {
	repo := new(MockCartRepository)
	repo.On("FindByIDForUser", mock.Anything, uint(11), uint(7)).Return(domain.CartItem{}, domain.ErrCartItemNotFound)

	_, err := NewCartService(repo, new(MockProductFinder)).UpdateQuantity(context.Background(), 7, 11, 2)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
	repo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
