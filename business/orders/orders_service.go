package orders

import (
	"context"

	"storefront/domain"
)

type OrdersRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uint) (domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
}

type OrdersService struct {
	orderRepo OrdersRepository
}

func NewOrdersService(orderRepo OrdersRepository) *OrdersService {
	return &OrdersService{
		orderRepo: orderRepo,
	}
}

func (s *OrdersService) GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

// GetOrder returns one of the user's own orders. Other users' orders are
// reported as not found.
func (s *OrdersService) GetOrder(ctx context.Context, userID, orderID uint) (domain.Order, error) {
	return s.orderRepo.FindByIDForUser(ctx, orderID, userID)
}

func (s *OrdersService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orderRepo.FindAll(ctx)
}
