package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"storefront/domain"
	"storefront/pkg/apperror"
)

type CartRepository interface {
	FindLines(ctx context.Context, userID uint) ([]domain.CartLine, error)
	FindByIDForUser(ctx context.Context, id, userID uint) (domain.CartItem, error)
	FindMatching(ctx context.Context, userID, productID uint, size, color string) (domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, id, userID uint, quantity int) error
	Delete(ctx context.Context, id, userID uint) error
	Clear(ctx context.Context, userID uint) error
}

type ProductFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type AddInput struct {
	ProductID uint
	Quantity  int
	Size      string
	Color     string
}

type cartService struct {
	cartRepo CartRepository
	products ProductFinder
}

func NewCartService(cartRepo CartRepository, products ProductFinder) *cartService {
	return &cartService{
		cartRepo: cartRepo,
		products: products,
	}
}

func (s *cartService) Fetch(ctx context.Context, userID uint) ([]domain.CartLine, error) {
	return s.cartRepo.FindLines(ctx, userID)
}

// Add puts a product variant in the cart. Adding a variant that is already
// there increases its quantity.
func (s *cartService) Add(ctx context.Context, userID uint, in AddInput) (domain.CartItem, error) {
	if in.Quantity < 1 {
		return domain.CartItem{}, apperror.Validation("Quantity must be at least 1", nil)
	}

	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if in.Size != "" && !slices.Contains(product.Sizes, in.Size) {
		return domain.CartItem{}, apperror.Validation(fmt.Sprintf("Size %s is not available", in.Size), nil)
	}
	if in.Color != "" && !slices.Contains(product.Colors, in.Color) {
		return domain.CartItem{}, apperror.Validation(fmt.Sprintf("Color %s is not available", in.Color), nil)
	}

	existing, err := s.cartRepo.FindMatching(ctx, userID, in.ProductID, in.Size, in.Color)
	switch {
	case err == nil:
		qty := existing.Quantity + in.Quantity
		if qty > product.Stock {
			return domain.CartItem{}, errNotEnoughStock(product)
		}
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, userID, qty); err != nil {
			return domain.CartItem{}, err
		}
		existing.Quantity = qty
		return existing, nil
	case !errors.Is(err, domain.ErrCartItemNotFound):
		return domain.CartItem{}, err
	}

	if in.Quantity > product.Stock {
		return domain.CartItem{}, errNotEnoughStock(product)
	}

	item := domain.CartItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Size:      in.Size,
		Color:     in.Color,
	}
	if err := s.cartRepo.Create(ctx, &item); err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, id uint, quantity int) (domain.CartItem, error) {
	if quantity < 1 {
		return domain.CartItem{}, apperror.Validation("Quantity must be at least 1", nil)
	}

	item, err := s.cartRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return domain.CartItem{}, err
	}

	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return domain.CartItem{}, err
	}
	if quantity > product.Stock {
		return domain.CartItem{}, errNotEnoughStock(product)
	}

	if err := s.cartRepo.UpdateQuantity(ctx, id, userID, quantity); err != nil {
		return domain.CartItem{}, err
	}
	item.Quantity = quantity
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, userID, id uint) error {
	return s.cartRepo.Delete(ctx, id, userID)
}

func (s *cartService) Clear(ctx context.Context, userID uint) error {
	return s.cartRepo.Clear(ctx, userID)
}

func errNotEnoughStock(p domain.Product) error {
	return apperror.Validation(fmt.Sprintf("Only %d of %s left in stock", p.Stock, p.Name), nil)
}
