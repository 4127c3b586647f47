package rest

import (
	"context"
	"net/http/httptest"
	"strings"

	"storefront/business/auth"
	"storefront/business/checkout"
	"storefront/business/coupon"
	"storefront/business/product"
	"storefront/business/user"
	"storefront/domain"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

type MockGuard struct{ mock.Mock }

func (m *MockGuard) Protect(ctx context.Context, req domain.GuardRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, in user.RegisterInput) (domain.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (domain.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockTokens struct{ mock.Mock }

func (m *MockTokens) Issue(ctx context.Context, u domain.User) (auth.TokenPair, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(auth.TokenPair), args.Error(1)
}

func (m *MockTokens) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, domain.User, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(auth.TokenPair), args.Get(1).(domain.User), args.Error(2)
}

func (m *MockTokens) Revoke(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, id uint) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) FetchClientProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.ProductPage), args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, in product.ProductInput, uploads []product.ImageUpload) (domain.Product, error) {
	args := m.Called(ctx, in, uploads)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id uint, in product.ProductInput) (domain.Product, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockCouponService struct{ mock.Mock }

func (m *MockCouponService) Create(ctx context.Context, in coupon.CreateInput) (domain.Coupon, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Coupon), args.Error(1)
}

func (m *MockCouponService) List(ctx context.Context) ([]domain.Coupon, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Coupon), args.Error(1)
}

func (m *MockCouponService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockCheckoutService struct{ mock.Mock }

func (m *MockCheckoutService) Quote(ctx context.Context, userID uint, couponCode string) (domain.Totals, error) {
	args := m.Called(ctx, userID, couponCode)
	return args.Get(0).(domain.Totals), args.Error(1)
}

func (m *MockCheckoutService) Prepare(ctx context.Context, in checkout.PrepareInput) (checkout.PrepareResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(checkout.PrepareResult), args.Error(1)
}

func (m *MockCheckoutService) Capture(ctx context.Context, userID uint, providerOrderID string) (domain.Order, error) {
	args := m.Called(ctx, userID, providerOrderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

type MockOrdersService struct{ mock.Mock }

func (m *MockOrdersService) GetOrdersByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrdersService) GetOrder(ctx context.Context, userID, orderID uint) (domain.Order, error) {
	args := m.Called(ctx, userID, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrdersService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

// newContext builds an echo context with the error handler installed so tests
// can render returned errors the way the server does.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, id uint, email string) {
	middleware.SetIdentity(c, auth.Claims{UserID: id, Email: email, Role: domain.RoleUser})
}

// render mimics the server error path for a handler result.
func render(c echo.Context, err error) {
	if err != nil {
		middleware.ErrorHandler(err, c)
	}
}

