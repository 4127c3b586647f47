package router

import (
	"net/http"

	"storefront/domain"
	"storefront/internal/middleware"
	"storefront/internal/rest"

	"github.com/labstack/echo/v4"
)

const apiPrefix = "/api"

var superAdmin = middleware.RequireRole(domain.RoleSuperAdmin)

// Router registers each route on echo and its access level on the route
// table in one step.
type Router struct {
	group  *echo.Group
	routes *middleware.RouteTable
}

func New(e *echo.Echo, routes *middleware.RouteTable, m ...echo.MiddlewareFunc) *Router {
	return &Router{
		group:  e.Group(apiPrefix, m...),
		routes: routes,
	}
}

func (r *Router) handle(method, path string, h echo.HandlerFunc, access middleware.Access) {
	r.routes.Register(method, apiPrefix+path, access)
	r.group.Add(method, path, h)
}

func SetupAuthRoutes(r *Router, handler *rest.UserHandler) {
	r.handle(http.MethodPost, "/auth/register", handler.Register, middleware.Public)
	r.handle(http.MethodPost, "/auth/login", handler.Login, middleware.Public)
	r.handle(http.MethodPost, "/auth/refresh-token", handler.RefreshToken, middleware.Public)
	r.handle(http.MethodPost, "/auth/logout", handler.Logout, middleware.Public)
	r.handle(http.MethodGet, "/auth/me", handler.Me, middleware.Authenticated)
}

func SetupProductRoutes(r *Router, handler *rest.ProductHandler) {
	r.handle(http.MethodGet, "/products/fetch-client-products", handler.FetchClientProducts, middleware.Authenticated)
	r.handle(http.MethodGet, "/products/admin-products", handler.GetAllProducts, superAdmin)
	r.handle(http.MethodGet, "/products/:id", handler.GetProductByID, middleware.Authenticated)
	r.handle(http.MethodPost, "/products/create-product", handler.CreateProduct, superAdmin)
	r.handle(http.MethodPut, "/products/:id", handler.UpdateProduct, superAdmin)
	r.handle(http.MethodDelete, "/products/:id", handler.DeleteProduct, superAdmin)
}

func SetupCouponRoutes(r *Router, handler *rest.CouponHandler) {
	r.handle(http.MethodGet, "/coupons", handler.FetchAllCoupons, superAdmin)
	r.handle(http.MethodPost, "/coupons/create-coupon", handler.CreateCoupon, superAdmin)
	r.handle(http.MethodDelete, "/coupons/:id", handler.DeleteCoupon, superAdmin)
}

func SetupAddressRoutes(r *Router, handler *rest.AddressHandler) {
	r.handle(http.MethodGet, "/address/get-address", handler.GetAddresses, middleware.Authenticated)
	r.handle(http.MethodPost, "/address/add-address", handler.AddAddress, middleware.Authenticated)
	r.handle(http.MethodPut, "/address/update-address/:id", handler.UpdateAddress, middleware.Authenticated)
	r.handle(http.MethodDelete, "/address/delete-address/:id", handler.DeleteAddress, middleware.Authenticated)
}

func SetupCartRoutes(r *Router, handler *rest.CartHandler) {
	r.handle(http.MethodGet, "/cart/fetch-cart", handler.FetchCart, middleware.Authenticated)
	r.handle(http.MethodPost, "/cart/add-to-cart", handler.AddToCart, middleware.Authenticated)
	r.handle(http.MethodPut, "/cart/update/:id", handler.UpdateQuantity, middleware.Authenticated)
	r.handle(http.MethodDelete, "/cart/remove/:id", handler.RemoveFromCart, middleware.Authenticated)
	r.handle(http.MethodPost, "/cart/clear-cart", handler.ClearCart, middleware.Authenticated)
}

func SetupCheckoutRoutes(r *Router, handler *rest.CheckoutHandler) {
	r.handle(http.MethodPost, "/checkout/quote", handler.Quote, middleware.Authenticated)
	r.handle(http.MethodPost, "/checkout/create-order", handler.CreateOrder, middleware.Authenticated)
	r.handle(http.MethodPost, "/checkout/capture-order", handler.CaptureOrder, middleware.Authenticated)
}

func SetupOrderRoutes(r *Router, handler *rest.OrdersHandler) {
	r.handle(http.MethodGet, "/order/get-order-by-user-id", handler.GetOrdersByUser, middleware.Authenticated)
	r.handle(http.MethodGet, "/order/get-order/:id", handler.GetOrder, middleware.Authenticated)
	r.handle(http.MethodGet, "/order/get-all-orders", handler.GetAllOrders, superAdmin)
}
