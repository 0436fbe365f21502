package routes

import (
	"time"

	"storefront/api/handler"
	"storefront/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo      *echo.Echo
	Auth      *handler.AuthHandler
	AdminAuth *handler.AdminAuthHandler
	Catalog   *handler.CatalogHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Promo     *handler.PromoHandler

	Identity     middleware.IdentityMiddleware
	AdminGate    middleware.AdminGate
	CatalogCache *middleware.ResponseCache

	AuthRate     *middleware.RateLimiter
	LoginRate    *middleware.RateLimiter
	CheckoutRate *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	adminAuth *handler.AdminAuthHandler,
	catalog *handler.CatalogHandler,
	cart *handler.CartHandler,
	checkout *handler.CheckoutHandler,
	promo *handler.PromoHandler,
	identity middleware.IdentityMiddleware,
	adminGate middleware.AdminGate,
	catalogCache *middleware.ResponseCache,
) *Router {
	return &Router{
		Echo:         e,
		Auth:         auth,
		AdminAuth:    adminAuth,
		Catalog:      catalog,
		Cart:         cart,
		Checkout:     checkout,
		Promo:        promo,
		Identity:     identity,
		AdminGate:    adminGate,
		CatalogCache: catalogCache,
		AuthRate:     middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:    middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
		CheckoutRate: middleware.NewRateLimiter(rate.Limit(1), 3, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	// Storefront routes resolve an identity and touch the session store on
	// every request. The admin surface stays off this group: admin requests
	// are authenticated by the admin token alone and must never create or
	// refresh a session row.
	public := e.Group("", r.Identity.Resolve)

	public.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	public.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	public.POST("/auth/app-login", r.Auth.AppLogin, r.LoginRate.Middleware())
	public.POST("/auth/logout", r.Auth.Logout, middleware.RequireAuthenticated)
	public.POST("/auth/password/forgot", r.Auth.PasswordForgot, r.LoginRate.Middleware())
	public.POST("/auth/password/reset", r.Auth.PasswordReset, r.AuthRate.Middleware())
	public.GET("/me", r.Auth.Me, middleware.RequireAuthenticated)

	e.POST("/admin/auth/login", r.AdminAuth.Login, r.LoginRate.Middleware())
	e.POST("/admin/auth/login/mfa", r.AdminAuth.LoginMFA, r.LoginRate.Middleware())
	e.POST("/admin/auth/mfa/enable", r.AdminAuth.EnableMFA, r.AdminGate.Require)
	e.POST("/admin/auth/mfa/verify", r.AdminAuth.VerifyMFA, r.AdminGate.Require)
	e.POST("/admin/auth/mfa/disable", r.AdminAuth.DisableMFA, r.AdminGate.Require)

	catalog := public.Group("")
	if r.CatalogCache != nil {
		catalog.Use(r.CatalogCache.Middleware())
	}
	catalog.GET("/categories", r.Catalog.ListCategories)
	catalog.GET("/categories/:id", r.Catalog.GetCategory)
	catalog.GET("/products", r.Catalog.ListProducts)
	catalog.GET("/products/:id", r.Catalog.GetProduct)

	e.GET("/admin/users", r.Auth.ListUsers, r.AdminGate.Require)
	e.POST("/admin/categories", r.Catalog.CreateCategory, r.AdminGate.Require)
	e.PUT("/admin/categories/:id", r.Catalog.UpdateCategory, r.AdminGate.Require)
	e.DELETE("/admin/categories/:id", r.Catalog.DeleteCategory, r.AdminGate.Require)
	e.POST("/admin/products", r.Catalog.CreateProduct, r.AdminGate.Require)
	e.PUT("/admin/products/:id", r.Catalog.UpdateProduct, r.AdminGate.Require)
	e.DELETE("/admin/products/:id", r.Catalog.DeleteProduct, r.AdminGate.Require)

	public.GET("/cart", r.Cart.Get)
	public.POST("/cart/items", r.Cart.AddItem)
	public.PUT("/cart/items/:productID", r.Cart.UpdateItem)
	public.DELETE("/cart/items/:productID", r.Cart.RemoveItem)
	public.DELETE("/cart", r.Cart.Clear)

	public.POST("/coupons/apply", r.Checkout.ApplyCoupon, r.AuthRate.Middleware())
	public.POST("/checkout", r.Checkout.Checkout, r.CheckoutRate.Middleware())

	e.GET("/admin/discounts", r.Promo.ListDiscounts, r.AdminGate.Require)
	e.POST("/admin/discounts", r.Promo.CreateDiscount, r.AdminGate.Require)
	e.PUT("/admin/discounts/:id", r.Promo.UpdateDiscount, r.AdminGate.Require)
	e.DELETE("/admin/discounts/:id", r.Promo.DeleteDiscount, r.AdminGate.Require)
	e.GET("/admin/coupons", r.Promo.ListCoupons, r.AdminGate.Require)
	e.POST("/admin/coupons", r.Promo.CreateCoupon, r.AdminGate.Require)
	e.PUT("/admin/coupons/:id", r.Promo.UpdateCoupon, r.AdminGate.Require)
	e.DELETE("/admin/coupons/:id", r.Promo.DeleteCoupon, r.AdminGate.Require)
}
