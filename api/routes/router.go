package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joaoo737/deliveryfront/api/controllers"
	cartcontrollers "github.com/joaoo737/deliveryfront/api/controllers/cart"
	ordercontrollers "github.com/joaoo737/deliveryfront/api/controllers/orders"
	"github.com/joaoo737/deliveryfront/api/middleware"
	authsvc "github.com/joaoo737/deliveryfront/internal/auth"
	cartsvc "github.com/joaoo737/deliveryfront/internal/cart"
	checkoutsvc "github.com/joaoo737/deliveryfront/internal/checkout"
	ordersvc "github.com/joaoo737/deliveryfront/internal/orders"
	productsvc "github.com/joaoo737/deliveryfront/internal/products"
	"github.com/joaoo737/deliveryfront/pkg/auth/session"
	"github.com/joaoo737/deliveryfront/pkg/config"
	"github.com/joaoo737/deliveryfront/pkg/db"
	"github.com/joaoo737/deliveryfront/pkg/enums"
	"github.com/joaoo737/deliveryfront/pkg/logger"
)

// Deps bundles everything the router needs. Optional pieces (metrics
// handler, rate limit store) may be nil.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisPinger     db.Pinger
	RateLimitStore  middleware.RateLimiterStore
	SessionChecker  session.AccessSessionChecker
	AuthService     authsvc.Service
	CatalogService  productsvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrdersService   ordersvc.Service
	MetricsHandler  http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authed := middleware.Auth(cfg.JWT, deps.SessionChecker, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimitStore, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimitStore, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(authed).Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	// Catalog browsing is open: customers can look at vendors and menus
	// before they sign in.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/vendors", controllers.CatalogVendors(deps.CatalogService, logg))
		r.Get("/vendors/{vendorId}", controllers.CatalogVendorDetail(deps.CatalogService, logg))
		r.Get("/vendors/{vendorId}/products", controllers.CatalogVendorProducts(deps.CatalogService, logg))
	})

	// Cart and checkout are customer-only by exact role: a vendor or
	// admin session outranks a customer but still has no cart.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(enums.RoleCustomer, logg))
		r.Get("/", cartcontrollers.Fetch(deps.CartService, logg))
		r.Delete("/", cartcontrollers.Clear(deps.CartService, logg))
		r.Post("/items", cartcontrollers.AddItem(deps.CartService, logg))
		r.Put("/items/{productId}", cartcontrollers.UpdateQuantity(deps.CartService, logg))
		r.Delete("/items/{productId}", cartcontrollers.RemoveItem(deps.CartService, logg))
		r.Put("/delivery", cartcontrollers.SetDeliveryDetails(deps.CartService, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(enums.RoleCustomer, logg))
		r.Post("/", controllers.Checkout(deps.CheckoutService, logg))
	})

	// Order reads admit vendor and admin sessions through the role
	// hierarchy; cancel mutates the order, so it stays customer-only.
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authed)
		readable := middleware.RequirePermission(enums.RoleCustomer, logg)
		r.With(readable).Get("/", ordercontrollers.List(deps.OrdersService, logg))
		r.With(readable).Get("/{orderId}", ordercontrollers.Detail(deps.OrdersService, logg))
		r.With(middleware.RequireRole(enums.RoleCustomer, logg)).
			Post("/{orderId}/cancel", ordercontrollers.Cancel(deps.OrdersService, logg))
	})

	// Vendor routes resolve the vendor profile from the caller's user
	// id, so the gate stays exact rather than hierarchical.
	r.Route("/api/v1/vendor", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(enums.RoleVendor, logg))
		r.Get("/profile", controllers.VendorProfile(deps.CatalogService, logg))
		r.Put("/profile/open", controllers.VendorSetOpen(deps.CatalogService, logg))
		r.Get("/products", controllers.VendorProducts(deps.CatalogService, logg))
		r.Post("/products", controllers.VendorCreateProduct(deps.CatalogService, logg))
		r.Put("/products/{productId}", controllers.VendorUpdateProduct(deps.CatalogService, logg))
		r.Delete("/products/{productId}", controllers.VendorDeactivateProduct(deps.CatalogService, logg))
		r.Get("/orders", ordercontrollers.VendorList(deps.OrdersService, deps.CatalogService, logg))
		r.Put("/orders/{orderId}/status", ordercontrollers.VendorUpdateStatus(deps.OrdersService, deps.CatalogService, logg))
	})

	return r
}
