package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/joaoo737/deliveryfront/internal/auth"
	cartsvc "github.com/joaoo737/deliveryfront/internal/cart"
	checkoutsvc "github.com/joaoo737/deliveryfront/internal/checkout"
	productsvc "github.com/joaoo737/deliveryfront/internal/products"
	pkgAuth "github.com/joaoo737/deliveryfront/pkg/auth"
	"github.com/joaoo737/deliveryfront/pkg/auth/session"
	"github.com/joaoo737/deliveryfront/pkg/config"
	"github.com/joaoo737/deliveryfront/pkg/db/models"
	"github.com/joaoo737/deliveryfront/pkg/enums"
	"github.com/joaoo737/deliveryfront/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.TokenPair, error) {
	return &authsvc.TokenPair{}, nil
}

func (stubAuthService) Logout(ctx context.Context, userID uuid.UUID, role enums.Role, accessID string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) Snapshot(ctx context.Context, productID uuid.UUID) (cartsvc.ProductSnapshot, error) {
	return cartsvc.ProductSnapshot{}, nil
}

func (stubCatalogService) GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	return &models.Vendor{ID: vendorID, Name: "Stub Vendor"}, nil
}

func (stubCatalogService) GetVendorForOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Vendor, error) {
	return &models.Vendor{ID: uuid.New(), OwnerUserID: ownerUserID, Name: "Stub Vendor"}, nil
}

func (stubCatalogService) ListVendors(ctx context.Context, limit, offset int) ([]models.Vendor, error) {
	return []models.Vendor{}, nil
}

func (stubCatalogService) ListProducts(ctx context.Context, vendorID uuid.UUID, includeInactive bool) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubCatalogService) CreateProduct(ctx context.Context, ownerUserID uuid.UUID, input productsvc.ProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubCatalogService) UpdateProduct(ctx context.Context, ownerUserID, productID uuid.UUID, input productsvc.ProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubCatalogService) DeactivateProduct(ctx context.Context, ownerUserID, productID uuid.UUID) error {
	return nil
}

func (stubCatalogService) SetVendorOpen(ctx context.Context, ownerUserID uuid.UUID, open bool) (*models.Vendor, error) {
	return &models.Vendor{}, nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, customerID uuid.UUID) (cartsvc.State, error) {
	return cartsvc.Empty(), nil
}

func (stubCartService) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int, replace bool) (cartsvc.State, error) {
	return cartsvc.Empty(), nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (cartsvc.State, error) {
	return cartsvc.Empty(), nil
}

func (stubCartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (cartsvc.State, error) {
	return cartsvc.Empty(), nil
}

func (stubCartService) Clear(ctx context.Context, customerID uuid.UUID) (cartsvc.State, error) {
	return cartsvc.Empty(), nil
}

func (stubCartService) SetDeliveryDetails(ctx context.Context, customerID uuid.UUID, input cartsvc.DeliveryDetailsInput) (cartsvc.State, error) {
	return cartsvc.Empty(), nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Submit(ctx context.Context, customerID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), Status: enums.OrderStatusPending}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) CreateFromCheckout(ctx context.Context, payload checkoutsvc.OrderPayload) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) GetForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, CustomerID: customerID}, nil
}

func (stubOrdersService) ListForCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (stubOrdersService) ListForVendor(ctx context.Context, vendorID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (stubOrdersService) AdvanceStatus(ctx context.Context, vendorID, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) CancelForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        stubPinger{},
		RedisPinger:     stubPinger{},
		SessionChecker:  stubSessionChecker{},
		AuthService:     stubAuthService{},
		CatalogService:  stubCatalogService{},
		CartService:     stubCartService{},
		CheckoutService: stubCheckoutService{},
		OrdersService:   stubOrdersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsOpen(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCatalogIsOpen(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/vendors", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRequiresToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartRequiresCustomerRoleExactly(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.Role{enums.RoleVendor, enums.RoleAdmin} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for %s got %d", role, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer got %d", resp.Code)
	}
}

func TestCheckoutRequiresCustomerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleVendor))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for vendor got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for customer got %d", resp.Code)
	}
}

func TestVendorRoutesRequireVendorRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/vendor/products", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleVendor))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for vendor got %d", resp.Code)
	}
}

func TestOrdersRequireCustomerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer got %d", resp.Code)
	}
}

func TestOrderReadsFollowRoleHierarchy(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	// Higher roles pass the hierarchical gate on reads.
	for _, role := range []enums.Role{enums.RoleVendor, enums.RoleAdmin} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s on order list got %d", role, resp.Code)
		}
	}

	// Cancel mutates and is gated to the exact customer role.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin cancel got %d", resp.Code)
	}
}
