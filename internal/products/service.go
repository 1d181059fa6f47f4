package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/joaoo737/deliveryfront/internal/cart"
	"github.com/joaoo737/deliveryfront/pkg/db/models"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

// Service exposes the catalog: browse paths for customers, management
// paths for vendors, and cart snapshots.
type Service interface {
	Snapshot(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error)
	GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	GetVendorForOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Vendor, error)
	ListVendors(ctx context.Context, limit, offset int) ([]models.Vendor, error)
	ListProducts(ctx context.Context, vendorID uuid.UUID, includeInactive bool) ([]models.Product, error)
	CreateProduct(ctx context.Context, ownerUserID uuid.UUID, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, ownerUserID, productID uuid.UUID, input ProductInput) (*models.Product, error)
	DeactivateProduct(ctx context.Context, ownerUserID, productID uuid.UUID) error
	SetVendorOpen(ctx context.Context, ownerUserID uuid.UUID, open bool) (*models.Vendor, error)
}

// ProductInput carries the vendor-editable product fields.
type ProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	ImageURL    *string
	IsActive    bool
}

func (p ProductInput) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if p.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}
	return nil
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

// Snapshot resolves the catalog data the cart captures when a product is
// added. Inactive products and closed vendors are not addable.
func (s *service) Snapshot(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error) {
	if productID == uuid.Nil {
		return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return cart.ProductSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	vendor, err := s.repo.FindVendorByID(ctx, product.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return cart.ProductSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if !vendor.IsOpen {
		return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeConflict, "vendor is currently closed").
			WithDetails(map[string]any{"vendor_id": vendor.ID, "vendor_name": vendor.Name})
	}

	return cart.ProductSnapshot{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		VendorID:    vendor.ID,
		VendorName:  vendor.Name,
		ImageURL:    product.ImageURL,
	}, nil
}

func (s *service) GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	vendor, err := s.repo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) GetVendorForOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Vendor, error) {
	if ownerUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	vendor, err := s.repo.FindVendorByOwner(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) ListVendors(ctx context.Context, limit, offset int) ([]models.Vendor, error) {
	vendors, err := s.repo.ListVendors(ctx, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return vendors, nil
}

func (s *service) ListProducts(ctx context.Context, vendorID uuid.UUID, includeInactive bool) ([]models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	products, err := s.repo.ListProductsByVendor(ctx, vendorID, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) CreateProduct(ctx context.Context, ownerUserID uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	vendor, err := s.GetVendorForOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		VendorID:    vendor.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, ownerUserID, productID uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	product, err := s.ownedProduct(ctx, ownerUserID, productID)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.ImageURL = input.ImageURL
	product.IsActive = input.IsActive

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) DeactivateProduct(ctx context.Context, ownerUserID, productID uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, ownerUserID, productID); err != nil {
		return err
	}
	if err := s.repo.DeactivateProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func (s *service) SetVendorOpen(ctx context.Context, ownerUserID uuid.UUID, open bool) (*models.Vendor, error) {
	vendor, err := s.GetVendorForOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	vendor.IsOpen = open
	updated, err := s.repo.UpdateVendor(ctx, vendor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	return updated, nil
}

// ownedProduct loads the product and confirms the caller's vendor owns it.
func (s *service) ownedProduct(ctx context.Context, ownerUserID, productID uuid.UUID) (*models.Product, error) {
	vendor, err := s.GetVendorForOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.VendorID != vendor.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
