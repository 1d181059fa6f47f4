package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joaoo737/deliveryfront/internal/repo"
	"github.com/joaoo737/deliveryfront/pkg/db/models"
	"github.com/joaoo737/deliveryfront/pkg/pagination"
)

// Repository wires together catalog persistence for vendors and products.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: repo.NewBase(tx)}
}

// FindProductByID loads the product without associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.Conn(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVendorByID loads the vendor profile.
func (r *Repository) FindVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.Conn(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindVendorByOwner loads the vendor owned by the given user.
func (r *Repository) FindVendorByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.Conn(ctx).First(&vendor, "owner_user_id = ?", ownerUserID).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListVendors returns open-first vendor pages.
func (r *Repository) ListVendors(ctx context.Context, limit, offset int) ([]models.Vendor, error) {
	page := pagination.New(limit, offset)
	var vendors []models.Vendor
	err := r.Conn(ctx).
		Order("is_open DESC, name ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

// ListProductsByVendor returns the vendor's products, active first.
func (r *Repository) ListProductsByVendor(ctx context.Context, vendorID uuid.UUID, activeOnly bool) ([]models.Product, error) {
	query := r.Conn(ctx).Where("vendor_id = ?", vendorID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateVendor persists a new vendor profile.
func (r *Repository) CreateVendor(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.Conn(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// UpdateVendor saves the vendor profile.
func (r *Repository) UpdateVendor(ctx context.Context, vendor *models.Vendor) (*models.Vendor, error) {
	if err := r.Conn(ctx).Save(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// CreateProduct persists a new product.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.Conn(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the product.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.Conn(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeactivateProduct soft-hides the product from the catalog.
func (r *Repository) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return r.Conn(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
