package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/odark007/liq-store/models"
	"gorm.io/gorm"
)

// CatalogRepository defines data access for variants and the shared
// inventory pools they draw from.
type CatalogRepository interface {
	FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error)
	FindVariantByNames(ctx context.Context, productTitle, variantName string) (*models.ProductVariant, error)
	FindInventoryByID(ctx context.Context, id uuid.UUID) (*models.InventoryMaster, error)
	// DecrementStock conditionally subtracts amount from a pool and reports
	// whether the row was updated. The guard keeps the level non-negative
	// even when two checkouts race past validation.
	DecrementStock(ctx context.Context, masterStockID uuid.UUID, amount int) (bool, error)
	IncrementStock(ctx context.Context, masterStockID uuid.UUID, amount int) error
}

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

// FindVariantsByIDs batch-loads variants with their owning product (for the
// live promotion window) and shared inventory pool in one read.
func (r *GormCatalogRepository) FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Inventory").
		Where("id IN ?", ids).
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindVariantByNames matches an order-line snapshot (product title + variant
// name) back to the current variant record; used by the compensating restock.
func (r *GormCatalogRepository) FindVariantByNames(ctx context.Context, productTitle, variantName string) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("product_variants.name = ? AND products.title = ?", variantName, productTitle).
		First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *GormCatalogRepository) FindInventoryByID(ctx context.Context, id uuid.UUID) (*models.InventoryMaster, error) {
	var inv models.InventoryMaster
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormCatalogRepository) DecrementStock(ctx context.Context, masterStockID uuid.UUID, amount int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryMaster{}).
		Where("id = ? AND current_stock_level >= ?", masterStockID, amount).
		UpdateColumn("current_stock_level", gorm.Expr("current_stock_level - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormCatalogRepository) IncrementStock(ctx context.Context, masterStockID uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryMaster{}).
		Where("id = ?", masterStockID).
		UpdateColumn("current_stock_level", gorm.Expr("current_stock_level + ?", amount)).
		Error
}
