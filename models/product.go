package models

import (
	"time"

	"github.com/google/uuid"
)

// Variant types form a closed set: how a product is packaged for sale.
const (
	VariantTypeSingle = "single"
	VariantTypePack   = "pack"
	VariantTypeCrate  = "crate"
)

type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Slug            string    `gorm:"uniqueIndex" json:"slug"`
	Brand           string    `json:"brand"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	IsFeatured      bool      `gorm:"default:false" json:"is_featured"`
	DiscountPercent float64   `gorm:"default:0" json:"discount_percent"`
	DiscountStartAt *time.Time `json:"discount_start_at"`
	DiscountEndAt   *time.Time `json:"discount_end_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Variants  []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Inventory *InventoryMaster `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"inventory,omitempty"`
}

// ProductVariant is a sellable unit (Single, 6-Pack, Crate of 24). Stock is
// not tracked per variant: every variant of a product draws down the same
// InventoryMaster pool, consuming ConsumptionFactor physical units per sale.
type ProductVariant struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	MasterStockID     uuid.UUID `gorm:"type:uuid;not null;index" json:"master_stock_id"`
	Name              string    `gorm:"not null" json:"name"`
	Type              string    `gorm:"type:varchar(10);not null;default:'single'" json:"type"`
	Price             float64   `gorm:"not null" json:"price"`
	ConsumptionFactor int       `gorm:"not null;default:1" json:"consumption_factor"`
	SKU               string    `json:"sku"`

	Product   *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Inventory *InventoryMaster `gorm:"foreignKey:MasterStockID" json:"inventory,omitempty"`
}

// InventoryMaster is the shared physical stock pool for one product, counted
// in the smallest physical unit (bottles). Level never goes negative: every
// mutation path validates before writing.
type InventoryMaster struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	ProductName       string    `json:"product_name"`
	CurrentStockLevel int       `gorm:"not null;default:0" json:"current_stock_level"`
	LowStockThreshold int       `gorm:"not null;default:0" json:"low_stock_threshold"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
