package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_category_name" json:"category_id" validate:"uuid_required"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Name       string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_product_category_name" json:"name" validate:"required,max=255"`
	Price      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"price" validate:"gte=0"`
	SKU        *string         `gorm:"type:varchar(50);uniqueIndex" json:"sku" validate:"omitempty,max=50"`
	Stock      int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
}

// SKUValue returns the sku or an empty string when unset.
func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

// CatalogEntry is one product as shown under a category tab.
type CatalogEntry struct {
	ID           uuid.UUID       `json:"id"`
	CategoryName string          `json:"category"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	SKU          string          `json:"sku"`
	Stock        int             `json:"stock"`
}

// NewCatalogEntry flattens a product with a preloaded Category.
func NewCatalogEntry(p Product) CatalogEntry {
	entry := CatalogEntry{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		SKU:   p.SKUValue(),
		Stock: p.Stock,
	}
	if p.Category != nil {
		entry.CategoryName = p.Category.Name
	}
	return entry
}
