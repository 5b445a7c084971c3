package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRecord is one paid order line. The ledger is append-only.
// (OrderID, ProductID) is unique so a replayed payment cannot double count.
type SaleRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sale_order_product" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sale_order_product;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_price"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

func (s *SaleRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// PopularProduct is a ranked product joined with its current catalog row.
type PopularProduct struct {
	CatalogEntry
	QuantitySold int64           `json:"quantity_sold"`
	DisplayPrice decimal.Decimal `json:"display_price"`
}
