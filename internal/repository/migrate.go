package repository

import (
	"go-pos-register/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the catalog and ledger tables.
func AutoMigrate(db *gorm.DB) error {
	return translate(db.AutoMigrate(&model.Category{}, &model.Product{}, &model.SaleRecord{}), "schema")
}
