package repository

import (
	"time"

	"go-pos-register/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.SaleRecord) error
	ExistsForOrder(tx *gorm.DB, orderID uuid.UUID) (bool, error)
	FindByOrder(orderID uuid.UUID) ([]model.SaleRecord, error)
	FindAll() ([]model.SaleRecord, error)
	GetTopSelling(since time.Time, limit int) ([]ProductSalesData, error)
}

// ProductSalesData is the quantity sold per product over a window.
type ProductSalesData struct {
	ProductID     uuid.UUID `json:"product_id"`
	TotalQuantity int64     `json:"total_quantity"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create appends to the ledger. Pass nil tx to write outside a transaction.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.SaleRecord) error {
	if tx == nil {
		tx = r.db
	}
	return translate(tx.Create(sale).Error, "sale record")
}

func (r *saleRepo) ExistsForOrder(tx *gorm.DB, orderID uuid.UUID) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.Model(&model.SaleRecord{}).Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return false, translate(err, "sale records")
	}
	return count > 0, nil
}

func (r *saleRepo) FindByOrder(orderID uuid.UUID) ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&sales).Error
	return sales, translate(err, "sale records")
}

func (r *saleRepo) FindAll() ([]model.SaleRecord, error) {
	var sales []model.SaleRecord
	err := r.db.Order("created_at DESC").Find(&sales).Error
	return sales, translate(err, "sale records")
}

// GetTopSelling ranks products still in the catalog by quantity sold since
// the given time, ties broken by product name.
func (r *saleRepo) GetTopSelling(since time.Time, limit int) ([]ProductSalesData, error) {
	var results []ProductSalesData

	rows, err := r.db.Model(&model.SaleRecord{}).
		Select(`
			sale_records.product_id AS product_id,
			COALESCE(SUM(sale_records.quantity), 0) AS total_quantity
		`).
		Joins("JOIN products ON products.id = sale_records.product_id").
		Where("sale_records.created_at >= ?", since).
		Group("sale_records.product_id, products.name").
		Order("total_quantity DESC, products.name ASC").
		Limit(limit).
		Rows()

	if err != nil {
		return nil, translate(err, "sales ranking")
	}
	defer rows.Close()

	for rows.Next() {
		var data ProductSalesData
		if err := rows.Scan(&data.ProductID, &data.TotalQuantity); err != nil {
			return nil, translate(err, "sales ranking")
		}
		results = append(results, data)
	}

	return results, translate(rows.Err(), "sales ranking")
}
