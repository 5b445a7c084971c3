package repository

import (
	"go-pos-register/internal/model"
	"go-pos-register/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDs(ids []uuid.UUID) ([]model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindByCategoryAndName(category, name string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	Count() (int64, error)
	Upsert(tx *gorm.DB, product *model.Product) error
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// catalogOrder sorts by category name then product name.
func catalogOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").
		Joins("JOIN categories ON categories.id = products.category_id").
		Order("categories.name ASC, products.name ASC")
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkProductKeys(tx, product, uuid.Nil); err != nil {
			return err
		}
		return translate(tx.Create(product).Error, "product")
	})
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Scopes(catalogOrder).Find(&products).Error
	return products, translate(err, "products")
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

func (r *productRepo) FindByIDs(ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Preload("Category").Where("id IN ?", ids).Find(&products).Error
	return products, translate(err, "products")
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, "sku = ?", sku).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

// FindByCategoryAndName matches names exactly. Under the virtual Home
// category the first match in catalog order wins.
func (r *productRepo) FindByCategoryAndName(category, name string) (*model.Product, error) {
	var product model.Product
	q := r.db.Scopes(catalogOrder).Where("products.name = ?", name)
	if category != model.HomeCategory {
		q = q.Where("categories.name = ?", category)
	}
	if err := q.First(&product).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.First(&existing, "id = ?", product.ID).Error; err != nil {
			return translate(err, "product")
		}
		if err := checkProductKeys(tx, product, product.ID); err != nil {
			return err
		}
		err := tx.Model(&existing).Updates(map[string]interface{}{
			"category_id": product.CategoryID,
			"name":        product.Name,
			"price":       product.Price,
			"sku":         product.SKU,
			"stock":       product.Stock,
		}).Error
		return translate(err, "product")
	})
}

func (r *productRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product not found")
	}
	return nil
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, translate(err, "products")
}

// Upsert inserts or replaces the product keyed by (category_id, name).
// It runs inside the caller's transaction.
func (r *productRepo) Upsert(tx *gorm.DB, product *model.Product) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "sku", "stock", "updated_at"}),
	}).Create(product).Error
	return translate(err, "product "+product.Name)
}

// DecrementStock takes tx so it can share the payment transaction.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return translate(res.Error, "product stock")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return translate(err, "product")
	}
	return apperror.ConstraintViolation("insufficient stock for %q: %d left, %d requested", product.Name, product.Stock, quantity)
}

// checkProductKeys rejects a sku or (category, name) already held by another
// product, and a category that does not exist.
func checkProductKeys(tx *gorm.DB, product *model.Product, self uuid.UUID) error {
	var category model.Category
	if err := tx.First(&category, "id = ?", product.CategoryID).Error; err != nil {
		return translate(err, "category")
	}

	var count int64
	err := tx.Model(&model.Product{}).
		Where("category_id = ? AND name = ? AND id <> ?", product.CategoryID, product.Name, self).
		Count(&count).Error
	if err != nil {
		return translate(err, "product")
	}
	if count > 0 {
		return apperror.ConstraintViolation("product %q already exists in category %q", product.Name, category.Name)
	}

	if product.SKU == nil {
		return nil
	}
	err = tx.Model(&model.Product{}).
		Where("sku = ? AND id <> ?", *product.SKU, self).
		Count(&count).Error
	if err != nil {
		return translate(err, "product")
	}
	if count > 0 {
		return apperror.ConstraintViolation("SKU %q already exists", *product.SKU)
	}
	return nil
}
