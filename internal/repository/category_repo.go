package repository

import (
	"go-pos-register/internal/model"
	"go-pos-register/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindAllWithCounts() ([]model.CategorySummary, error)
	FindByID(id uuid.UUID) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	FindOrCreateBuiltIn(tx *gorm.DB, name string) (*model.Category, bool, error)
	Delete(id uuid.UUID) error
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db}
}

func (r *categoryRepo) Create(category *model.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
			return translate(err, "category")
		}
		if count > 0 {
			return apperror.ConstraintViolation("category %q already exists", category.Name)
		}
		return translate(tx.Create(category).Error, "category")
	})
}

func (r *categoryRepo) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, translate(err, "categories")
}

func (r *categoryRepo) FindAllWithCounts() ([]model.CategorySummary, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate(err, "categories")
	}

	type countRow struct {
		CategoryID uuid.UUID
		Total      int64
	}
	var counts []countRow
	err := r.db.Model(&model.Product{}).
		Select("category_id, COUNT(id) AS total").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, translate(err, "category product counts")
	}

	byCategory := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byCategory[c.CategoryID] = c.Total
	}

	summaries := make([]model.CategorySummary, len(categories))
	for i, c := range categories {
		summaries[i] = model.CategorySummary{Category: c, ProductCount: byCategory[c.ID]}
	}
	return summaries, nil
}

func (r *categoryRepo) FindByID(id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func (r *categoryRepo) FindByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "name = ?", name).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

// FindOrCreateBuiltIn runs inside the caller's transaction and reports
// whether the category was created. An existing category keeps its custom flag.
func (r *categoryRepo) FindOrCreateBuiltIn(tx *gorm.DB, name string) (*model.Category, bool, error) {
	var category model.Category
	err := tx.Where("name = ?", name).Limit(1).Find(&category).Error
	if err != nil {
		return nil, false, translate(err, "category")
	}
	if category.ID != uuid.Nil {
		return &category, false, nil
	}

	category = model.Category{Name: name, IsCustom: false}
	if err := tx.Create(&category).Error; err != nil {
		return nil, false, translate(err, "category")
	}
	return &category, true, nil
}

// Delete removes a custom category that owns no products. The check and the
// delete share one transaction.
func (r *categoryRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			return translate(err, "category")
		}
		if !category.IsCustom {
			return apperror.ConstraintViolation("category %q is built-in and cannot be deleted", category.Name)
		}

		var count int64
		if err := tx.Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return translate(err, "category products")
		}
		if count > 0 {
			return apperror.ConstraintViolation("category %q still has %d products", category.Name, count)
		}

		return translate(tx.Delete(&model.Category{}, "id = ?", id).Error, "category")
	})
}
