package model

// HomeCategory is the virtual tab listing every product. It is never stored.
const HomeCategory = "Home"

// Category groups products into a catalog tab.
// Built-in categories (IsCustom=false) come from bulk import and can never be
// deleted; custom ones are created from the admin view.
type Category struct {
	BaseModel
	Name     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100,ne=Home"`
	IsCustom bool      `gorm:"not null;default:false" json:"is_custom"`
	Products []Product `json:"products,omitempty" validate:"-"`
}

// CategorySummary is a category row for the admin table.
type CategorySummary struct {
	Category
	ProductCount int64 `json:"product_count"`
}

// Deletable reports whether the store would accept deleting this category.
func (c CategorySummary) Deletable() bool {
	return c.IsCustom && c.ProductCount == 0
}
