package service

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go-pos-register/internal/importer"
	"go-pos-register/internal/model"
	"go-pos-register/internal/pricing"
	"go-pos-register/internal/repository"
	"go-pos-register/internal/ws"
	"go-pos-register/pkg/apperror"
	"go-pos-register/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService interface {
	ListCategories() ([]model.CategorySummary, error)
	ListProducts() (map[string][]model.CatalogEntry, error)
	Catalog(eventActive bool) ([]CatalogTab, error)
	AddCategory(name string) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
	AddProduct(req *model.Product) (*model.Product, error)
	EditProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	RecordSale(productID uuid.UUID, quantity int) (*model.SaleRecord, error)
	ImportFromBulkFile(path string) (*ImportResult, error)
	Import(r io.Reader) (*ImportResult, error)
	IsEmpty() (bool, error)
}

// CatalogTab is one tab of the product grid, with flag-adjusted prices.
type CatalogTab struct {
	Name     string          `json:"name"`
	Products []CatalogButton `json:"products"`
}

type CatalogButton struct {
	model.CatalogEntry
	DisplayPrice string `json:"display_price"`
}

type ImportResult struct {
	Rows       int `json:"rows"`
	Categories int `json:"categories_created"`
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	db           *gorm.DB
	publisher    ws.Publisher
}

func NewCatalogService(cRepo repository.CategoryRepository, pRepo repository.ProductRepository, sRepo repository.SaleRepository, db *gorm.DB, publisher ws.Publisher) CatalogService {
	if publisher == nil {
		publisher = ws.Discard
	}
	return &catalogService{
		categoryRepo: cRepo,
		productRepo:  pRepo,
		saleRepo:     sRepo,
		db:           db,
		publisher:    publisher,
	}
}

func (s *catalogService) ListCategories() ([]model.CategorySummary, error) {
	return s.categoryRepo.FindAllWithCounts()
}

// ListProducts maps each category that has products, plus Home, to its
// entries ordered by category name then product name.
func (s *catalogService) ListProducts() (map[string][]model.CatalogEntry, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	grouped := map[string][]model.CatalogEntry{model.HomeCategory: {}}
	for _, p := range products {
		entry := model.NewCatalogEntry(p)
		grouped[entry.CategoryName] = append(grouped[entry.CategoryName], entry)
		grouped[model.HomeCategory] = append(grouped[model.HomeCategory], entry)
	}
	return grouped, nil
}

// Catalog returns the tabs in display order: Home first, then categories by name.
func (s *catalogService) Catalog(eventActive bool) ([]CatalogTab, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	tabs := []CatalogTab{{Name: model.HomeCategory, Products: []CatalogButton{}}}
	index := map[string]int{}
	for _, p := range products {
		entry := model.NewCatalogEntry(p)
		button := CatalogButton{
			CatalogEntry: entry,
			DisplayPrice: pricing.Display(pricing.EffectivePrice(entry.Price, eventActive)),
		}

		tabs[0].Products = append(tabs[0].Products, button)
		i, ok := index[entry.CategoryName]
		if !ok {
			tabs = append(tabs, CatalogTab{Name: entry.CategoryName})
			i = len(tabs) - 1
			index[entry.CategoryName] = i
		}
		tabs[i].Products = append(tabs[i].Products, button)
	}
	return tabs, nil
}

func (s *catalogService) AddCategory(name string) (*model.Category, error) {
	category := &model.Category{Name: strings.TrimSpace(name), IsCustom: true}
	if err := validate(category); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(category); err != nil {
		logger.Warn().Err(err).Str("category", category.Name).Msg("add category declined")
		return nil, err
	}

	s.publisher.Publish(ws.Event{Type: ws.EventCatalogChanged, Payload: map[string]interface{}{
		"action":   "category_created",
		"category": category.Name,
	}})
	return category, nil
}

func (s *catalogService) DeleteCategory(id uuid.UUID) error {
	if err := s.categoryRepo.Delete(id); err != nil {
		logger.Warn().Err(err).Str("category_id", id.String()).Msg("delete category declined")
		return err
	}

	s.publisher.Publish(ws.Event{Type: ws.EventCatalogChanged, Payload: map[string]interface{}{
		"action":      "category_deleted",
		"category_id": id,
	}})
	return nil
}

func (s *catalogService) AddProduct(req *model.Product) (*model.Product, error) {
	normalizeProduct(req)
	req.ID = uuid.Nil
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(req); err != nil {
		logger.Warn().Err(err).Str("product", req.Name).Msg("add product declined")
		return nil, err
	}

	created, err := s.productRepo.FindByID(req.ID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{Type: ws.EventCatalogChanged, Payload: map[string]interface{}{
		"action":  "product_created",
		"product": model.NewCatalogEntry(*created),
	}})
	return created, nil
}

func (s *catalogService) EditProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	normalizeProduct(req)
	req.ID = id
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(req); err != nil {
		logger.Warn().Err(err).Str("product_id", id.String()).Msg("edit product declined")
		return nil, err
	}

	updated, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ws.Event{Type: ws.EventCatalogChanged, Payload: map[string]interface{}{
		"action":  "product_updated",
		"product": model.NewCatalogEntry(*updated),
	}})
	return updated, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	s.publisher.Publish(ws.Event{Type: ws.EventCatalogChanged, Payload: map[string]interface{}{
		"action":     "product_deleted",
		"product_id": id,
	}})
	return nil
}

// RecordSale appends a single ledger entry outside of any order.
func (s *catalogService) RecordSale(productID uuid.UUID, quantity int) (*model.SaleRecord, error) {
	if quantity <= 0 {
		return nil, apperror.InvalidInput("quantity must be positive, got %d", quantity)
	}
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, err
	}

	sale := &model.SaleRecord{
		OrderID:   uuid.New(),
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}
	if err := s.saleRepo.Create(nil, sale); err != nil {
		logger.Error().Err(err).Str("product_id", productID.String()).Msg("record sale failed")
		return nil, err
	}

	s.publisher.Publish(ws.Event{Type: ws.EventPopularRefresh})
	return sale, nil
}

func (s *catalogService) ImportFromBulkFile(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.InvalidInput("open import file: %v", err)
	}
	defer f.Close()
	return s.Import(f)
}

// Import upserts every row keyed by (category, name) in one transaction.
// Missing categories are created as built-in.
func (s *catalogService) Import(r io.Reader) (*ImportResult, error) {
	rows, err := importer.ParseCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		categories := map[string]*model.Category{}
		for _, row := range rows {
			category, ok := categories[row.Category]
			if !ok {
				var created bool
				var err error
				category, created, err = s.categoryRepo.FindOrCreateBuiltIn(tx, row.Category)
				if err != nil {
					return fmt.Errorf("line %d: %w", row.Line, err)
				}
				if created {
					result.Categories++
				}
				categories[row.Category] = category
			}

			product := &model.Product{
				CategoryID: category.ID,
				Name:       row.Name,
				Price:      row.Price,
				SKU:        row.SKU,
				Stock:      row.Stock,
			}
			if err := s.productRepo.Upsert(tx, product); err != nil {
				return fmt.Errorf("line %d: %w", row.Line, err)
			}
			result.Rows++
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("bulk import rolled back")
		return nil, err
	}

	logger.Info().Int("rows", result.Rows).Int("categories_created", result.Categories).Msg("bulk import committed")
	s.publisher.Publish(ws.Event{Type: ws.EventCatalogChanged, Payload: map[string]interface{}{
		"action": "imported",
		"rows":   result.Rows,
	}})
	return result, nil
}

func (s *catalogService) IsEmpty() (bool, error) {
	count, err := s.productRepo.Count()
	return count == 0, err
}

func normalizeProduct(p *model.Product) {
	p.Name = strings.TrimSpace(p.Name)
	if p.SKU != nil {
		sku := strings.TrimSpace(*p.SKU)
		if sku == "" {
			p.SKU = nil
		} else {
			p.SKU = &sku
		}
	}
	p.Category = nil
}

func validate(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return apperror.InvalidInput("validation failed: %s", errs[0])
	}
	return nil
}
