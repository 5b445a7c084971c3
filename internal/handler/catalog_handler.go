package handler

import (
	"bytes"

	"go-pos-register/internal/model"
	"go-pos-register/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	service service.CatalogService
	order   service.OrderService
}

func NewCatalogHandler(s service.CatalogService, order service.OrderService) *CatalogHandler {
	return &CatalogHandler{service: s, order: order}
}

// ProductRequest is the admin product form.
type ProductRequest struct {
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	SKU        *string         `json:"sku"`
	Stock      int             `json:"stock"`
}

func (r ProductRequest) toModel() *model.Product {
	return &model.Product{
		CategoryID: r.CategoryID,
		Name:       r.Name,
		Price:      r.Price,
		SKU:        r.SKU,
		Stock:      r.Stock,
	}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type ImportRequest struct {
	Path string `json:"path"`
}

type categoryRow struct {
	model.CategorySummary
	Deletable bool `json:"deletable"`
}

// GetCatalog returns the product tabs with event-adjusted display prices
// GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	tabs, err := h.service.Catalog(h.order.EventPricing())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"event_pricing": h.order.EventPricing(),
		"tabs":          tabs,
	})
}

// GetCategories lists categories with product counts
// GET /api/v1/admin/categories
func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return errorResponse(c, err)
	}
	rows := make([]categoryRow, len(categories))
	for i, cat := range categories {
		rows[i] = categoryRow{CategorySummary: cat, Deletable: cat.Deletable()}
	}
	return c.JSON(rows)
}

// CreateCategory adds a custom category
// POST /api/v1/admin/categories
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	category, err := h.service.AddCategory(req.Name)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Category created", "data": category})
}

// DeleteCategory removes an empty custom category
// DELETE /api/v1/admin/categories/:id
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}
	if err := h.service.DeleteCategory(id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// GetProducts returns the catalog grouped by category, Home included
// GET /api/v1/admin/products
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(products)
}

// POST /api/v1/admin/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.AddProduct(req.toModel())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/v1/admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.EditProduct(id, req.toModel())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DELETE /api/v1/admin/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return errorResponse(c, err)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// ImportProducts runs a bulk import. A CSV request body is imported directly;
// otherwise the JSON body names a file on the till.
// POST /api/v1/admin/import
func (h *CatalogHandler) ImportProducts(c *fiber.Ctx) error {
	var (
		result *service.ImportResult
		err    error
	)
	if c.Is("csv") {
		result, err = h.service.Import(bytes.NewReader(c.Body()))
	} else {
		var req ImportRequest
		if perr := c.BodyParser(&req); perr != nil || req.Path == "" {
			return invalidJSON(c)
		}
		result, err = h.service.ImportFromBulkFile(req.Path)
	}
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Import committed", "data": result})
}

type SaleRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// RecordSale writes a ledger entry outside of the till's order
// POST /api/v1/admin/sales
func (h *CatalogHandler) RecordSale(c *fiber.Ctx) error {
	var req SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	sale, err := h.service.RecordSale(req.ProductID, req.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}
