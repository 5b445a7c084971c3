package handler

import (
	"strconv"

	"go-pos-register/internal/service"
	"go-pos-register/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// ProductClickedRequest identifies a product either by id or by the
// (category, name) pair shown on the button.
type ProductClickedRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	Category  string     `json:"category"`
	Name      string     `json:"name"`
}

// GetOrder returns the running order
// GET /api/v1/order
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	return c.JSON(h.service.Snapshot())
}

// ProductClicked adds one unit of a product to the order. A product that
// vanished from the catalog is not an error for the till: the unchanged
// order is returned.
// POST /api/v1/order/items
func (h *OrderHandler) ProductClicked(c *fiber.Ctx) error {
	var req ProductClickedRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	var err error
	switch {
	case req.ProductID != nil:
		_, err = h.service.AddProduct(*req.ProductID)
	case req.Category != "" && req.Name != "":
		_, err = h.service.AddProductByName(req.Category, req.Name)
	default:
		return errorResponse(c, apperror.InvalidInput("product_id or category and name are required"))
	}

	if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
		return errorResponse(c, err)
	}
	return c.JSON(h.service.Snapshot())
}

// RemoveClicked removes one unit from the line at :index (0-based)
// DELETE /api/v1/order/items/:index
func (h *OrderHandler) RemoveClicked(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return errorResponse(c, apperror.InvalidInput("invalid line index %q", c.Params("index")))
	}

	order, err := h.service.RemoveOne(index)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(order)
}

// PayClicked commits the order to the sales ledger
// POST /api/v1/order/pay
func (h *OrderHandler) PayClicked(c *fiber.Ctx) error {
	receipt, err := h.service.Pay()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"paid":    receipt != nil,
		"receipt": receipt,
		"order":   h.service.Snapshot(),
	})
}

// EventToggleClicked flips event pricing and reprices the order
// POST /api/v1/pricing/event/toggle
func (h *OrderHandler) EventToggleClicked(c *fiber.Ctx) error {
	order, err := h.service.ToggleEventPricing()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(order)
}
