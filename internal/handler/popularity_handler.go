package handler

import (
	"go-pos-register/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PopularityHandler struct {
	service      service.PopularityService
	order        service.OrderService
	defaultDays  int
	defaultLimit int
}

func NewPopularityHandler(s service.PopularityService, order service.OrderService, days, limit int) *PopularityHandler {
	return &PopularityHandler{service: s, order: order, defaultDays: days, defaultLimit: limit}
}

// GetPopularProducts returns the best sellers of the trailing window
// Query params: days, limit (defaults from config)
// GET /api/v1/popular
func (h *PopularityHandler) GetPopularProducts(c *fiber.Ctx) error {
	days := queryInt(c, "days", h.defaultDays)
	limit := queryInt(c, "limit", h.defaultLimit)

	products, err := h.service.GetPopularProducts(days, limit, h.order.EventPricing())
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   products,
	})
}
