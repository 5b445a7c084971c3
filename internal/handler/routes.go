package handler

import (
	"go-pos-register/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Order      *OrderHandler
	Catalog    *CatalogHandler
	Popularity *PopularityHandler
}

// SetupRoutes mounts the till API. Admin routes exist only when enableAdmin
// is set; hub may be nil to skip the WebSocket endpoint.
func SetupRoutes(app *fiber.App, h Handlers, hub *ws.Hub, enableAdmin bool) {
	api := app.Group("/api/v1")

	// ============ TILL ROUTES ============
	api.Get("/catalog", h.Catalog.GetCatalog)
	api.Get("/popular", h.Popularity.GetPopularProducts)

	api.Get("/order", h.Order.GetOrder)
	api.Post("/order/items", h.Order.ProductClicked)
	api.Delete("/order/items/:index", h.Order.RemoveClicked)
	api.Post("/order/pay", h.Order.PayClicked)
	api.Post("/pricing/event/toggle", h.Order.EventToggleClicked)

	// ============ ADMIN ROUTES ============
	if enableAdmin {
		admin := api.Group("/admin")
		admin.Get("/categories", h.Catalog.GetCategories)
		admin.Post("/categories", h.Catalog.CreateCategory)
		admin.Delete("/categories/:id", h.Catalog.DeleteCategory)

		admin.Get("/products", h.Catalog.GetProducts)
		admin.Post("/products", h.Catalog.CreateProduct)
		admin.Put("/products/:id", h.Catalog.UpdateProduct)
		admin.Delete("/products/:id", h.Catalog.DeleteProduct)

		admin.Post("/import", h.Catalog.ImportProducts)
		admin.Post("/sales", h.Catalog.RecordSale)
	}

	// WebSocket Route
	if hub == nil {
		return
	}
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
