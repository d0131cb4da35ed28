package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stockroom/internal/log"
	"stockroom/internal/services"
)

type InventoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products/:id/movements
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	ms, err := h.Catalog.Movements(c.UserContext(), c.Params("id"))
	if errors.Is(err, services.ErrValidation) {
		log.Security(c, "validation.fail", map[string]any{"field": "productID"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err != nil {
		return listFailure(c, "stock.list.fail", "stock movements", err)
	}
	return list(c, "Stock movements", ms)
}
