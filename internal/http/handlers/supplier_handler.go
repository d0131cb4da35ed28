package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/internal/domain"
	"stockroom/internal/log"
	"stockroom/internal/services"
)

type SupplierHandler struct {
	Catalog *services.CatalogService
}

// GET /api/supplier/get
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	sups, err := h.Catalog.ListSuppliers(c.UserContext())
	if err != nil {
		return listFailure(c, "supplier.list.fail", "suppliers", err)
	}
	return list(c, "Suppliers", sups)
}

// POST /api/supplier/add
func (h *SupplierHandler) Add(c *fiber.Ctx) error {
	var in domain.NewSupplier
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c, err)
	}
	sup, err := h.Catalog.CreateSupplier(c.UserContext(), in)
	if err != nil {
		return writeFailure(c, "supplier.create.fail", "Failed to add supplier", err)
	}
	log.Audit(c, "supplier.create", map[string]any{"supplier_id": sup.ID, "name": sup.FName})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Supplier added successfully",
		"supplierID": sup.ID,
	})
}
