package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/internal/domain"
	"stockroom/internal/log"
	"stockroom/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/category/get
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return listFailure(c, "category.list.fail", "categories", err)
	}
	return list(c, "Categories", cats)
}

// POST /api/category/add
func (h *CategoryHandler) Add(c *fiber.Ctx) error {
	var in domain.NewCategory
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c, err)
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return writeFailure(c, "category.create.fail", "Failed to add category", err)
	}
	log.Audit(c, "category.create", map[string]any{"category_id": cat.ID, "name": cat.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Category added successfully",
		"categoryID": cat.ID,
	})
}
