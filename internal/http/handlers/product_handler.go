package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stockroom/internal/domain"
	"stockroom/internal/log"
	"stockroom/internal/services"
)

type ProductHandler struct {
	Products *services.ProductService
}

// POST /api/products/add
func (h *ProductHandler) Add(c *fiber.Ctx) error {
	var in domain.NewProduct
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c, err)
	}
	id, err := h.Products.CreateProduct(c.UserContext(), in)
	if err != nil {
		return writeFailure(c, "product.create.fail", "Failed to add product", err)
	}
	log.Audit(c, "product.create", map[string]any{
		"product_id":  id,
		"category_id": in.CategoryID,
		"supplier_id": in.SupplierID,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Product added successfully",
		"productID": id,
	})
}

// GET /api/products/get?orderBy=&order=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Products.ListProducts(c.UserContext(), c.Query("orderBy"), c.Query("order"))
	if err != nil {
		return listFailure(c, "product.list.fail", "products", err)
	}
	return list(c, "Products", ps)
}
