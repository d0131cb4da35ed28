package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/services"
)

type DashboardHandler struct {
	Products *services.ProductService
	Catalog  *services.CatalogService
}

type snapshot struct {
	Products   []domain.Product
	Categories []domain.Category
	Suppliers  []domain.Supplier
}

// load fetches the three lists concurrently; the first failure cancels the rest.
func (h *DashboardHandler) load(ctx context.Context) (snapshot, error) {
	var s snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Products, err = h.Products.ListProducts(ctx, "createdAt", "desc")
		return err
	})
	g.Go(func() (err error) {
		s.Categories, err = h.Catalog.ListCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.Suppliers, err = h.Catalog.ListSuppliers(ctx)
		return err
	})
	return s, g.Wait()
}

// GET /
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	s, err := h.load(c.UserContext())
	if err != nil {
		applog.Error(c, "dashboard.load.fail", err, nil)
		return c.Status(500).Render("error", fiber.Map{"Message": "Could not load the dashboard"})
	}
	low := make([]domain.Product, 0)
	for _, p := range s.Products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return render(c, "home", fiber.Map{
		"Title":         "Dashboard",
		"ProductCount":  len(s.Products),
		"CategoryCount": len(s.Categories),
		"SupplierCount": len(s.Suppliers),
		"LowStock":      low,
	})
}

// GET /products
func (h *DashboardHandler) ProductsPage(c *fiber.Ctx) error {
	s, err := h.load(c.UserContext())
	if err != nil {
		applog.Error(c, "dashboard.products.fail", err, nil)
		return c.Status(500).Render("error", fiber.Map{"Message": "Failed to load data"})
	}
	return render(c, "products", fiber.Map{
		"Title":      "Products",
		"Products":   s.Products,
		"Categories": s.Categories,
		"Suppliers":  s.Suppliers,
	})
}

// GET /categories
func (h *DashboardHandler) CategoriesPage(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		applog.Error(c, "dashboard.categories.fail", err, nil)
		return c.Status(500).Render("error", fiber.Map{"Message": "Could not load categories"})
	}
	return render(c, "categories", fiber.Map{"Title": "Categories", "Categories": cats})
}

// GET /suppliers
func (h *DashboardHandler) SuppliersPage(c *fiber.Ctx) error {
	sups, err := h.Catalog.ListSuppliers(c.UserContext())
	if err != nil {
		applog.Error(c, "dashboard.suppliers.fail", err, nil)
		return c.Status(500).Render("error", fiber.Map{"Message": "Could not load suppliers"})
	}
	return render(c, "suppliers", fiber.Map{"Title": "Suppliers", "Suppliers": sups})
}
