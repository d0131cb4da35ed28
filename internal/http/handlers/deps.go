package handlers

import (
	"github.com/jmoiron/sqlx"

	"stockroom/internal/cache"
	"stockroom/internal/config"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

type Deps struct {
	ProductHandler   *ProductHandler
	CategoryHandler  *CategoryHandler
	SupplierHandler  *SupplierHandler
	InventoryHandler *InventoryHandler
	DashboardHandler *DashboardHandler
	HealthHandler    *HealthHandler
}

// NewDeps builds every handler over one store. c may be nil.
func NewDeps(db *sqlx.DB, cfg config.Config, c *cache.Cache) *Deps {
	prodRepo := repos.NewProductRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	supRepo := repos.NewSupplierRepo(db)
	stockRepo := repos.NewStockRepo(db)

	productSvc := services.NewProductService(prodRepo, cfg.EnforceLowStockRule)
	catalogSvc := services.NewCatalogService(catRepo, supRepo, stockRepo, c)

	return &Deps{
		ProductHandler:   &ProductHandler{Products: productSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		SupplierHandler:  &SupplierHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Catalog: catalogSvc},
		DashboardHandler: &DashboardHandler{Products: productSvc, Catalog: catalogSvc},
		HealthHandler:    &HealthHandler{DB: db, Cache: c},
	}
}
