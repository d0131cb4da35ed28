package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"stockroom/internal/cache"
	"stockroom/internal/domain"
	applog "stockroom/internal/log"
	"stockroom/internal/repos"
	"stockroom/internal/validate"
)

const (
	categoriesKey = "categories"
	suppliersKey  = "suppliers"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Sups  *repos.SupplierRepo
	Stock *repos.StockRepo
	Cache *cache.Cache

	v *validator.Validate
}

// NewCatalogService wires the catalog reads. c may be nil to run uncached.
func NewCatalogService(cats *repos.CategoryRepo, sups *repos.SupplierRepo, stock *repos.StockRepo, c *cache.Cache) *CatalogService {
	return &CatalogService{Cats: cats, Sups: sups, Stock: stock, Cache: c, v: validate.New()}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cached(ctx, s.Cache, categoriesKey, "categories", s.Cats.List)
}

func (s *CatalogService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return cached(ctx, s.Cache, suppliersKey, "suppliers", s.Sups.List)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in domain.NewCategory) (domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.v.Struct(&in); err != nil {
		return domain.Category{}, &ValidationError{Fields: validate.Messages(err)}
	}
	c, err := s.Cats.Create(ctx, in.Name)
	if err != nil {
		return domain.Category{}, &WriteError{Op: "insert category", Err: err}
	}
	s.invalidate(ctx, categoriesKey)
	return c, nil
}

func (s *CatalogService) CreateSupplier(ctx context.Context, in domain.NewSupplier) (domain.Supplier, error) {
	in.FName = strings.TrimSpace(in.FName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.v.Struct(&in); err != nil {
		return domain.Supplier{}, &ValidationError{Fields: validate.Messages(err)}
	}
	sup, err := s.Sups.Create(ctx, in)
	if err != nil {
		return domain.Supplier{}, &WriteError{Op: "insert supplier", Err: err}
	}
	s.invalidate(ctx, suppliersKey)
	return sup, nil
}

// Movements returns the stock history of one product.
func (s *CatalogService) Movements(ctx context.Context, productID string) ([]domain.StockMovement, error) {
	id, ok := validate.ID(productID)
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{"productID": "productID is invalid"}}
	}
	ms, err := s.Stock.Movements(ctx, id)
	if err != nil {
		return nil, &ReadError{What: "stock movements", Err: err}
	}
	return ms, nil
}

func (s *CatalogService) invalidate(ctx context.Context, key string) {
	if err := s.Cache.Delete(ctx, key); err != nil {
		applog.Warn(nil, "cache.invalidate.fail", err, map[string]any{"key": key})
	}
}

// cached reads key through c, loading from the store on a miss. Cache failures
// are logged and never fail the read.
func cached[T any](ctx context.Context, c *cache.Cache, key, what string, load func(context.Context) ([]T, error)) ([]T, error) {
	var out []T
	hit, err := c.Get(ctx, key, &out)
	if err != nil {
		applog.Warn(nil, "cache.get.fail", err, map[string]any{"key": key})
	}
	if hit {
		return out, nil
	}
	out, err = load(ctx)
	if err != nil {
		return nil, &ReadError{What: what, Err: err}
	}
	if err := c.Set(ctx, key, out); err != nil {
		applog.Warn(nil, "cache.set.fail", err, map[string]any{"key": key})
	}
	return out, nil
}
