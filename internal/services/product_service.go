package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
	"stockroom/internal/validate"
)

// ProductStore is the part of the persistence gateway the product workflow uses.
type ProductStore interface {
	WithTx(ctx context.Context, fn func(context.Context, repos.ProductTx) error) error
	List(ctx context.Context, orderBy, order string) ([]domain.Product, error)
}

type ProductService struct {
	Store ProductStore

	// EnforceLowStockRule rejects a low-stock threshold above the opening stock.
	EnforceLowStockRule bool

	v *validator.Validate
}

func NewProductService(store ProductStore, enforceLowStock bool) *ProductService {
	return &ProductService{Store: store, EnforceLowStockRule: enforceLowStock, v: validate.New()}
}

// Validate trims and checks a creation payload without touching the store.
func (s *ProductService) Validate(in *domain.NewProduct) error {
	in.Name = strings.TrimSpace(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.SupplierID = strings.TrimSpace(in.SupplierID)

	fields := map[string]string{}
	if err := s.v.Struct(in); err != nil {
		fields = validate.Messages(err)
	}
	if s.EnforceLowStockRule && in.InStockCount != nil && in.LowStockCount != nil {
		if _, bad := fields["lowStockCount"]; !bad && *in.LowStockCount > *in.InStockCount {
			fields["lowStockCount"] = "Low stock alert cannot be higher than current stock"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreateProduct inserts the product, its opening stock movement (only when the
// stock is positive) and the supplier link as one unit of work, and returns the
// id the store assigned.
func (s *ProductService) CreateProduct(ctx context.Context, in domain.NewProduct) (string, error) {
	if err := s.Validate(&in); err != nil {
		return "", err
	}
	row := repos.ProductRow{
		Name:          in.Name,
		UnitPrice:     *in.UnitPrice,
		InStockCount:  *in.InStockCount,
		LowStockCount: *in.LowStockCount,
		CategoryID:    in.CategoryID,
	}

	var id string
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx repos.ProductTx) error {
		pid, err := tx.InsertProduct(ctx, row)
		if err != nil {
			return &WriteError{Op: "insert product", Err: err}
		}
		if pid == "" {
			return &WriteError{Op: "insert product", Err: errors.New("store returned no id")}
		}
		if row.InStockCount > 0 {
			if err := tx.InsertStockMovement(ctx, pid, row.InStockCount); err != nil {
				return &WriteError{Op: "insert stock movement", Err: err}
			}
		}
		if err := tx.InsertSupplies(ctx, in.SupplierID, pid); err != nil {
			return &WriteError{Op: "insert supplies", Err: err}
		}
		id = pid
		return nil
	})
	if err != nil {
		return "", asWriteError(err)
	}
	return id, nil
}

// ListProducts returns all products ordered by orderBy/order. Unknown columns
// fall back to createdAt and unknown directions to ascending.
func (s *ProductService) ListProducts(ctx context.Context, orderBy, order string) ([]domain.Product, error) {
	ps, err := s.Store.List(ctx, strings.TrimSpace(orderBy), validate.Order(order))
	if err != nil {
		return nil, &ReadError{What: "products", Err: err}
	}
	return ps, nil
}

// asWriteError names the failing step of errors that did not come from a
// workflow step, i.e. begin or commit.
func asWriteError(err error) error {
	var we *WriteError
	if errors.As(err, &we) {
		return we
	}
	op := "transaction"
	switch {
	case errors.Is(err, repos.ErrBegin):
		op = "begin"
	case errors.Is(err, repos.ErrCommit):
		op = "commit"
	}
	return &WriteError{Op: op, Err: err}
}
