package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"stockroom/internal/domain"
)

type SupplierRepo struct{ db *sqlx.DB }

func NewSupplierRepo(db *sqlx.DB) *SupplierRepo { return &SupplierRepo{db: db} }

func (r *SupplierRepo) List(ctx context.Context) ([]domain.Supplier, error) {
	out := []domain.Supplier{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, email, phone, created_at
		FROM suppliers
		ORDER BY LOWER(name)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list suppliers")
	}
	return out, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s domain.NewSupplier) (domain.Supplier, error) {
	var out domain.Supplier
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO suppliers(name, email, phone) VALUES (?, ?, ?)
		RETURNING id, name, email, phone, created_at
	`, s.FName, s.Email, s.Phone)
	if err != nil {
		return domain.Supplier{}, errors.Wrap(err, "insert supplier")
	}
	return out, nil
}
