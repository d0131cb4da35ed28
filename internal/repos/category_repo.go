package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"stockroom/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY LOWER(name)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return out, nil
}

// Create inserts a category; the store assigns id and created_at.
func (r *CategoryRepo) Create(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `
		INSERT INTO categories(name) VALUES (?)
		RETURNING id, name, created_at
	`, name)
	if err != nil {
		return domain.Category{}, errors.Wrap(err, "insert category")
	}
	return c, nil
}
