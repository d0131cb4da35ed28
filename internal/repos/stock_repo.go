package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"stockroom/internal/domain"
)

type StockRepo struct{ db *sqlx.DB }

func NewStockRepo(db *sqlx.DB) *StockRepo { return &StockRepo{db: db} }

// Movements returns the stock history of a product, oldest first.
func (r *StockRepo) Movements(ctx context.Context, productID string) ([]domain.StockMovement, error) {
	out := []domain.StockMovement{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, product_id, quantity_changed, created_at
		FROM stock_movements
		WHERE product_id = ?
		ORDER BY created_at, rowid
	`, productID)
	if err != nil {
		return nil, errors.Wrap(err, "list stock movements")
	}
	return out, nil
}
