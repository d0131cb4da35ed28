package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductRow carries the columns written when a product is created.
type ProductRow struct {
	Name          string
	UnitPrice     decimal.Decimal
	InStockCount  int64
	LowStockCount int64
	CategoryID    string
}

// ProductTx holds the writes of one product creation unit of work. All calls go
// through the same transaction.
type ProductTx interface {
	InsertProduct(ctx context.Context, p ProductRow) (string, error)
	InsertStockMovement(ctx context.Context, productID string, qty int64) error
	InsertSupplies(ctx context.Context, supplierID, productID string) error
}

type productTx struct{ tx *sqlx.Tx }

// WithTx runs fn inside a transaction that commits only if fn returns nil.
func (r *ProductRepo) WithTx(ctx context.Context, fn func(context.Context, ProductTx) error) error {
	return inTx(ctx, beginner(r.db), func(tx *sqlx.Tx) error {
		return fn(ctx, &productTx{tx: tx})
	})
}

// InsertProduct returns the id the store generated for the new row.
func (t *productTx) InsertProduct(ctx context.Context, p ProductRow) (string, error) {
	var id string
	err := t.tx.GetContext(ctx, &id, `
		INSERT INTO products(name, unit_price, in_stock_count, low_stock_count, category_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, p.Name, p.UnitPrice.String(), p.InStockCount, p.LowStockCount, p.CategoryID)
	if err != nil {
		return "", errors.Wrap(err, "insert product")
	}
	return id, nil
}

func (t *productTx) InsertStockMovement(ctx context.Context, productID string, qty int64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO stock_movements(product_id, quantity_changed)
		VALUES (?, ?)
	`, productID, qty)
	return errors.Wrap(err, "insert stock movement")
}

func (t *productTx) InsertSupplies(ctx context.Context, supplierID, productID string) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO supplies(supplier_id, product_id)
		VALUES (?, ?)
	`, supplierID, productID)
	return errors.Wrap(err, "insert supplies")
}

var productSortColumns = map[string]string{
	"pName":         "p.name",
	"unitPrice":     "CAST(p.unit_price AS REAL)",
	"inStockCount":  "p.in_stock_count",
	"lowStockCount": "p.low_stock_count",
	"createdAt":     "p.created_at",
}

// productOrder whitelists the sort column; rowid breaks ties in insertion order.
func productOrder(orderBy, order string) string {
	col, ok := productSortColumns[orderBy]
	if !ok {
		col = productSortColumns["createdAt"]
	}
	dir := "ASC"
	if order == "desc" {
		dir = "DESC"
	}
	return col + " " + dir + ", p.rowid " + dir
}

// List returns every product with its category name, ordered as requested.
func (r *ProductRepo) List(ctx context.Context, orderBy, order string) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT
		  p.id, p.name, p.unit_price, p.in_stock_count, p.low_stock_count,
		  p.category_id, COALESCE(c.name, '') AS category_name, p.created_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY `+productOrder(orderBy, order))
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return out, nil
}
