package repos_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		INSERT INTO categories(id, name) VALUES ('cat-1', 'Beverages'), ('cat-2', 'Snacks');
		INSERT INTO suppliers(id, name) VALUES ('sup-1', 'Northwind Traders');
	`)
	require.NoError(t, err)
	return db
}

func count(t *testing.T, db *sqlx.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, query, args...))
	return n
}

func widget() repos.ProductRow {
	return repos.ProductRow{
		Name:          "Widget",
		UnitPrice:     decimal.RequireFromString("9.99"),
		InStockCount:  10,
		LowStockCount: 2,
		CategoryID:    "cat-1",
	}
}

func TestProductRepo_WithTxWritesAllRows(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)
	ctx := context.Background()

	var id string
	err := repo.WithTx(ctx, func(ctx context.Context, tx repos.ProductTx) error {
		var err error
		if id, err = tx.InsertProduct(ctx, widget()); err != nil {
			return err
		}
		if err := tx.InsertStockMovement(ctx, id, 10); err != nil {
			return err
		}
		return tx.InsertSupplies(ctx, "sup-1", id)
	})
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	require.NoError(t, err, "store should generate a uuid-shaped id, got %q", id)

	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM products WHERE id = ?`, id))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM stock_movements WHERE product_id = ? AND quantity_changed = 10`, id))
	assert.Equal(t, 1, count(t, db, `SELECT COUNT(*) FROM supplies WHERE product_id = ? AND supplier_id = 'sup-1'`, id))

	moves, err := repos.NewStockRepo(db).Movements(ctx, id)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, int64(10), moves[0].QuantityChanged)
}

func TestProductRepo_ForeignKeyFailureRollsBack(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)
	ctx := context.Background()

	err := repo.WithTx(ctx, func(ctx context.Context, tx repos.ProductTx) error {
		id, err := tx.InsertProduct(ctx, widget())
		if err != nil {
			return err
		}
		if err := tx.InsertStockMovement(ctx, id, 10); err != nil {
			return err
		}
		return tx.InsertSupplies(ctx, "no-such-supplier", id)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert supplies")

	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM products`))
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM stock_movements`))
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM supplies`))
}

func TestProductRepo_UnknownCategoryIsRejected(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)

	row := widget()
	row.CategoryID = "cat-missing"
	err := repo.WithTx(context.Background(), func(ctx context.Context, tx repos.ProductTx) error {
		_, err := tx.InsertProduct(ctx, row)
		return err
	})
	require.Error(t, err)
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM products`))
}

func TestProductRepo_ListOrdering(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO products(id, name, unit_price, in_stock_count, low_stock_count, category_id, created_at) VALUES
		  ('p-a', 'Apple Juice', '2.50',   5, 1, 'cat-1', '2024-01-01T10:00:00.000Z'),
		  ('p-b', 'Bread',       '10.00', 20, 4, 'cat-2', '2024-01-02T10:00:00.000Z'),
		  ('p-c', 'Crackers',    '3.75',   0, 0, 'cat-2', '2024-01-02T10:00:00.000Z')
	`)
	require.NoError(t, err)

	got, err := repo.List(ctx, "createdAt", "desc")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"p-c", "p-b", "p-a"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].CreatedAt, got[i].CreatedAt)
	}

	got, err = repo.List(ctx, "unitPrice", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"p-a", "p-c", "p-b"}, ids(got), "price must sort numerically")

	got, err = repo.List(ctx, "pName; DROP TABLE products", "sideways")
	require.NoError(t, err)
	assert.Equal(t, []string{"p-a", "p-b", "p-c"}, ids(got))

	assert.Equal(t, "Beverages", got[0].CategoryName)
	assert.True(t, got[0].UnitPrice.Equal(decimal.RequireFromString("2.5")))
}

func TestProductRepo_ListEmptyIsNotNil(t *testing.T) {
	db := memdb(t)
	got, err := repos.NewProductRepo(db).List(context.Background(), "", "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func ids(ps []domain.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestOpenDB_ForeignKeysOnEveryConnection(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "fk.db")
	db, err := repos.OpenDB(dsn)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	_, err = db.Exec(`INSERT INTO categories(id, name) VALUES ('cat-1', 'Beverages')`)
	require.NoError(t, err)

	// Keep one connection checked out so the workflow runs on another.
	held, err := db.Conn(ctx)
	require.NoError(t, err)
	defer held.Close()
	var on int
	require.NoError(t, held.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	err = repos.NewProductRepo(db).WithTx(ctx, func(ctx context.Context, tx repos.ProductTx) error {
		id, err := tx.InsertProduct(ctx, widget())
		if err != nil {
			return err
		}
		return tx.InsertSupplies(ctx, "sup-missing", id)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert supplies")
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM supplies`))
	assert.Zero(t, count(t, db, `SELECT COUNT(*) FROM products`))
}
