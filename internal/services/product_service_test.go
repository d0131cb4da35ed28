package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

// fakeStore records the workflow's writes and commits them only when fn succeeds.
type fakeStore struct {
	products  []repos.ProductRow
	movements []int64
	supplies  [][2]string

	failOn    string
	emptyID   bool
	beginErr  error
	commitErr error
	listErr   error
	nextID    int
}

type fakeTx struct {
	s         *fakeStore
	products  []repos.ProductRow
	movements []int64
	supplies  [][2]string
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(context.Context, repos.ProductTx) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	tx := &fakeTx{s: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if s.commitErr != nil {
		return s.commitErr
	}
	s.products = append(s.products, tx.products...)
	s.movements = append(s.movements, tx.movements...)
	s.supplies = append(s.supplies, tx.supplies...)
	return nil
}

func (s *fakeStore) List(context.Context, string, string) ([]domain.Product, error) {
	return []domain.Product{}, s.listErr
}

func (t *fakeTx) InsertProduct(_ context.Context, p repos.ProductRow) (string, error) {
	if t.s.failOn == "product" {
		return "", errors.New("disk full")
	}
	t.products = append(t.products, p)
	if t.s.emptyID {
		return "", nil
	}
	t.s.nextID++
	return "p-" + string(rune('0'+t.s.nextID)), nil
}

func (t *fakeTx) InsertStockMovement(_ context.Context, _ string, qty int64) error {
	if t.s.failOn == "movement" {
		return errors.New("disk full")
	}
	t.movements = append(t.movements, qty)
	return nil
}

func (t *fakeTx) InsertSupplies(_ context.Context, supplierID, productID string) error {
	if t.s.failOn == "supplies" {
		return errors.New("FOREIGN KEY constraint failed")
	}
	t.supplies = append(t.supplies, [2]string{supplierID, productID})
	return nil
}

func ptr[T any](v T) *T { return &v }

func validInput() domain.NewProduct {
	return domain.NewProduct{
		Name:          "Widget",
		UnitPrice:     ptr(decimal.RequireFromString("9.99")),
		InStockCount:  ptr(int64(10)),
		LowStockCount: ptr(int64(2)),
		CategoryID:    "cat-1",
		SupplierID:    "sup-1",
	}
}

func TestCreateProduct_WritesAllThreeRows(t *testing.T) {
	store := &fakeStore{}
	svc := services.NewProductService(store, true)

	id, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "p-1", id)
	require.Len(t, store.products, 1)
	assert.Equal(t, []int64{10}, store.movements)
	assert.Equal(t, [][2]string{{"sup-1", "p-1"}}, store.supplies)
}

func TestCreateProduct_ZeroStockSkipsMovement(t *testing.T) {
	store := &fakeStore{}
	svc := services.NewProductService(store, true)

	in := validInput()
	in.InStockCount = ptr(int64(0))
	in.LowStockCount = ptr(int64(0))
	_, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, store.products, 1)
	assert.Empty(t, store.movements)
	assert.Len(t, store.supplies, 1)
}

func TestCreateProduct_StepFailuresWriteNothing(t *testing.T) {
	cases := map[string]string{
		"product":  "insert product",
		"movement": "insert stock movement",
		"supplies": "insert supplies",
	}
	for failOn, op := range cases {
		t.Run(failOn, func(t *testing.T) {
			store := &fakeStore{failOn: failOn}
			svc := services.NewProductService(store, true)

			id, err := svc.CreateProduct(context.Background(), validInput())
			require.Error(t, err)
			assert.Empty(t, id)

			var we *services.WriteError
			require.ErrorAs(t, err, &we)
			assert.Equal(t, op, we.Op)
			assert.Empty(t, store.products)
			assert.Empty(t, store.movements)
			assert.Empty(t, store.supplies)
		})
	}
}

func TestCreateProduct_EmptyIDIsWriteFailure(t *testing.T) {
	store := &fakeStore{emptyID: true}
	svc := services.NewProductService(store, true)

	_, err := svc.CreateProduct(context.Background(), validInput())
	var we *services.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "insert product", we.Op)
	assert.Empty(t, store.products)
}

func TestCreateProduct_BeginFailure(t *testing.T) {
	store := &fakeStore{beginErr: fmt.Errorf("%w: %w", repos.ErrBegin, errors.New("database is locked"))}
	svc := services.NewProductService(store, true)

	_, err := svc.CreateProduct(context.Background(), validInput())
	var we *services.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "begin", we.Op)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestCreateProduct_CommitFailure(t *testing.T) {
	store := &fakeStore{commitErr: fmt.Errorf("%w: %w", repos.ErrCommit, errors.New("disk I/O error"))}
	svc := services.NewProductService(store, true)

	id, err := svc.CreateProduct(context.Background(), validInput())
	assert.Empty(t, id)
	var we *services.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "commit", we.Op)
	assert.Empty(t, store.products)
}

func TestCreateProduct_UnmarkedStoreErrorIsTransaction(t *testing.T) {
	// Messages that merely look like a begin failure are not one.
	store := &fakeStore{beginErr: errors.New("begin tx: looks familiar")}
	svc := services.NewProductService(store, true)

	_, err := svc.CreateProduct(context.Background(), validInput())
	var we *services.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "transaction", we.Op)
}

func TestCreateProduct_ValidationRejectsBeforeWrites(t *testing.T) {
	cases := map[string]struct {
		mutate func(*domain.NewProduct)
		field  string
	}{
		"negative price":     {func(p *domain.NewProduct) { p.UnitPrice = ptr(decimal.NewFromInt(-5)) }, "unitPrice"},
		"three decimals":     {func(p *domain.NewProduct) { p.UnitPrice = ptr(decimal.RequireFromString("1.005")) }, "unitPrice"},
		"price too high":     {func(p *domain.NewProduct) { p.UnitPrice = ptr(decimal.RequireFromString("1000000")) }, "unitPrice"},
		"missing price":      {func(p *domain.NewProduct) { p.UnitPrice = nil }, "unitPrice"},
		"blank name":         {func(p *domain.NewProduct) { p.Name = "   " }, "pName"},
		"long name":          {func(p *domain.NewProduct) { p.Name = strings.Repeat("a", 101) }, "pName"},
		"negative stock":     {func(p *domain.NewProduct) { p.InStockCount = ptr(int64(-1)) }, "inStockCount"},
		"stock overflow":     {func(p *domain.NewProduct) { p.InStockCount = ptr(int64(1) << 31) }, "inStockCount"},
		"missing low stock":  {func(p *domain.NewProduct) { p.LowStockCount = nil }, "lowStockCount"},
		"low above stock":    {func(p *domain.NewProduct) { p.LowStockCount = ptr(int64(11)) }, "lowStockCount"},
		"missing category":   {func(p *domain.NewProduct) { p.CategoryID = "" }, "categoryID"},
		"malformed supplier": {func(p *domain.NewProduct) { p.SupplierID = "sup 1; --" }, "supplierID"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{}
			svc := services.NewProductService(store, true)

			in := validInput()
			tc.mutate(&in)
			_, err := svc.CreateProduct(context.Background(), in)
			require.ErrorIs(t, err, services.ErrValidation)

			var ve *services.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
			assert.Empty(t, store.products)
		})
	}
}

func TestCreateProduct_LowStockRuleCanBeDisabled(t *testing.T) {
	store := &fakeStore{}
	svc := services.NewProductService(store, false)

	in := validInput()
	in.LowStockCount = ptr(int64(50))
	_, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, store.products, 1)
}

func TestCreateProduct_TrimsName(t *testing.T) {
	store := &fakeStore{}
	svc := services.NewProductService(store, true)

	in := validInput()
	in.Name = "  Widget  "
	_, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Widget", store.products[0].Name)
}

func TestListProducts_WrapsReadFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("no such table: products")}
	svc := services.NewProductService(store, true)

	_, err := svc.ListProducts(context.Background(), "pName", "asc")
	var re *services.ReadError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "products", re.What)
	assert.Contains(t, err.Error(), "Failed to fetch products")
}
