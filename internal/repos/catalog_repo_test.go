package repos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

func TestCategoryRepo_CreateAndList(t *testing.T) {
	db := memdb(t)
	repo := repos.NewCategoryRepo(db)
	ctx := context.Background()

	c, err := repo.Create(ctx, "Household")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Household", c.Name)
	assert.NotEmpty(t, c.CreatedAt)

	_, err = repo.Create(ctx, "household")
	require.Error(t, err, "category names are unique regardless of case")

	cats, err := repo.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Beverages", "Household", "Snacks"}, names)
}

func TestSupplierRepo_CreateAndList(t *testing.T) {
	db := memdb(t)
	repo := repos.NewSupplierRepo(db)
	ctx := context.Background()

	s, err := repo.Create(ctx, domain.NewSupplier{FName: "Contoso", Email: "sales@contoso.test"})
	require.NoError(t, err)
	assert.Equal(t, "Contoso", s.FName)
	assert.Equal(t, "sales@contoso.test", s.Email)

	sups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sups, 2)
	assert.Equal(t, "Contoso", sups[0].FName)
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, repos.SeedIfEmpty(ctx, db))
	first := count(t, db, `SELECT COUNT(*) FROM categories`)
	require.Positive(t, first)

	require.NoError(t, repos.Seed(ctx, db))
	require.NoError(t, repos.SeedIfEmpty(ctx, db))
	assert.Equal(t, first, count(t, db, `SELECT COUNT(*) FROM categories`))
}

func TestMigrateTwiceIsNoop(t *testing.T) {
	db := memdb(t)
	require.NoError(t, repos.Migrate(db))
}
