package repos

import (
	"context"
	"embed"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	applog "stockroom/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

const foreignKeysPragma = "_pragma=foreign_keys(1)"

// withForeignKeys makes the driver enable foreign keys on every connection it
// opens; a PRAGMA statement would only reach one pooled connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, foreignKeysPragma) {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + foreignKeysPragma
	}
	return dsn + "?" + foreignKeysPragma
}

// OpenDB opens the SQLite store and brings its schema up to date.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// Every connection to ":memory:" is a fresh database; keep a single one.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	if err = Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations. It leaves db open.
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return errors.Wrap(err, "init migrations")
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

// SeedIfEmpty inserts demo categories and suppliers when the store has none.
// Safe to run on every start.
func SeedIfEmpty(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT (SELECT COUNT(*) FROM categories) + (SELECT COUNT(*) FROM suppliers)`); err != nil {
		return errors.Wrap(err, "count catalog rows")
	}
	if n > 0 {
		return nil
	}
	return Seed(ctx, db)
}

// Seed inserts the demo catalog, skipping names that already exist.
func Seed(ctx context.Context, db *sqlx.DB) error {
	applog.Printf("[seed] inserting demo categories/suppliers")

	categories := []string{"Beverages", "Snacks", "Household", "Stationery", "Personal Care"}
	suppliers := []struct{ Name, Email, Phone string }{
		{"Northwind Traders", "orders@northwind.test", "555-0100"},
		{"Contoso Wholesale", "sales@contoso.test", "555-0142"},
		{"Fabrikam Supply Co.", "hello@fabrikam.test", ""},
	}

	return inTx(ctx, beginner(db), func(tx *sqlx.Tx) error {
		for _, name := range categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO categories(id, name)
				SELECT ?, ?
				WHERE NOT EXISTS (SELECT 1 FROM categories WHERE LOWER(name) = LOWER(?))
			`, uuid.NewString(), name, name); err != nil {
				return errors.Wrapf(err, "seed category %q", name)
			}
		}
		for _, s := range suppliers {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO suppliers(id, name, email, phone)
				SELECT ?, ?, ?, ?
				WHERE NOT EXISTS (SELECT 1 FROM suppliers WHERE LOWER(name) = LOWER(?))
			`, uuid.NewString(), s.Name, s.Email, s.Phone, s.Name); err != nil {
				return errors.Wrapf(err, "seed supplier %q", s.Name)
			}
		}
		return nil
	})
}
