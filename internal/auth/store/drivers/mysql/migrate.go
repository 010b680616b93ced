package mysql

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/kushistore/storefront/internal/auth/store/drivers/mysql/migrations"
)

// ApplyMigrations applies any pending migrations from the embedded files.
// Each driver carries its own dialect-specific migration set.
func (s *Store) ApplyMigrations() error {
	driver, err := migratemysql.WithInstance(s.db, &migratemysql.Config{})
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", src, "", driver)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
