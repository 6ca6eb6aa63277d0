package product

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-configurator/pkg/db/models"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	"github.com/angelmondragon/storefront-configurator/pkg/migrate"
)

var sqliteMigrationsDir = migrate.DirFor(filepath.Join("..", "..", migrate.DefaultDir), migrate.DialectSQLite)

// openTestDB returns an isolated in-memory sqlite database migrated with the repository's
// sqlite migrations.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:products_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Run(context.Background(), sqlDB, migrate.DialectSQLite, sqliteMigrationsDir, "up"))
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, title string, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Title:       title,
		Shape:       enums.ProductShapeSimple,
		Price:       decimal.RequireFromString(price),
		IsOrderable: true,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
