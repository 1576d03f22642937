package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailsim/backend/internal/domain/shared"
	"github.com/retailsim/backend/internal/infrastructure/persistence/tenantscope"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, tenantscope.Register(gormDB))

	return NewGormProductRepository(gormDB), mock, mockDB
}

func productColumns() []string {
	return []string{"id", "created_at", "updated_at", "sku", "name", "description", "category_id", "product_type_id", "cost", "base_price"}
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds_existing_product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		rows := sqlmock.NewRows(productColumns()).
			AddRow(productID, time.Now(), time.Now(), "TOOL-001", "Claw Hammer", "16oz claw hammer", uuid.New(), uuid.New(),
				decimal.NewFromFloat(10.00), decimal.NewFromFloat(14.93))

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "TOOL-001", product.SKU)
		assert.True(t, product.Cost.Equal(decimal.NewFromFloat(10.00)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps_missing_row_to_not_found", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), productID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("catalog_readable_without_tenant_context", func(t *testing.T) {
		// Products are shared reference data; the isolation layer must
		// not demand a tenant for them.
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.Count(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindBySKU(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	productID := uuid.New()
	rows := sqlmock.NewRows(productColumns()).
		AddRow(productID, time.Now(), time.Now(), "PAINT-042", "Interior Eggshell", "1 gallon", uuid.New(), uuid.New(),
			decimal.NewFromFloat(20.10), decimal.NewFromFloat(30.00))

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE sku = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("PAINT-042", 1).
		WillReturnRows(rows)

	product, err := repo.FindBySKU(context.Background(), "PAINT-042")

	require.NoError(t, err)
	assert.Equal(t, "PAINT-042", product.SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	t.Run("empty_input_short_circuits", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		products, err := repo.FindByIDs(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
