package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/investtrack/backend/internal/domain/shared"
)

func TestGormInvestmentRepository_FindActiveByID(t *testing.T) {
	t.Run("scopes lookup to owner and ACTIVE status", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInvestmentRepository(db)

		userID := uuid.New()
		investmentID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "product_id", "amount", "status"}).
			AddRow(investmentID, userID, uuid.New(), decimal.NewFromInt(5000), "ACTIVE")

		mock.ExpectQuery(`SELECT \* FROM "investments" WHERE id = \$1 AND user_id = \$2 AND status = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(investmentID, userID, "ACTIVE", 1).
			WillReturnRows(rows)

		investment, err := repo.FindActiveByID(context.Background(), userID, investmentID)

		require.NoError(t, err)
		assert.Equal(t, investmentID, investment.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled or foreign investments look missing", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInvestmentRepository(db)

		userID := uuid.New()
		investmentID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "investments" WHERE id = \$1 AND user_id = \$2 AND status = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(investmentID, userID, "ACTIVE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindActiveByID(context.Background(), userID, investmentID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvestmentRepository_ExistsForProduct(t *testing.T) {
	t.Run("reports existing reference", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInvestmentRepository(db)

		productID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "investments" WHERE product_id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		exists, err := repo.ExistsForProduct(context.Background(), productID)

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports absence", func(t *testing.T) {
		db, mock, sqlDB := newMockDB(t)
		defer sqlDB.Close()
		repo := NewGormInvestmentRepository(db)

		productID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "investments" WHERE product_id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsForProduct(context.Background(), productID)

		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
