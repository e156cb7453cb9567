// Package integration provides integration testing for the InvestTrack backend.
// This file covers the GORM repositories against a real PostgreSQL instance.
package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/investtrack/backend/internal/domain/audit"
	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/identity"
	"github.com/investtrack/backend/internal/domain/portfolio"
	"github.com/investtrack/backend/internal/domain/shared"
	"github.com/investtrack/backend/internal/infrastructure/persistence"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func TestGormUserRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	repo := persistence.NewGormUserRepository(tdb.DB)
	ctx := context.Background()

	user, err := identity.NewUser("Asha", "Patel", "Asha.Patel@Example.com", "S3curePass!", catalog.RiskLevelModerate)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	t.Run("find by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "asha.patel@example.com", found.Email)
		assert.Equal(t, catalog.RiskLevelModerate, found.RiskAppetite)
	})

	t.Run("find by email normalizes case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  ASHA.PATEL@example.com ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "asha.patel@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing user returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_Queries(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	repo := persistence.NewGormProductRepository(tdb.DB)
	ctx := context.Background()

	mk := func(name string, it catalog.InvestmentType, risk catalog.RiskLevel, yield string) *catalog.Product {
		p, err := catalog.NewProduct(name, it, 12, decimal.RequireFromString(yield), risk, nil, nil, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
		return p
	}

	mk("Treasury Bond", catalog.InvestmentTypeBond, catalog.RiskLevelLow, "5.5")
	mk("Index Fund", catalog.InvestmentTypeMutualFund, catalog.RiskLevelModerate, "10.0")
	highYield := mk("Leveraged ETF", catalog.InvestmentTypeETF, catalog.RiskLevelHigh, "18.0")

	t.Run("find by risk level orders by yield", func(t *testing.T) {
		mk("Growth ETF", catalog.InvestmentTypeETF, catalog.RiskLevelHigh, "14.0")

		products, err := repo.FindByRiskLevel(ctx, catalog.RiskLevelHigh, 5)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, highYield.ID, products[0].ID, "highest yield comes first")
	})

	t.Run("find all with type filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"investment_type": "BOND"}

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Treasury Bond", products[0].Name)
	})

	t.Run("search by name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "index"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Index Fund", products[0].Name)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		doomed := mk("Doomed FD", catalog.InvestmentTypeFixedDep, catalog.RiskLevelLow, "6.0")
		require.NoError(t, repo.Delete(ctx, doomed.ID))

		_, err := repo.FindByID(ctx, doomed.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvestmentRepository_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	ctx := context.Background()

	userRepo := persistence.NewGormUserRepository(tdb.DB)
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	repo := persistence.NewGormInvestmentRepository(tdb.DB)

	user, err := identity.NewUser("Dev", "Rao", "dev@example.com", "S3curePass!", catalog.RiskLevelHigh)
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, user))

	product, err := catalog.NewProduct("Corporate Bond", catalog.InvestmentTypeBond, 24, decimal.RequireFromString("7.5"), catalog.RiskLevelModerate, nil, nil, "")
	require.NoError(t, err)
	require.NoError(t, productRepo.Save(ctx, product))

	investment, err := portfolio.NewInvestment(user.ID, product, decimal.NewFromInt(20000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, investment))

	t.Run("find active by ID scopes to owner", func(t *testing.T) {
		found, err := repo.FindActiveByID(ctx, user.ID, investment.ID)
		require.NoError(t, err)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(20000)))

		_, err = repo.FindActiveByID(ctx, uuid.New(), investment.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by user preloads the product", func(t *testing.T) {
		investments, err := repo.FindByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, investments, 1)
		require.NotNil(t, investments[0].Product)
		assert.Equal(t, "Corporate Bond", investments[0].Product.Name)
	})

	t.Run("exists for product", func(t *testing.T) {
		exists, err := repo.ExistsForProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForProduct(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("cancelled investment leaves the active scope", func(t *testing.T) {
		require.NoError(t, investment.Cancel())
		require.NoError(t, repo.Save(ctx, investment))

		_, err := repo.FindActiveByID(ctx, user.ID, investment.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByID(ctx, user.ID, investment.ID)
		require.NoError(t, err)
		assert.Equal(t, portfolio.InvestmentStatusCancelled, found.Status)
	})
}

func TestSeedHelpers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	ctx := context.Background()

	userID := tdb.CreateTestUser("seeded@example.com", "S3curePass!", "HIGH")
	productID := tdb.CreateTestProduct("Seeded Bond", "BOND", "LOW", decimal.RequireFromString("5.0"), 12)

	userRepo := persistence.NewGormUserRepository(tdb.DB)
	user, err := userRepo.FindByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("S3curePass!"), "Seeded hash must verify")

	productRepo := persistence.NewGormProductRepository(tdb.DB)
	product, err := productRepo.FindByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "Seeded Bond", product.Name)

	t.Run("transaction rollback leaves no trace", func(t *testing.T) {
		doomedID := uuid.New()
		tdb.WithTransaction(func(tx *gorm.DB) {
			err := tx.Exec(`
				INSERT INTO investment_products
					(id, created_at, updated_at, name, investment_type, tenure_months, annual_yield, risk_level, min_investment)
				VALUES (?, NOW(), NOW(), 'Rolled Back', 'FD', 6, 4.0, 'LOW', 1000)
			`, doomedID).Error
			require.NoError(t, err)
		})

		_, err := productRepo.FindByID(ctx, doomedID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTransactionLogRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	repo := persistence.NewGormTransactionLogRepository(tdb.DB)
	ctx := context.Background()

	userID := uuid.New()
	entries := []*audit.TransactionLog{
		audit.NewTransactionLog(&userID, "a@example.com", "/api/v1/investments", "POST", 201, ""),
		audit.NewTransactionLog(&userID, "a@example.com", "/api/v1/investments/abc", "GET", 404, "Resource not found"),
		audit.NewTransactionLog(nil, "", "/api/v1/auth/login", "POST", 401, "Invalid email or password"),
	}
	for _, e := range entries {
		require.NoError(t, repo.Append(ctx, e))
	}

	t.Run("find with status filter", func(t *testing.T) {
		logs, total, err := repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, StatusCode: 404})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, logs, 1)
		assert.Equal(t, "/api/v1/investments/abc", logs[0].Endpoint)
	})

	t.Run("find with method filter", func(t *testing.T) {
		logs, total, err := repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, HTTPMethod: "POST"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, logs, 2)
	})

	t.Run("find errors returns only failures", func(t *testing.T) {
		logs, err := repo.FindErrors(ctx, nil)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		for _, l := range logs {
			assert.GreaterOrEqual(t, l.StatusCode, 400)
		}
	})

	t.Run("find errors scoped to one user", func(t *testing.T) {
		logs, err := repo.FindErrors(ctx, &userID)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "/api/v1/investments/abc", logs[0].Endpoint)
	})

	t.Run("find scoped by user and email", func(t *testing.T) {
		logs, total, err := repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, UserID: &userID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, logs, 2)

		logs, total, err = repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, Email: "a@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, logs, 2)
	})
}
