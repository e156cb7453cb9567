package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investtrack/backend/internal/domain/audit"
	"github.com/investtrack/backend/internal/domain/catalog"
	"github.com/investtrack/backend/internal/domain/portfolio"
	"github.com/investtrack/backend/internal/domain/shared"
)

func newTestProduct(t *testing.T, name string, risk catalog.RiskLevel, yield string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(
		name,
		catalog.InvestmentTypeBond,
		12,
		decimal.RequireFromString(yield),
		risk,
		nil,
		nil,
		"",
	)
	require.NoError(t, err)
	return product
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find by ID", func(t *testing.T) {
		repo := NewProductRepository()
		product := newTestProduct(t, "Government Bond 2025", catalog.RiskLevelLow, "5.2")

		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Government Bond 2025", found.Name)
	})

	t.Run("find by ID returns not found for unknown product", func(t *testing.T) {
		repo := NewProductRepository()

		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by risk level orders by yield descending", func(t *testing.T) {
		repo := NewProductRepository()
		low := newTestProduct(t, "Low Yield", catalog.RiskLevelHigh, "4.0")
		high := newTestProduct(t, "High Yield", catalog.RiskLevelHigh, "9.5")
		other := newTestProduct(t, "Other Band", catalog.RiskLevelLow, "6.0")
		for _, p := range []*catalog.Product{low, high, other} {
			require.NoError(t, repo.Save(ctx, p))
		}

		found, err := repo.FindByRiskLevel(ctx, catalog.RiskLevelHigh, 5)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "High Yield", found[0].Name)
		assert.Equal(t, "Low Yield", found[1].Name)
	})

	t.Run("find by risk level respects limit", func(t *testing.T) {
		repo := NewProductRepository()
		for i := 0; i < 8; i++ {
			p := newTestProduct(t, fmt.Sprintf("Fund %d", i), catalog.RiskLevelModerate, fmt.Sprintf("%d.0", i+1))
			require.NoError(t, repo.Save(ctx, p))
		}

		found, err := repo.FindByRiskLevel(ctx, catalog.RiskLevelModerate, 5)
		require.NoError(t, err)
		assert.Len(t, found, 5)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		repo := NewProductRepository()
		product := newTestProduct(t, "To Delete", catalog.RiskLevelLow, "5.0")
		require.NoError(t, repo.Save(ctx, product))

		require.NoError(t, repo.Delete(ctx, product.ID))
		_, err := repo.FindByID(ctx, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete unknown product returns not found", func(t *testing.T) {
		repo := NewProductRepository()
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})

	t.Run("find all filters by risk level", func(t *testing.T) {
		repo := NewProductRepository()
		require.NoError(t, repo.Save(ctx, newTestProduct(t, "A", catalog.RiskLevelLow, "5.0")))
		require.NoError(t, repo.Save(ctx, newTestProduct(t, "B", catalog.RiskLevelHigh, "8.0")))

		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"risk_level": "HIGH"}
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "B", found[0].Name)
	})
}

func TestInvestmentRepository(t *testing.T) {
	ctx := context.Background()

	newRepos := func(t *testing.T) (*InvestmentRepository, *catalog.Product) {
		t.Helper()
		products := NewProductRepository()
		product := newTestProduct(t, "Equity Mutual Fund", catalog.RiskLevelHigh, "8.5")
		require.NoError(t, products.Save(ctx, product))
		return NewInvestmentRepository(products), product
	}

	t.Run("save and find by ID preloads product", func(t *testing.T) {
		repo, product := newRepos(t)
		userID := uuid.New()
		investment, err := portfolio.NewInvestment(userID, product, decimal.NewFromInt(5000))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, investment))

		found, err := repo.FindByID(ctx, userID, investment.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Product)
		assert.Equal(t, product.ID, found.Product.ID)
	})

	t.Run("find by ID scopes to the owning user", func(t *testing.T) {
		repo, product := newRepos(t)
		investment, err := portfolio.NewInvestment(uuid.New(), product, decimal.NewFromInt(5000))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, investment))

		_, err = repo.FindByID(ctx, uuid.New(), investment.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find active by ID excludes cancelled investments", func(t *testing.T) {
		repo, product := newRepos(t)
		userID := uuid.New()
		investment, err := portfolio.NewInvestment(userID, product, decimal.NewFromInt(5000))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, investment))
		require.NoError(t, investment.Cancel())
		require.NoError(t, repo.Save(ctx, investment))

		_, err = repo.FindActiveByID(ctx, userID, investment.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists for product", func(t *testing.T) {
		repo, product := newRepos(t)
		investment, err := portfolio.NewInvestment(uuid.New(), product, decimal.NewFromInt(5000))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, investment))

		exists, err := repo.ExistsForProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForProduct(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("find by user returns only that user's investments", func(t *testing.T) {
		repo, product := newRepos(t)
		userID := uuid.New()
		mine, err := portfolio.NewInvestment(userID, product, decimal.NewFromInt(2000))
		require.NoError(t, err)
		theirs, err := portfolio.NewInvestment(uuid.New(), product, decimal.NewFromInt(3000))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, mine))
		require.NoError(t, repo.Save(ctx, theirs))

		found, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, mine.ID, found[0].ID)
	})
}

func TestTransactionLogRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts oldest entry at capacity", func(t *testing.T) {
		repo := NewTransactionLogRepository(3)
		for i := 0; i < 5; i++ {
			entry := audit.NewTransactionLog(nil, "", fmt.Sprintf("/api/v1/%d", i), "GET", 200, "")
			require.NoError(t, repo.Append(ctx, entry))
		}

		assert.Equal(t, 3, repo.Len())
		entries, total, err := repo.Find(ctx, audit.DefaultLogFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, "/api/v1/4", entries[0].Endpoint)
		assert.Equal(t, "/api/v1/2", entries[2].Endpoint)
	})

	t.Run("find filters by status code and method", func(t *testing.T) {
		repo := NewTransactionLogRepository(0)
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "", "/a", "GET", 200, "")))
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "", "/b", "POST", 404, "not found")))
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "", "/c", "POST", 200, "")))

		entries, total, err := repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, StatusCode: 404})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, "/b", entries[0].Endpoint)

		entries, total, err = repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, HTTPMethod: "POST"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("find errors returns oldest first", func(t *testing.T) {
		repo := NewTransactionLogRepository(0)
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "", "/first", "GET", 500, "boom")))
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "", "/ok", "GET", 200, "")))
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "", "/second", "GET", 401, "unauthorized")))

		errs, err := repo.FindErrors(ctx, nil)
		require.NoError(t, err)
		require.Len(t, errs, 2)
		assert.Equal(t, "/first", errs[0].Endpoint)
		assert.Equal(t, "/second", errs[1].Endpoint)
	})

	t.Run("find errors scoped to one user", func(t *testing.T) {
		repo := NewTransactionLogRepository(0)
		ownerID := uuid.New()
		otherID := uuid.New()
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(&ownerID, "owner@example.com", "/mine", "GET", 404, "not found")))
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(&otherID, "other@example.com", "/theirs", "GET", 404, "not found")))
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "", "/anon", "GET", 401, "unauthorized")))

		errs, err := repo.FindErrors(ctx, &ownerID)
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "/mine", errs[0].Endpoint)
	})

	t.Run("find filters by user and email", func(t *testing.T) {
		repo := NewTransactionLogRepository(0)
		ownerID := uuid.New()
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(&ownerID, "owner@example.com", "/mine", "GET", 200, "")))
		require.NoError(t, repo.Append(ctx, audit.NewTransactionLog(nil, "other@example.com", "/theirs", "GET", 200, "")))

		byUser, total, err := repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, UserID: &ownerID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, byUser, 1)
		assert.Equal(t, "/mine", byUser[0].Endpoint)

		byEmail, total, err := repo.Find(ctx, audit.LogFilter{Page: 1, PageSize: 10, Email: "other@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, byEmail, 1)
		assert.Equal(t, "/theirs", byEmail[0].Endpoint)
	})
}
