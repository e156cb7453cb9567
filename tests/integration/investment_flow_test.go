// Package integration provides integration testing for the InvestTrack backend API.
// This file exercises the full investment lifecycle over HTTP: product catalog,
// investing, portfolio, insights, cancellation, and the transaction log trail.
package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	InvestmentType string          `json:"investment_type"`
	TenureMonths   int             `json:"tenure_months"`
	AnnualYield    decimal.Decimal `json:"annual_yield"`
	RiskLevel      string          `json:"risk_level"`
	MinInvestment  decimal.Decimal `json:"min_investment"`
}

type investmentPayload struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ProductID      string          `json:"product_id"`
	Amount         decimal.Decimal `json:"amount"`
	ExpectedReturn decimal.Decimal `json:"expected_return"`
	Status         string          `json:"status"`
}

func createProduct(t *testing.T, ts *TestServer, token, name, investmentType, riskLevel string, yield string, tenure int) productPayload {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":            name,
		"investment_type": investmentType,
		"tenure_months":   tenure,
		"annual_yield":    yield,
		"risk_level":      riskLevel,
		"min_investment":  "1000",
		"description":     "Created by integration test",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product productPayload
	decodeResponse(t, w, &product)
	require.NotEmpty(t, product.ID)
	return product
}

func TestInvestmentLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	userID, token := ts.signupAndLogin(t, "investor@example.com", "S3curePass!", "MODERATE")

	bond := createProduct(t, ts, token, "Government Bond 2030", "BOND", "LOW", "6.5", 24)
	fund := createProduct(t, ts, token, "Balanced Growth Fund", "MF", "MODERATE", "11.2", 36)

	var investmentID string

	t.Run("invest in a product", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/investments", map[string]interface{}{
			"product_id": bond.ID,
			"amount":     "10000",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var inv investmentPayload
		decodeResponse(t, w, &inv)
		assert.Equal(t, userID, inv.UserID)
		assert.Equal(t, bond.ID, inv.ProductID)
		assert.Equal(t, "ACTIVE", inv.Status)
		assert.True(t, inv.Amount.Equal(decimal.NewFromInt(10000)))
		// 10000 * 6.5% * 2 years of simple interest
		assert.True(t, inv.ExpectedReturn.Equal(decimal.RequireFromString("1300")),
			"expected_return = %s", inv.ExpectedReturn)

		investmentID = inv.ID
	})

	t.Run("get investment by ID", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/investments/"+investmentID, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var inv investmentPayload
		decodeResponse(t, w, &inv)
		assert.Equal(t, investmentID, inv.ID)
	})

	t.Run("portfolio aggregates holdings", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/investments", map[string]interface{}{
			"product_id": fund.ID,
			"amount":     "5000",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = ts.Request(http.MethodGet, "/api/v1/investments/portfolio", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var portfolio struct {
			TotalInvested     decimal.Decimal     `json:"total_invested"`
			ActiveInvestments int                 `json:"active_investments"`
			TotalInvestments  int                 `json:"total_investments"`
			Investments       []investmentPayload `json:"investments"`
		}
		decodeResponse(t, w, &portfolio)
		assert.True(t, portfolio.TotalInvested.Equal(decimal.NewFromInt(15000)),
			"total_invested = %s", portfolio.TotalInvested)
		assert.Equal(t, 2, portfolio.ActiveInvestments)
		assert.Equal(t, 2, portfolio.TotalInvestments)
		assert.Len(t, portfolio.Investments, 2)
	})

	t.Run("insights break down risk and type", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/investments/insights", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var insights struct {
			RiskDistribution map[string]decimal.Decimal `json:"risk_distribution"`
			TypeDistribution map[string]decimal.Decimal `json:"type_distribution"`
			TotalInvested    decimal.Decimal            `json:"total_invested"`
			RiskAnalysis     string                     `json:"risk_analysis"`
		}
		decodeResponse(t, w, &insights)
		assert.True(t, insights.TotalInvested.Equal(decimal.NewFromInt(15000)))
		assert.True(t, insights.RiskDistribution["LOW"].Equal(decimal.NewFromInt(10000)))
		assert.True(t, insights.RiskDistribution["MODERATE"].Equal(decimal.NewFromInt(5000)))
		assert.True(t, insights.TypeDistribution["BOND"].Equal(decimal.NewFromInt(10000)))
		assert.True(t, insights.TypeDistribution["MF"].Equal(decimal.NewFromInt(5000)))
		assert.NotEmpty(t, insights.RiskAnalysis)
	})

	t.Run("cancel an active investment", func(t *testing.T) {
		w := ts.Request(http.MethodDelete, "/api/v1/investments/"+investmentID, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var inv investmentPayload
		decodeResponse(t, w, &inv)
		assert.Equal(t, "CANCELLED", inv.Status)

		w = ts.Request(http.MethodGet, "/api/v1/investments/portfolio", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var portfolio struct {
			ActiveInvestments int `json:"active_investments"`
			TotalInvestments  int `json:"total_investments"`
		}
		decodeResponse(t, w, &portfolio)
		assert.Equal(t, 1, portfolio.ActiveInvestments)
		assert.Equal(t, 2, portfolio.TotalInvestments)
	})

	t.Run("cancelled investments cannot be cancelled again", func(t *testing.T) {
		w := ts.Request(http.MethodDelete, "/api/v1/investments/"+investmentID, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func TestInvestmentValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	_, token := ts.signupAndLogin(t, "careful@example.com", "S3curePass!", "LOW")
	bond := createProduct(t, ts, token, "Short Bond", "BOND", "LOW", "5.0", 12)

	t.Run("amount below product minimum", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/investments", map[string]interface{}{
			"product_id": bond.ID,
			"amount":     "500",
		}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		envelope := decodeResponse(t, w, nil)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "ERR_AMOUNT_BELOW_MINIMUM", envelope.Error.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/investments", map[string]interface{}{
			"product_id": "7b9e8e3e-43c2-4a4f-9a4e-0f3a9f6d2b11",
			"amount":     "5000",
		}, token)
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("another user cannot cancel the investment", func(t *testing.T) {
		w := ts.Request(http.MethodPost, "/api/v1/investments", map[string]interface{}{
			"product_id": bond.ID,
			"amount":     "5000",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code)

		var inv investmentPayload
		decodeResponse(t, w, &inv)

		_, otherToken := ts.signupAndLogin(t, "intruder@example.com", "S3curePass!", "HIGH")
		w = ts.Request(http.MethodDelete, "/api/v1/investments/"+inv.ID, nil, otherToken)
		assert.Equal(t, http.StatusNotFound, w.Code, "Foreign investments must be invisible")
	})

	t.Run("product with active investments cannot be deleted", func(t *testing.T) {
		w := ts.Request(http.MethodDelete, "/api/v1/products/"+bond.ID, nil, token)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})
}

func TestProductCatalogAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	_, token := ts.signupAndLogin(t, "curator@example.com", "S3curePass!", "HIGH")

	createProduct(t, ts, token, "Blue Chip ETF", "ETF", "HIGH", "14.0", 60)
	createProduct(t, ts, token, "Fixed Deposit Plus", "FD", "LOW", "7.1", 12)
	createProduct(t, ts, token, "Aggressive Equity Fund", "MF", "HIGH", "16.5", 48)

	t.Run("list products with type filter", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/products?investment_type=ETF", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var products []productPayload
		decodeResponse(t, w, &products)
		require.Len(t, products, 1)
		assert.Equal(t, "Blue Chip ETF", products[0].Name)
	})

	t.Run("recommendations follow the risk appetite", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/products/recommendations", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var rec struct {
			Recommendations []productPayload `json:"recommendations"`
			Insight         string           `json:"insight"`
		}
		decodeResponse(t, w, &rec)
		require.NotEmpty(t, rec.Recommendations)
		for _, p := range rec.Recommendations {
			assert.Equal(t, "HIGH", p.RiskLevel)
		}
		assert.NotEmpty(t, rec.Insight)
	})

	t.Run("update a product", func(t *testing.T) {
		created := createProduct(t, ts, token, "Renameable Bond", "BOND", "LOW", "5.5", 12)

		w := ts.Request(http.MethodPut, "/api/v1/products/"+created.ID, map[string]interface{}{
			"name":            "Renamed Bond",
			"investment_type": "BOND",
			"tenure_months":   18,
			"annual_yield":    "5.9",
			"risk_level":      "LOW",
			"min_investment":  "2000",
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var product productPayload
		decodeResponse(t, w, &product)
		assert.Equal(t, "Renamed Bond", product.Name)
		assert.Equal(t, 18, product.TenureMonths)
	})

	t.Run("delete an unused product", func(t *testing.T) {
		created := createProduct(t, ts, token, "Ephemeral FD", "FD", "LOW", "6.0", 6)

		w := ts.Request(http.MethodDelete, "/api/v1/products/"+created.ID, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = ts.Request(http.MethodGet, "/api/v1/products/"+created.ID, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTransactionLogTrail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	_, token := ts.signupAndLogin(t, "auditor@example.com", "S3curePass!", "MODERATE")

	// Generate a few failing requests to populate the error digest
	for i := 0; i < 3; i++ {
		w := ts.Request(http.MethodGet, fmt.Sprintf("/api/v1/investments/%s", "0aa7ec7b-89d9-4b86-a1f5-ed0ca923ff55"), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	t.Run("logs capture requests newest first", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/logs?page_size=10", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page struct {
			Logs []struct {
				Endpoint   string `json:"endpoint"`
				HTTPMethod string `json:"http_method"`
				StatusCode int    `json:"status_code"`
			} `json:"logs"`
			Total int64 `json:"total"`
		}
		decodeResponse(t, w, &page)
		require.NotEmpty(t, page.Logs)
		assert.GreaterOrEqual(t, page.Total, int64(5), "signup, login, and the 404s should be recorded")
	})

	t.Run("logs filter by status code", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/logs?status_code=404", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page struct {
			Logs []struct {
				StatusCode int `json:"status_code"`
			} `json:"logs"`
		}
		decodeResponse(t, w, &page)
		require.NotEmpty(t, page.Logs)
		for _, entry := range page.Logs {
			assert.Equal(t, http.StatusNotFound, entry.StatusCode)
		}
	})

	t.Run("error summary aggregates failures", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/logs/errors/summary", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var summary struct {
			Message      string `json:"message"`
			TotalErrors  int    `json:"total_errors"`
			CommonErrors []struct {
				StatusCode int `json:"status_code"`
				Count      int `json:"count"`
			} `json:"common_errors"`
		}
		decodeResponse(t, w, &summary)
		assert.NotEmpty(t, summary.Message)
		assert.GreaterOrEqual(t, summary.TotalErrors, 3)

		found := false
		for _, g := range summary.CommonErrors {
			if g.StatusCode == http.StatusNotFound {
				found = true
				assert.GreaterOrEqual(t, g.Count, 3)
			}
		}
		assert.True(t, found, "404s should appear in the digest")
	})
}

func TestUserScopedLogAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)
	ownerID, ownerToken := ts.signupAndLogin(t, "owner@example.com", "S3curePass!", "MODERATE")
	otherID, otherToken := ts.signupAndLogin(t, "other@example.com", "S3curePass!", "LOW")

	// One failing request per user so each trail has an error entry
	w := ts.Request(http.MethodGet, "/api/v1/investments/0aa7ec7b-89d9-4b86-a1f5-ed0ca923ff55", nil, ownerToken)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = ts.Request(http.MethodGet, "/api/v1/investments/0aa7ec7b-89d9-4b86-a1f5-ed0ca923ff55", nil, otherToken)
	require.Equal(t, http.StatusNotFound, w.Code)

	t.Run("owner reads their own trail", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/logs/user/"+ownerID, nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page struct {
			Logs []struct {
				UserID *string `json:"user_id"`
			} `json:"logs"`
			Total int64 `json:"total"`
		}
		decodeResponse(t, w, &page)
		require.NotEmpty(t, page.Logs)
		for _, entry := range page.Logs {
			require.NotNil(t, entry.UserID)
			assert.Equal(t, ownerID, *entry.UserID)
		}
	})

	t.Run("per-user error summary counts only the owner's failures", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/logs/errors/summary/"+ownerID, nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var summary struct {
			TotalErrors  int `json:"total_errors"`
			CommonErrors []struct {
				StatusCode int `json:"status_code"`
			} `json:"common_errors"`
		}
		decodeResponse(t, w, &summary)
		assert.Equal(t, 1, summary.TotalErrors)
		require.Len(t, summary.CommonErrors, 1)
		assert.Equal(t, http.StatusNotFound, summary.CommonErrors[0].StatusCode)
	})

	t.Run("cross-user trail access is forbidden", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/logs/user/"+otherID, nil, ownerToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		var resp apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_FORBIDDEN", resp.Error.Code)

		w = ts.Request(http.MethodGet, "/api/v1/logs/errors/summary/"+otherID, nil, ownerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("email trail is owner-only", func(t *testing.T) {
		w := ts.Request(http.MethodGet, "/api/v1/logs/email/owner@example.com", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.Request(http.MethodGet, "/api/v1/logs/email/other@example.com", nil, ownerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
