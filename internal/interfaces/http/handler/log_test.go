package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditapp "github.com/investtrack/backend/internal/application/audit"
	auditdomain "github.com/investtrack/backend/internal/domain/audit"
)

func seedLog(t *testing.T, rig *testRig, endpoint, method string, status int, message string) {
	t.Helper()
	entry := auditdomain.NewTransactionLog(nil, "", endpoint, method, status, message)
	require.NoError(t, rig.logs.Append(t.Context(), entry))
}

func TestLogHandlerList(t *testing.T) {
	rig := newTestRig(t)
	seedLog(t, rig, "/api/v1/products", "GET", 200, "")
	seedLog(t, rig, "/api/v1/investments", "POST", 400, "Minimum investment amount is 100")

	w := rig.do(t, http.MethodGet, "/api/v1/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page auditapp.LogListResponse
	remarshal(t, decodeResponse(t, w).Data, &page)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Logs, 2)
	// Newest first
	assert.Equal(t, "/api/v1/investments", page.Logs[0].Endpoint)
}

func TestLogHandlerListFiltered(t *testing.T) {
	rig := newTestRig(t)
	seedLog(t, rig, "/api/v1/products", "GET", 200, "")
	seedLog(t, rig, "/api/v1/investments", "POST", 400, "bad amount")

	w := rig.do(t, http.MethodGet, "/api/v1/logs?status_code=400", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page auditapp.LogListResponse
	remarshal(t, decodeResponse(t, w).Data, &page)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Logs, 1)
	assert.Equal(t, 400, page.Logs[0].StatusCode)
}

func seedUserLog(t *testing.T, rig *testRig, userID uuid.UUID, email, endpoint string, status int) {
	t.Helper()
	entry := auditdomain.NewTransactionLog(&userID, email, endpoint, "GET", status, "")
	require.NoError(t, rig.logs.Append(t.Context(), entry))
}

func TestLogHandlerListByUser(t *testing.T) {
	rig := newTestRig(t)
	otherID := uuid.New()
	seedUserLog(t, rig, rig.userID, "ada@example.com", "/api/v1/portfolio", 200)
	seedUserLog(t, rig, otherID, "other@example.com", "/api/v1/products", 200)

	t.Run("owner sees only their own entries", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/api/v1/logs/user/"+rig.userID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var page auditapp.LogListResponse
		remarshal(t, decodeResponse(t, w).Data, &page)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Logs, 1)
		assert.Equal(t, "/api/v1/portfolio", page.Logs[0].Endpoint)
	})

	t.Run("another user's logs are forbidden", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/api/v1/logs/user/"+otherID.String(), nil)
		require.Equal(t, http.StatusForbidden, w.Code)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_FORBIDDEN", resp.Error.Code)
	})

	t.Run("malformed user ID is rejected", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/api/v1/logs/user/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogHandlerListByEmail(t *testing.T) {
	rig := newTestRig(t)
	seedUserLog(t, rig, rig.userID, "ada@example.com", "/api/v1/portfolio", 200)

	t.Run("owner email matches case-insensitively", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/api/v1/logs/email/Ada@Example.com", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var page auditapp.LogListResponse
		remarshal(t, decodeResponse(t, w).Data, &page)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("another email is forbidden", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/api/v1/logs/email/other@example.com", nil)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLogHandlerErrorSummaryByUser(t *testing.T) {
	rig := newTestRig(t)
	otherID := uuid.New()
	seedUserLog(t, rig, rig.userID, "ada@example.com", "/api/v1/investments/x", 404)
	seedUserLog(t, rig, otherID, "other@example.com", "/api/v1/products/y", 500)

	t.Run("owner summary covers only their failures", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/api/v1/logs/errors/summary/"+rig.userID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var summary auditapp.ErrorSummaryResponse
		remarshal(t, decodeResponse(t, w).Data, &summary)
		assert.Equal(t, 1, summary.TotalErrors)
		require.Len(t, summary.CommonErrors, 1)
		assert.Equal(t, 404, summary.CommonErrors[0].StatusCode)
	})

	t.Run("another user's summary is forbidden", func(t *testing.T) {
		w := rig.do(t, http.MethodGet, "/api/v1/logs/errors/summary/"+otherID.String(), nil)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLogHandlerErrorSummaryEmpty(t *testing.T) {
	rig := newTestRig(t)

	w := rig.do(t, http.MethodGet, "/api/v1/logs/errors/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary auditapp.ErrorSummaryResponse
	remarshal(t, decodeResponse(t, w).Data, &summary)
	assert.Equal(t, "No errors found in your recent activity. Great job!", summary.Message)
	assert.Zero(t, summary.TotalErrors)
}

func TestLogHandlerErrorSummary(t *testing.T) {
	rig := newTestRig(t)
	seedLog(t, rig, "/api/v1/investments", "POST", 400, "bad amount")
	seedLog(t, rig, "/api/v1/investments", "POST", 400, "bad amount")
	seedLog(t, rig, "/api/v1/profile", "GET", 401, "missing token")

	w := rig.do(t, http.MethodGet, "/api/v1/logs/errors/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary auditapp.ErrorSummaryResponse
	remarshal(t, decodeResponse(t, w).Data, &summary)
	assert.Equal(t, 3, summary.TotalErrors)
	require.NotEmpty(t, summary.CommonErrors)
	assert.Equal(t, 400, summary.CommonErrors[0].StatusCode)
	assert.Equal(t, 2, summary.CommonErrors[0].Count)
	assert.NotEmpty(t, summary.Recommendations)
}
