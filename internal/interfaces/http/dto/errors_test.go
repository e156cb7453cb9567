package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeAmountBelowMinimum, http.StatusBadRequest},
		{ErrCodeAmountAboveMaximum, http.StatusBadRequest},
		{ErrCodeProductInUse, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_NOBODY_MAPPED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeProductInUse, NormalizeErrorCode("PRODUCT_IN_USE"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_AMOUNT"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_RISK_LEVEL"))

	// Unmapped codes pass through unchanged
	assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
}

func TestResponseEnvelope(t *testing.T) {
	raw, err := json.Marshal(NewSuccessResponse(map[string]string{"hello": "world"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"hello":"world"}}`, string(raw))

	raw, err = json.Marshal(NewErrorResponse(ErrCodeNotFound, "Product not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Product not found"}}`, string(raw))
}

func TestSuccessResponseMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2, 3}, 45, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
