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
		name string
		code string
		want int
	}{
		{name: "not found", code: ErrCodeNotFound, want: http.StatusNotFound},
		{name: "concurrency conflict", code: ErrCodeConcurrencyConflict, want: http.StatusConflict},
		{name: "invalid schedule", code: ErrCodeInvalidSchedule, want: http.StatusBadRequest},
		{name: "invalid amount", code: ErrCodeInvalidAmount, want: http.StatusBadRequest},
		{name: "overpayment", code: ErrCodeOverpayment, want: http.StatusUnprocessableEntity},
		{name: "invalid extension", code: ErrCodeInvalidExtension, want: http.StatusUnprocessableEntity},
		{name: "renewal not allowed", code: ErrCodeRenewalNotAllowed, want: http.StatusUnprocessableEntity},
		{name: "internal", code: ErrCodeInternal, want: http.StatusInternalServerError},
		{name: "unmapped code falls back to 500", code: "ERR_SOMETHING_ELSE", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeOverpayment, NormalizeErrorCode("OVERPAYMENT"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeConcurrencyConflict, NormalizeErrorCode("CONCURRENCY_CONFLICT"))
	// Already normalized codes pass through.
	assert.Equal(t, ErrCodeInvalidSchedule, NormalizeErrorCode(ErrCodeInvalidSchedule))
	// Unknown codes pass through untouched.
	assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Lease not found", "req-abc-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Lease not found", resp.Error.Message)
	assert.Equal(t, "req-abc-123", resp.Error.RequestID)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "req-abc-123", decoded.Error.RequestID)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"hello": "world"})
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"hello":"world"}}`, string(data))
}
