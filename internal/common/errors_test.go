package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteErrorUnknownErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New(`pq: password authentication failed for user "foodee"`))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL")
	require.NotContains(t, rec.Body.String(), "password")
}

func TestWriteErrorMapsAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	appErr := NewAppError("OUT_OF_STOCK", "product is out of stock", http.StatusConflict, errors.New("inventory row gone"))
	WriteError(rec, appErr)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "OUT_OF_STOCK")
	require.Contains(t, rec.Body.String(), "product is out of stock")
	require.NotContains(t, rec.Body.String(), "inventory row gone")
}

func TestWriteErrorWrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	inner := NewAppError("QUOTA_EXCEEDED", "quota exceeded", http.StatusTooManyRequests, nil)
	WriteError(rec, errors.Join(errors.New("outer context"), inner))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "QUOTA_EXCEEDED")
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := NewAppError("UPSTREAM", "upstream failed", http.StatusBadGateway, cause)
	require.ErrorIs(t, appErr, cause)
	require.Equal(t, "connection reset", appErr.Error())
}
