package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: end before start", domain.ErrInvalidDateRange), http.StatusBadRequest, "invalid_date_range"},
		{domain.Validationf("year out of range"), http.StatusBadRequest, "validation_error"},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{fmt.Errorf("%w: not yours", domain.ErrForbidden), http.StatusForbidden, "forbidden"},
		{domain.NotFoundf("car %d", 7), http.StatusNotFound, "not_found"},
		{domain.ErrCarUnavailable, http.StatusConflict, "car_unavailable"},
		{domain.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{domain.Conflictf("duplicate"), http.StatusConflict, "conflict"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req = req.WithContext(logger.WithRequestID(req.Context(), "req-1"))
			rec := httptest.NewRecorder()

			RespondDomainError(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "req-1", body.RequestID)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body.Error, "connection reset")
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc.def")
	assert.Equal(t, "abc.def", extractToken(req))

	req.Header.Set("Authorization", "abc.def")
	assert.Equal(t, "abc.def", extractToken(req))
}
