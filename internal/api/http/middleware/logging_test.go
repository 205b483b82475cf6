package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mento-app/mento-server/internal/testutil"
)

func TestLogging_Handle(t *testing.T) {
	mw := NewLogging(testutil.MakeNoopLogger())

	t.Run("generates request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.Handle(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/users/register", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
		require.NoError(t, err)
	})

	t.Run("echoes request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		mw.Handle(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})).ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	sr.WriteHeader(http.StatusServiceUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, sr.status)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
