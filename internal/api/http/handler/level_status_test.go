package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/model"
)

func levelStatusRouter(h *Progress) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/users/{userID}/islands/{islandID}/levels/{level}", h.LevelStatus)
	return r
}

func TestProgress_LevelStatus(t *testing.T) {
	h, svc := newProgressHandler(false)
	done := time.Date(2026, time.May, 2, 9, 0, 0, 0, time.UTC)
	svc.On("LevelStatus", mock.Anything, "7", int64(model.IslandFamily), "2").Return(model.LevelStatus{
		UserID:      7,
		Island:      model.IslandFamily,
		Level:       2,
		Completed:   true,
		CompletedAt: &done,
		Unlocked:    true,
	}, nil)

	rec := httptest.NewRecorder()
	levelStatusRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/7/islands/familia/levels/2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "family", body["island"])
	assert.Equal(t, 2.0, body["levelNumber"])
	assert.Equal(t, true, body["completed"])
	assert.Equal(t, "2026-05-02T09:00:00Z", body["completedAt"])
	assert.Equal(t, true, body["unlocked"])
}

func TestProgress_LevelStatus_Errors(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		h, svc := newProgressHandler(false)
		svc.On("LevelStatus", mock.Anything, "7", "1", "x").
			Return(model.LevelStatus{}, apperr.NewErrInvalidValue("levelNumber", "must be an integer"))

		rec := httptest.NewRecorder()
		levelStatusRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/7/islands/1/levels/x", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "levelNumber", decodeBody(t, rec)["field"])
	})

	t.Run("other user", func(t *testing.T) {
		h, svc := newProgressHandler(false)
		ctx := h.contextManager.SetUserIDToContext(context.Background(), 8)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/users/7/islands/1/levels/1", nil).WithContext(ctx)
		levelStatusRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertNotCalled(t, "LevelStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
