package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/coerce"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
)

// ProgressService defines the level progress operations.
type ProgressService interface {
	CompleteLevel(ctx context.Context, userID, islandID, levelNumber any) error
	GetIslandProgress(ctx context.Context, userID, islandID any) (model.IslandProgress, error)
	LevelStatus(ctx context.Context, userID, islandID, levelNumber any) (model.LevelStatus, error)
	CurrentLevel(ctx context.Context, userID any) (model.Progress, error)
	ResetProgress(ctx context.Context, userID any) (model.Progress, error)
	UpdateProgress(ctx context.Context, userID, islandID, currentLevel any) (model.Progress, error)
	ListProgress(ctx context.Context, userID any) ([]model.Progress, error)
}

type completeLevelRequest struct {
	UserID      any `json:"userId"`
	IslandID    any `json:"islandId"`
	LevelNumber any `json:"levelNumber"`
}

type islandProgressRequest struct {
	UserID   any `json:"userId"`
	IslandID any `json:"islandId"`
}

type userRequest struct {
	UserID any `json:"userId"`
}

type updateProgressRequest struct {
	UserID       any `json:"userId"`
	IslandID     any `json:"islandId"`
	CurrentLevel any `json:"currentLevel"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type islandProgressResponse struct {
	Success         bool   `json:"success"`
	UserID          int64  `json:"userId"`
	IslandID        int64  `json:"islandId"`
	Island          string `json:"island"`
	CompletedLevels []int  `json:"completedLevels"`
	NextUnlocked    int    `json:"nextUnlocked"`
}

type levelStatusResponse struct {
	Success     bool       `json:"success"`
	UserID      int64      `json:"userId"`
	IslandID    int64      `json:"islandId"`
	Island      string     `json:"island"`
	Level       int        `json:"levelNumber"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Unlocked    bool       `json:"unlocked"`
}

type currentLevelResponse struct {
	Success      bool   `json:"success"`
	CurrentLevel int    `json:"currentLevel"`
	IslandID     *int64 `json:"islandId"`
}

type progressItem struct {
	ID           int64     `json:"id"`
	IslandID     *int64    `json:"islandId"`
	CurrentLevel int       `json:"currentLevel"`
	StartedAt    time.Time `json:"startedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type progressListResponse struct {
	Success bool           `json:"success"`
	Data    []progressItem `json:"data"`
}

// Progress handles HTTP endpoints for level progress.
type Progress struct {
	service        ProgressService
	contextManager model.ContextManager
	responder      *Responder
	logger         *logger.Logger
}

// NewProgress creates a new Progress handler.
func NewProgress(service ProgressService, contextManager model.ContextManager, responder *Responder, logger *logger.Logger) *Progress {
	return &Progress{
		service:        service,
		contextManager: contextManager,
		responder:      responder,
		logger:         logger,
	}
}

// CompleteLevel marks a level completed: POST /api/progress/complete.
func (h *Progress) CompleteLevel(w http.ResponseWriter, r *http.Request) {
	var req completeLevelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Debug("Progress handler: processing complete level request",
		"user_id", req.UserID,
		"island_id", req.IslandID,
		"level", req.LevelNumber)

	if err := h.authorize(r.Context(), req.UserID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	err := h.service.CompleteLevel(r.Context(), req.UserID, islandValue(req.IslandID), req.LevelNumber)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, successResponse{Success: true})
}

// IslandProgress returns completed levels and the unlock frontier: POST /api/progress/island.
func (h *Progress) IslandProgress(w http.ResponseWriter, r *http.Request) {
	var req islandProgressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.islandProgress(w, r, req.UserID, req.IslandID)
}

// IslandProgressByPath is the GET form: /api/users/{userID}/islands/{islandID}/progress.
func (h *Progress) IslandProgressByPath(w http.ResponseWriter, r *http.Request) {
	h.islandProgress(w, r, chi.URLParam(r, "userID"), chi.URLParam(r, "islandID"))
}

func (h *Progress) islandProgress(w http.ResponseWriter, r *http.Request, userID, islandID any) {
	if err := h.authorize(r.Context(), userID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	progress, err := h.service.GetIslandProgress(r.Context(), userID, islandValue(islandID))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, islandProgressResponse{
		Success:         true,
		UserID:          progress.UserID,
		IslandID:        int64(progress.Island),
		Island:          progress.Island.String(),
		CompletedLevels: progress.CompletedLevels,
		NextUnlocked:    progress.NextUnlocked,
	})
}

// LevelStatus reports one level: GET /api/users/{userID}/islands/{islandID}/levels/{level}.
func (h *Progress) LevelStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.authorize(r.Context(), userID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	status, err := h.service.LevelStatus(r.Context(), userID,
		islandValue(chi.URLParam(r, "islandID")), chi.URLParam(r, "level"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, levelStatusResponse{
		Success:     true,
		UserID:      status.UserID,
		IslandID:    int64(status.Island),
		Island:      status.Island.String(),
		Level:       status.Level,
		Completed:   status.Completed,
		CompletedAt: status.CompletedAt,
		Unlocked:    status.Unlocked,
	})
}

// CurrentLevel returns the coarse pointer, creating it on first use: POST /api/progress/current.
func (h *Progress) CurrentLevel(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, h.service.CurrentLevel)
}

// Reset sets the coarse pointer back to level 1: POST /api/progress/reset.
func (h *Progress) Reset(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, h.service.ResetProgress)
}

func (h *Progress) pointer(w http.ResponseWriter, r *http.Request, op func(context.Context, any) (model.Progress, error)) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	if err := h.authorize(r.Context(), req.UserID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	p, err := op(r.Context(), req.UserID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, currentLevelResponse{
		Success:      true,
		CurrentLevel: p.CurrentLevel,
		IslandID:     islandID(p.Island),
	})
}

// Update stores the coarse pointer: POST /api/progress/update.
func (h *Progress) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProgressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	if err := h.authorize(r.Context(), req.UserID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	p, err := h.service.UpdateProgress(r.Context(), req.UserID, islandValue(req.IslandID), req.CurrentLevel)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, currentLevelResponse{
		Success:      true,
		CurrentLevel: p.CurrentLevel,
		IslandID:     islandID(p.Island),
	})
}

// List returns the user's pointer rows: GET /api/progress/{userID}.
func (h *Progress) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.authorize(r.Context(), userID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	list, err := h.service.ListProgress(r.Context(), userID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	items := make([]progressItem, 0, len(list))
	for _, p := range list {
		items = append(items, progressItem{
			ID:           p.ID,
			IslandID:     islandID(p.Island),
			CurrentLevel: p.CurrentLevel,
			StartedAt:    p.StartedAt,
			UpdatedAt:    p.UpdatedAt,
		})
	}

	h.responder.JSON(w, http.StatusOK, progressListResponse{Success: true, Data: items})
}

// authorize rejects requests whose bearer token names a different user.
// Unauthenticated requests and malformed ids are left to later checks.
func (h *Progress) authorize(ctx context.Context, rawUserID any) error {
	return authorizeUser(ctx, h.contextManager, rawUserID)
}

func authorizeUser(ctx context.Context, cm model.ContextManager, rawUserID any) error {
	tokenUserID, ok := cm.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	userID, err := coerce.ID(rawUserID)
	if err != nil {
		return nil
	}
	if userID != tokenUserID {
		return apperr.NewErrForbidden(userID)
	}
	return nil
}

// islandValue resolves island names ("family", "salud") to their ids and
// passes anything else through unchanged.
func islandValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if island, err := model.ParseIsland(s); err == nil {
		return int64(island)
	}
	return v
}

func islandID(island *model.Island) *int64 {
	if island == nil {
		return nil
	}
	id := int64(*island)
	return &id
}
