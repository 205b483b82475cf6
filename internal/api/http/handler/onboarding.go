package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
	"github.com/mento-app/mento-server/internal/service"
)

// OnboardingService defines onboarding profile operations.
type OnboardingService interface {
	Save(ctx context.Context, userID any, in service.OnboardingInput) error
	Get(ctx context.Context, userID any) (*model.Onboarding, error)
}

type saveOnboardingRequest struct {
	UserID      any    `json:"userId"`
	Name        string `json:"name"`
	Age         any    `json:"age"`
	Emotions    string `json:"emotions"`
	GenderID    any    `json:"genderId"`
	IntensityID any    `json:"intensityId"`
	GoalID      any    `json:"goalId"`
}

type onboardingData struct {
	UserID      int64   `json:"userId"`
	Name        *string `json:"name"`
	Age         *int    `json:"age"`
	Emotions    *string `json:"emotions"`
	GenderID    *int64  `json:"genderId"`
	IntensityID *int64  `json:"intensityId"`
	GoalID      *int64  `json:"goalId"`
}

type onboardingResponse struct {
	Success bool            `json:"success"`
	Data    *onboardingData `json:"data"`
}

// Onboarding handles HTTP endpoints for the onboarding profile.
type Onboarding struct {
	service        OnboardingService
	contextManager model.ContextManager
	responder      *Responder
	logger         *logger.Logger
}

// NewOnboarding creates a new Onboarding handler.
func NewOnboarding(service OnboardingService, contextManager model.ContextManager, responder *Responder, logger *logger.Logger) *Onboarding {
	return &Onboarding{
		service:        service,
		contextManager: contextManager,
		responder:      responder,
		logger:         logger,
	}
}

// Save stores the profile: POST /api/onboarding.
func (h *Onboarding) Save(w http.ResponseWriter, r *http.Request) {
	var req saveOnboardingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	if err := authorizeUser(r.Context(), h.contextManager, req.UserID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	err := h.service.Save(r.Context(), req.UserID, service.OnboardingInput{
		Name:        req.Name,
		Age:         req.Age,
		Emotions:    req.Emotions,
		GenderID:    req.GenderID,
		IntensityID: req.IntensityID,
		GoalID:      req.GoalID,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, successResponse{Success: true})
}

// Get returns the profile, with null data when none was saved: GET /api/onboarding/{userID}.
func (h *Onboarding) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := authorizeUser(r.Context(), h.contextManager, userID); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	profile, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	resp := onboardingResponse{Success: true}
	if profile != nil {
		resp.Data = &onboardingData{
			UserID:      profile.UserID,
			Name:        profile.Name,
			Age:         profile.Age,
			Emotions:    profile.Emotions,
			GenderID:    profile.GenderID,
			IntensityID: profile.IntensityID,
			GoalID:      profile.GoalID,
		}
	}
	h.responder.JSON(w, http.StatusOK, resp)
}
