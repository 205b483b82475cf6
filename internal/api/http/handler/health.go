package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks that the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type Health struct {
	store     Pinger
	responder *Responder
}

func NewHealth(store Pinger, responder *Responder) *Health {
	return &Health{store: store, responder: responder}
}

// Check reports whether the service can reach its store: GET /healthz.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.responder.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	h.responder.JSON(w, http.StatusOK, healthResponse{Success: true, Status: "ok"})
}
