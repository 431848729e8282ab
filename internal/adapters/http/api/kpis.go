package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/painel/internal/app"
)

// KPIsHandler exposes the computed board as JSON.
type KPIsHandler struct {
	deps Dependencies
}

// NewKPIsHandler creates a new KPIs handler.
func NewKPIsHandler(deps Dependencies) *KPIsHandler {
	return &KPIsHandler{deps: deps}
}

// HandleGetKPIs handles GET /api/kpis requests.
func (h *KPIsHandler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	c, err := h.deps.Refresh(r.Context())
	if err != nil {
		var ce *service.CycleError
		switch {
		case errors.As(err, &ce):
			writeError(w, http.StatusBadGateway, ce.Kind, fmt.Errorf("%w: %s", ErrUpstream, ce.Message))
		case errors.Is(err, service.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, "not_started", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal", err)
		}
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, c)
}
