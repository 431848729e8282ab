package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/painel/internal/app"
	"github.com/okian/painel/pkg/logger"
)

// DashboardHandler serves the kiosk page.
type DashboardHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps, log: logger.Named("api")}
}

// HandleDashboard handles GET / requests. Every request runs one cycle; the
// page refreshes itself so the screen keeps polling. A failed cycle still
// answers with HTML, the error screen, and status 502.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	page, err := h.deps.Page(r.Context())
	status := http.StatusOK
	if err != nil {
		var ce *service.CycleError
		if page == nil || !errors.As(err, &ce) || ce.Kind == service.KindRender {
			h.log.Error(r.Context(), "dashboard page failed", logger.Error(err))
			http.Error(w, fmt.Errorf("%w: %w", ErrRender, err).Error(), http.StatusInternalServerError)
			return
		}
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodGet {
		_, _ = w.Write(page)
	}
}
