// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/okian/painel/internal/app"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Page runs a cycle and renders the kiosk page. On a failed cycle it
	// returns the error screen together with the *service.CycleError.
	Page(ctx context.Context) ([]byte, error)

	// Refresh runs a cycle and returns the computed board.
	Refresh(ctx context.Context) (Cycle, error)
}

// Cycle mirrors the read shape returned by /api/kpis.
type Cycle = service.Cycle

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	kpisHandler      *KPIsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		kpisHandler:      NewKPIsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/kpis", MetricsMiddleware(s.kpisHandler.HandleGetKPIs, "kpis"))
	mux.HandleFunc("/{$}", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
}
