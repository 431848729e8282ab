package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/painel/internal/adapters/http/api"
	service "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/domain/kpi"
	"github.com/okian/painel/internal/domain/types"
)

type mockDeps struct {
	page     []byte
	pageErr  error
	cycle    api.Cycle
	cycleErr error
}

func (m *mockDeps) Page(context.Context) ([]byte, error) { return m.page, m.pageErr }

func (m *mockDeps) Refresh(context.Context) (api.Cycle, error) { return m.cycle, m.cycleErr }

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any { return m.stats }

func serve(deps api.Dependencies, method, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]any{"started": true, "cycles": 3}}).Register(context.Background(), mux)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
	return w
}

func TestDashboardRoute(t *testing.T) {
	Convey("Given the dashboard route", t, func() {
		Convey("When the cycle succeeds", func() {
			w := serve(&mockDeps{page: []byte("<html>ok</html>")}, http.MethodGet, "/")

			Convey("Then the page is served uncached", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store")
				So(w.Body.String(), ShouldEqual, "<html>ok</html>")
			})
		})

		Convey("When the cycle fails upstream", func() {
			ce := &service.CycleError{Kind: service.KindHTTP, Message: "Erro HTTP ao buscar dados: 503"}
			w := serve(&mockDeps{page: []byte("<html>erro</html>"), pageErr: ce}, http.MethodGet, "/")

			Convey("Then the error screen is served with 502", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(w.Body.String(), ShouldEqual, "<html>erro</html>")
			})
		})

		Convey("When rendering itself fails", func() {
			w := serve(&mockDeps{pageErr: errors.New("template broke")}, http.MethodGet, "/")

			Convey("Then it is a server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldContainSubstring, api.ErrRender.Error())
			})
		})

		Convey("When another method is used", func() {
			w := serve(&mockDeps{}, http.MethodPost, "/")

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When an unknown path is requested", func() {
			w := serve(&mockDeps{}, http.MethodGet, "/nope")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestKPIsRoute(t *testing.T) {
	Convey("Given the KPIs route", t, func() {
		Convey("When the cycle succeeds", func() {
			c := api.Cycle{ID: "c1", Message: "Payload OK.", Board: kpi.Board{Leads: types.Some(42)}}
			w := serve(&mockDeps{cycle: c}, http.MethodGet, "/api/kpis")

			Convey("Then the board is returned as JSON with nulls for missing values", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["cycle_id"], ShouldEqual, "c1")
				board, ok := body["board"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(board["leads"], ShouldEqual, 42.0)
				So(board["contracts"], ShouldBeNil)
			})
		})

		Convey("When the cycle fails upstream", func() {
			ce := &service.CycleError{Kind: service.KindPayload, Message: "Payload inválido: campo 'rows' ausente."}
			w := serve(&mockDeps{cycleErr: ce}, http.MethodGet, "/api/kpis")

			Convey("Then a 502 names the failure kind", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				var body map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["code"], ShouldEqual, service.KindPayload)
				So(body["message"], ShouldContainSubstring, "campo 'rows' ausente")
			})
		})

		Convey("When the service is not started", func() {
			w := serve(&mockDeps{cycleErr: service.ErrNotStarted}, http.MethodGet, "/api/kpis")

			Convey("Then it is unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given the monitoring routes", t, func() {
		Convey("When /stats is requested", func() {
			w := serve(&mockDeps{}, http.MethodGet, "/stats")

			Convey("Then the provider stats are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["cycles"], ShouldEqual, 3.0)
			})
		})

		Convey("When /healthz is requested after some traffic", func() {
			serve(&mockDeps{page: []byte("x")}, http.MethodGet, "/")
			w := serve(&mockDeps{}, http.MethodGet, "/healthz")

			Convey("Then Prometheus metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "painel_dashboard_http_requests_total")
			})
		})
	})
}
