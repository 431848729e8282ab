package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/painel/internal/config"
	"github.com/okian/painel/internal/stub"
	"github.com/okian/painel/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return w
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a stub spreadsheet endpoint", t, func() {
		h, err := stub.NewHandler("s3cr3t")
		convey.So(err, convey.ShouldBeNil)
		upstream := httptest.NewServer(h)
		defer upstream.Close()

		ctx := context.Background()
		t.Setenv("PAINEL_SHEETS_URL", upstream.URL)
		t.Setenv("PAINEL_SHEETS_TOKEN", "s3cr3t")
		t.Setenv("PAINEL_HISTORY_PATH", filepath.Join(t.TempDir(), "history.db"))

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the service is built and started", func() {
			svc, err := buildService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()
			mux := newMux(ctx, svc)

			convey.Convey("Then the dashboard renders from the endpoint", func() {
				w := get(mux, "/")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "Funil de Vendas")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "Comercial")
			})

			convey.Convey("Then the KPIs and docs are served", func() {
				convey.So(get(mux, "/api/kpis").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get(mux, "/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get(mux, "/stats").Body.String(), convey.ShouldContainSubstring, `"started":true`)
			})
		})

		convey.Convey("When the token is wrong", func() {
			cfg.SheetsToken = "nope"
			svc, err := buildService(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then the error screen is served as a bad gateway", func() {
				w := get(newMux(ctx, svc), "/")
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadGateway)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "Erro HTTP ao buscar dados: 401")
			})
		})
	})
}

func TestBuildServiceErrors(t *testing.T) {
	convey.Convey("Given a history path in a missing directory", t, func() {
		cfg := config.New(context.Background())
		cfg.SheetsURL, cfg.SheetsToken = "http://127.0.0.1:1", "t"
		cfg.HistoryPath = filepath.Join(t.TempDir(), "missing", "history.db")

		convey.Convey("Then building the service fails", func() {
			_, err := buildService(context.Background(), cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should stop with its context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}
