package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/alumnet/internal/config"
	"github.com/okian/alumnet/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New(context.Background())
	cfg.Addr = "127.0.0.1:0"
	cfg.WorkerCount = 1
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestBuild(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)

		convey.Convey("When the application is assembled", func() {
			svc, handler, cleanup, err := build(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer cleanup()
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			srv := httptest.NewServer(handler)
			defer srv.Close()

			convey.Convey("Then the API, docs and metrics are routed", func() {
				resp, err := http.Get(srv.URL + "/api/roles")
				convey.So(err, convey.ShouldBeNil)
				var body struct {
					Roles []string `json:"roles"`
				}
				convey.So(json.NewDecoder(resp.Body).Decode(&body), convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(body.Roles, convey.ShouldContain, "Backend Developer")

				for _, path := range []string{"/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
					resp, err := http.Get(srv.URL + path)
					convey.So(err, convey.ShouldBeNil)
					_ = resp.Body.Close()
					convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				}
			})
		})

		convey.Convey("When the catalog path does not exist", func() {
			cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
			_, _, _, err := build(ctx, cfg, logger.Get())

			convey.Convey("Then assembly fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestOpenStore(t *testing.T) {
	convey.Convey("Given store drivers", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)

		convey.Convey("Then memory needs no DSN", func() {
			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(store.Close(), convey.ShouldBeNil)
		})

		convey.Convey("Then sqlite opens a file database", func() {
			cfg.StoreDriver = config.DriverSQLite
			cfg.StoreDSN = filepath.Join(t.TempDir(), "alumnet.db")
			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(store.Close(), convey.ShouldBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, testConfig(t), logger.Get()) }()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(100 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestStartSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given a short-lived context", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then the updater ticks and returns", func() {
			convey.So(func() { startSystemMetricsUpdater(ctx, 10*time.Millisecond) }, convey.ShouldNotPanic)
		})
	})
}
