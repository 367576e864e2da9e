package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/httpserver"
	"storefront/internal/shopapi"
	"storefront/internal/storefront"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricEventsEmitted   = "storefront_events_emitted_total"
	metricOrdersSubmitted = "storefront_orders_submitted_total"
	metricOrderFailures   = "storefront_order_failures_total"
	metricActiveSessions  = "storefront_active_sessions"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadStorefront()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	eventsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricEventsEmitted,
		Help: "Total number of events dispatched on session buses",
	}, []string{"event"})
	ordersSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricOrdersSubmitted,
		Help: "Total number of successfully submitted orders",
	})
	orderFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricOrderFailures,
		Help: "Total number of failed order submissions",
	})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metricActiveSessions,
		Help: "Number of live storefront sessions",
	})
	prometheus.MustRegister(eventsEmitted, ordersSubmitted, orderFailures, activeSessions)

	shop := shopapi.NewClient(cfg.ShopAPIURL, cfg.CDNURL, cfg.APIRequestTimeout)

	deps := storefront.Deps{
		Shop:      shop,
		Logger:    logger,
		BusEvents: eventsEmitted,
		Metrics: storefront.Metrics{
			OrdersSubmitted: ordersSubmitted,
			OrderFailures:   orderFailures,
		},
		SubmitTimeout: cfg.APIRequestTimeout,
	}

	store := httpserver.NewSessionStore(cfg.SessionTTL, func() (*storefront.App, error) {
		return storefront.NewApp(deps)
	}, logger, activeSessions)
	handler := httpserver.NewHandler(store, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpserver.RequestIDMiddleware())
	router.Use(httpserver.AccessLogMiddleware(logger))
	httpserver.RegisterRoutes(router, handler, shop)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go store.Sweep(ctx, cfg.SessionSweepInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront started", "addr", cfg.HTTPAddr, "shop_api", cfg.ShopAPIURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("storefront stopped")
}
