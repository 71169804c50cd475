package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ibkr-relay/internal/auth"
	"ibkr-relay/internal/broker"
	"ibkr-relay/internal/config"
	"ibkr-relay/internal/events"
	"ibkr-relay/internal/health"
	"ibkr-relay/internal/httpserver"
	"ibkr-relay/internal/logging"
	"ibkr-relay/internal/orders"

	"go.uber.org/zap"
)

func serviceName(mode config.Mode) string {
	switch mode {
	case config.ModeV1:
		return "IBKR Cloud Middleware"
	case config.ModeV2:
		return "IBKR Cloud Middleware v2"
	default:
		return "IBKR Paper Trading Simulation"
	}
}

func main() {
	startedAt := time.Now()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Mode.Relays() && cfg.UsingDefaultAPIKey {
		logger.Warn("API_KEY not set; relay accepts the built-in development key",
			zap.String("mode", string(cfg.Mode)))
	}

	cred, err := auth.NewCredential(cfg.APIKey, cfg.APIKeyHash)
	if err != nil {
		logger.Fatal("invalid credential", zap.Error(err))
	}

	var adapter broker.Adapter = broker.NewDisabledAdapter()
	var statusSource broker.Adapter
	if cfg.Mode.Relays() {
		gw := broker.NewGatewayClient(cfg.GatewayURL, broker.GatewayOptions{
			InsecureTLS: cfg.GatewayTLSInsecure,
			Timeout:     cfg.GatewayTimeout,
		})
		adapter = gw
		statusSource = gw
	}

	name := serviceName(cfg.Mode)
	bus := events.NewBus()
	orderSvc := orders.NewService(adapter, bus, logger, orders.ServiceOptions{
		Mode:             string(cfg.Mode),
		DefaultAccountID: cfg.DefaultAccountID,
	})
	router := httpserver.NewRouter(httpserver.RouterDeps{
		Mode:          cfg.Mode,
		Service:       name,
		OrderHandler:  orders.NewHandler(orderSvc),
		HealthHandler: health.NewHandler(name, string(cfg.Mode), statusSource, logger, startedAt),
		StreamHandler: httpserver.NewOrderStreamHandler(bus, cfg.CORSOrigins, logger),
		Credential:    cred,
		CORSOrigins:   cfg.CORSOrigins,
		Logger:        logger,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fields := []zap.Field{
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.Strings("routes", httpserver.Routes(cfg.Mode)),
	}
	if cfg.Mode.Relays() {
		fields = append(fields, zap.String("gateway_url", cfg.GatewayURL), zap.String("default_account", cfg.DefaultAccountID))
	}
	logger.Info(name+" listening", fields...)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
