package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/blen-az/investFX-sub001/internal/config"
	"github.com/blen-az/investFX-sub001/internal/engine"
	"github.com/blen-az/investFX-sub001/internal/handler"
	"github.com/blen-az/investFX-sub001/internal/ledger"
	"github.com/blen-az/investFX-sub001/internal/pricefeed"
	"github.com/blen-az/investFX-sub001/internal/service"
	"github.com/blen-az/investFX-sub001/internal/stream"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load .env if present, then configuration from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Core components.
	feed := pricefeed.New(cfg.InitialPriceCents, nil)
	l := ledger.New()
	book := engine.NewBook()
	eng := engine.New(book, l, feed, logger)

	// Tick fan-out to websocket subscribers.
	hub := stream.NewHub[stream.TickEvent]()
	sweeper := engine.NewSweeper(cfg.TickInterval, eng, &stream.TickBroadcaster{Hub: hub}, logger)

	// Services.
	accountSvc := service.NewAccountService(l)
	tradingSvc := service.NewTradingService(eng)
	marketSvc := service.NewMarketService(feed, sweeper, l)

	// Router.
	streamH := handler.NewStreamHandler(hub, logger)
	router := handler.NewRouter(accountSvc, tradingSvc, marketSvc, streamH, cfg.CORSOrigin, logger)

	// Start the tick goroutine with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.Int64("initial_price_cents", cfg.InitialPriceCents),
			slog.Duration("tick_interval", cfg.TickInterval),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the tick goroutine).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
