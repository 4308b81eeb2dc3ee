package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/mivanovic/receipt-points/internal/config"
	"github.com/mivanovic/receipt-points/internal/events"
	idemmemory "github.com/mivanovic/receipt-points/internal/idempotency/memory"
	"github.com/mivanovic/receipt-points/internal/receipts/adapters"
	httpadapter "github.com/mivanovic/receipt-points/internal/receipts/adapters/http"
	"github.com/mivanovic/receipt-points/internal/receipts/adapters/memory"
	receiptsapp "github.com/mivanovic/receipt-points/internal/receipts/app"
	receiptmetrics "github.com/mivanovic/receipt-points/internal/receipts/metrics"
	"github.com/mivanovic/receipt-points/internal/storage"
	"github.com/mivanovic/receipt-points/internal/telemetry"
)

const meterName = "github.com/mivanovic/receipt-points"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := otel.Meter(meterName)

	processMetrics, err := receiptmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create receipt metrics", "error", err)
		os.Exit(1)
	}
	storeMetrics, err := storage.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create store metrics", "error", err)
		os.Exit(1)
	}
	eventMetrics, err := events.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create event metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}

	// One store instance for the life of the process; every handler shares it.
	repo := adapters.NewObservableRepository(memory.NewRepository(), storeMetrics)
	eventBus := adapters.NewObservableEventPublisher(events.NewNoopPublisher(), eventMetrics)
	idemStore := idemmemory.NewStore()

	service := receiptsapp.NewService(repo, eventBus, idemStore, logger, processMetrics)
	receiptsHandler := httpadapter.NewHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.HandleFunc(cfg.HTTP.MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("# metrics are exported via OTLP\n"))
	})

	receiptsHandler.Register(mux)

	handler := withRecovery(withLogging(httpadapter.WithMetrics(mux, httpMetrics)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.Info("http request", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
