package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirillkom/docsight/internal/bootstrap"
	"github.com/kirillkom/docsight/internal/config"
	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "worker")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", app.ScanMetrics.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsMux,
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("worker metrics server error: %v", err)
		}
	}()

	scanTimeout := time.Duration(cfg.ScanTimeoutSeconds) * time.Second

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeScanRequested(ctx, func(handlerCtx context.Context, job domain.ScanJob) error {
		scanCtx, cancel := context.WithTimeout(handlerCtx, scanTimeout)
		defer cancel()

		app.ScanMetrics.StartScan()
		start := time.Now()
		analysis, err := app.AnalyzeUC.Analyze(scanCtx, job.Path)
		app.ScanMetrics.FinishScan(time.Since(start), err)
		if err != nil {
			return err
		}

		for _, doc := range analysis.Documents {
			app.ScanMetrics.ObserveFile(string(doc.Status))
		}

		slog.Info("scan completed",
			"job_id", job.ID,
			"path", job.Path,
			"documents", analysis.TotalDocuments,
			"total_size", analysis.TotalSize,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
