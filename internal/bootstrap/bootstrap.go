package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/docsight/internal/config"
	"github.com/kirillkom/docsight/internal/core/ports"
	"github.com/kirillkom/docsight/internal/core/usecase"
	"github.com/kirillkom/docsight/internal/infrastructure/cache"
	"github.com/kirillkom/docsight/internal/infrastructure/classifier"
	"github.com/kirillkom/docsight/internal/infrastructure/classifier/keyword"
	"github.com/kirillkom/docsight/internal/infrastructure/classifier/remote"
	"github.com/kirillkom/docsight/internal/infrastructure/detect"
	"github.com/kirillkom/docsight/internal/infrastructure/extract"
	"github.com/kirillkom/docsight/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docsight/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docsight/internal/infrastructure/resilience"
	"github.com/kirillkom/docsight/internal/infrastructure/walker"
	"github.com/kirillkom/docsight/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue       *nats.Queue
	Store       *postgres.Store
	AnalyzeUC   ports.FolderAnalyzer
	ScheduleUC  ports.ScanScheduler
	LibraryUC   *usecase.LibraryUseCase
	ScanMetrics *metrics.ScanMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := postgres.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init scan queue: %w", err)
	}

	classificationCache, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("init classification cache: %w", err)
	}

	backend, err := newClassifierBackend(cfg, executor)
	if err != nil {
		return nil, fmt.Errorf("init classifier backend: %w", err)
	}

	scanMetrics := metrics.NewScanMetrics(service)

	documentClassifier := classifier.New(
		backend,
		classifier.NewLexiconAnalyzer(),
		classificationCache,
		scanMetrics,
	)

	analyzeUC := usecase.NewAnalyzeFolderUseCase(
		walker.New(),
		detect.New(),
		extract.New(cfg.MaxTextLength),
		documentClassifier,
		store,
		cfg.ScanBatchSize,
	)
	scheduleUC := usecase.NewScheduleScanUseCase(queue)
	libraryUC := usecase.NewLibraryUseCase(store)

	return &App{
		Config: cfg,

		Queue:       queue,
		Store:       store,
		AnalyzeUC:   analyzeUC,
		ScheduleUC:  scheduleUC,
		LibraryUC:   libraryUC,
		ScanMetrics: scanMetrics,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newClassifierBackend(cfg config.Config, executor *resilience.Executor) (ports.ClassifierBackend, error) {
	switch cfg.ClassifierBackend {
	case "ollama":
		return remote.New(cfg.OllamaURL, cfg.OllamaModel, remote.Options{
			CallTimeout:       time.Duration(cfg.OllamaTimeoutSeconds) * time.Second,
			RequestsPerSecond: float64(cfg.OllamaRatePerSecond),
			Executor:          executor,
		}), nil
	case "keyword", "":
		if cfg.KeywordRulesPath != "" {
			return keyword.NewFromFile(cfg.KeywordRulesPath)
		}
		return keyword.New(), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.ClassifierBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
