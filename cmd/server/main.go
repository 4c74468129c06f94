package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/lide/internal/api"
	"github.com/Harshitk-cp/lide/internal/api/handlers"
	"github.com/Harshitk-cp/lide/internal/augment"
	"github.com/Harshitk-cp/lide/internal/buildconfig"
	"github.com/Harshitk-cp/lide/internal/config"
	"github.com/Harshitk-cp/lide/internal/interpret"
	"github.com/Harshitk-cp/lide/internal/llm"
	"github.com/Harshitk-cp/lide/internal/nlp"
	"github.com/Harshitk-cp/lide/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout     = 10 * time.Second
	rateLimiterInterval = 5 * time.Minute
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := config.StorageBackend()
	st, err := store.Open(ctx, backend, config.StorageDSN())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	logger.Info("store opened", zap.String("backend", backend))

	kb, err := interpret.LoadKnowledgeBase(config.TruthKBPath())
	if err != nil {
		return err
	}
	registry := interpret.NewRegistry(interpret.NewTruthChecker(kb), interpret.NewDiscourseMarker())

	provider := config.AugmentProvider()
	llmClient, err := llm.NewClient(provider, llm.Options{
		APIKey:   config.AugmentAPIKey(),
		Model:    config.AugmentModel(),
		CodexBin: config.CodexBin(),
		Timeout:  config.AugmentTimeout(),
	})
	if err != nil {
		// Augmentation is optional; the symbolic pipeline still runs.
		logger.Warn("augmentation client initialization failed", zap.String("provider", provider), zap.Error(err))
		llmClient = nil
	}
	augmenter := augment.NewAugmenter(llmClient, config.AugmentTimeout(), logger)
	logger.Info("augmentation configured",
		zap.String("provider", provider),
		zap.Bool("enabled", augmenter.Enabled()),
	)

	app := api.NewApp(api.Deps{
		Store:     st,
		Annotator: nlp.NewHTTPAnnotator(config.AnnotatorURL(), config.AnnotatorTimeout()),
		Augmenter: augmenter,
		Registry:  registry,
		Models: handlers.ModelInfo{
			Annotator:        config.AnnotatorURL(),
			AugmentProvider:  provider,
			AugmentEnabled:   augmenter.Enabled(),
			StorageBackend:   backend,
			KnowledgeVersion: kb.Version,
		},
		APIKey:         config.APIKey(),
		RateLimitRPS:   config.RateLimitRPS(),
		RateLimitBurst: config.RateLimitBurst(),
	}, logger)

	srv := &http.Server{
		Addr:              config.ServerAddr(),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("version", buildconfig.Version()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return app.RateLimiter.Run(gctx, rateLimiterInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
