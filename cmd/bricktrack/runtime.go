package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bricktrack/internal/app"
	"bricktrack/internal/config"
	"bricktrack/internal/gateway"
	"bricktrack/internal/logging"
	"bricktrack/internal/repository"
	"bricktrack/internal/storage"
	"bricktrack/internal/timer"

	"go.uber.org/zap"
)

type runtimeOptions struct {
	OnTick func(timer.Snapshot)
	// Ticker overrides the one-second tick source in tests.
	Ticker timer.TickerFunc
}

// runtime is everything a command needs, opened in dependency order and
// closed in reverse.
type runtime struct {
	cfg     config.Config
	manager *storage.Manager
	store   storage.Store
	logger  *zap.Logger
	app     *app.App
}

func openRuntime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	if dir := strings.TrimSpace(dataDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve data dir failed: %w", err)
		}
		cfg.Storage.BaseDir = abs
	}

	manager, err := storage.NewManager(cfg.Storage.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("init storage failed: %w", err)
	}
	logger, err := logging.New(manager.LogsDir(), verbose)
	if err != nil {
		return nil, err
	}
	// tiktoken downloads BPE files on first use and caches them here.
	if os.Getenv("TIKTOKEN_CACHE_DIR") == "" {
		_ = os.Setenv("TIKTOKEN_CACHE_DIR", manager.CacheDir())
	}

	store, err := storage.Open(cfg.Storage.Backend, manager)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s store failed: %w", cfg.Storage.Backend, err)
	}
	if cfg.Storage.Backend == "sqlite" {
		migrateJSONState(manager, store, logger)
	}

	backend, err := gateway.NewBackend(ctx, cfg.AI)
	if err != nil {
		// AI stays optional: every gateway call falls back without a backend.
		logger.Warn("ai backend unavailable", zap.String("provider", cfg.AI.Provider), zap.Error(err))
		backend = nil
	}
	gw := gateway.New(gateway.Options{
		Backend:        backend,
		Timeout:        time.Duration(cfg.AI.TimeoutMS) * time.Millisecond,
		TokenBudget:    cfg.AI.InsightTokenBudget,
		TokenizerModel: cfg.AI.InsightModel,
		Logger:         logger,
	})

	repo := repository.Load(store, repository.Options{Logger: logger})
	a := app.New(app.Options{
		Repo:            repo,
		Gateway:         gw,
		Store:           store,
		Language:        language,
		DefaultLanguage: cfg.UI.Language,
		View:            app.ParseView(cfg.UI.DefaultView),
		Ticker:          opts.Ticker,
		OnTick:          opts.OnTick,
		Logger:          logger,
	})
	logger.Debug("runtime ready",
		zap.String("data_dir", manager.BaseDir()),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("ai", gw.Provider()),
		zap.String("lang", a.Language()))

	return &runtime{cfg: cfg, manager: manager, store: store, logger: logger, app: a}, nil
}

// migrateJSONState copies keys left by the json backend into a fresh SQLite
// store so switching backends keeps the collection.
func migrateJSONState(manager *storage.Manager, dst storage.Store, logger *zap.Logger) {
	src, err := storage.NewFileStore(manager.StateDir())
	if err != nil {
		logger.Warn("json state unavailable for migration", zap.Error(err))
		return
	}
	n, err := storage.Migrate(src, dst)
	if err != nil {
		logger.Error("migrate json state failed", zap.Int("migrated", n), zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("migrated json state into sqlite", zap.Int("keys", n))
	}
}

// Close stops the app, then releases the store and flushes the log.
func (r *runtime) Close() error {
	err := r.app.Close()
	if cerr := r.store.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
	}
	_ = r.logger.Sync()
	return err
}
