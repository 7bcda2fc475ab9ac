package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readnwin/reader/internal/cache"
	"github.com/readnwin/reader/internal/config"
	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/database/books"
	"github.com/readnwin/reader/internal/database/reading"
	http_controllers "github.com/readnwin/reader/internal/http"
	"github.com/readnwin/reader/internal/logger"
	"github.com/readnwin/reader/internal/scheduler"
	"github.com/readnwin/reader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, log logger.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info("starting server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", logger.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the task queue goes away.
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", logger.Error(err))
	}
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("server exiting")
}

func Run(cfg *config.Config, version string, log logger.Logger) {
	log.Info("starting readnwin reading API", logger.String("version", version))
	gin.SetMode(gin.ReleaseMode)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to initialize database", logger.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("error closing database", logger.Error(err))
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	readingRepo := reading.NewRepository(db.DB)

	contentCache, closeCache := newContentCache(cfg.Redis, log)
	defer closeCache()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize task queue", logger.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Warn("error closing task client", logger.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewFoldSessionQueue(readingRepo, log),
			tasks.NewPurgeSessionsQueue(readingRepo, log),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Interfaces holding a nil *tasks.Client would not compare equal to nil.
	var routerTasks http_controllers.TaskQueue
	var cleanupQueue scheduler.TaskQueue
	if taskClient != nil {
		routerTasks = taskClient
		cleanupQueue = taskClient
	}

	schedCtx, schedCancel := context.WithCancel(context.Background())
	cleanup := scheduler.NewSessionCleanupScheduler(readingRepo, cleanupQueue,
		cfg.Sessions.RetentionDays, cfg.Sessions.CleanupSchedule, log)
	if err := cleanup.Start(schedCtx); err != nil {
		log.Error("failed to start session cleanup scheduler", logger.Error(err))
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:         bookRepo,
		Reading:       readingRepo,
		Database:      db,
		Cache:         contentCache,
		Tasks:         routerTasks,
		DefaultUserID: cfg.Global.DefaultUserID,
		DemoMode:      cfg.Demo.Enabled,
		Version:       version,
		Logger:        log,
	})

	onShutdown := func(ctx context.Context) {
		cleanup.Stop()
		schedCancel()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		_ = log.Sync()
	}

	Serve(router, cfg, log, onShutdown)
}

// newContentCache connects to Redis when an address is configured. The API
// keeps working without the cache when Redis is unreachable.
func newContentCache(cfg config.Redis, log logger.Logger) (cache.ContentCache, func()) {
	if cfg.Addr == "" {
		log.Info("content cache disabled (REDIS_ADDR not set)")
		return cache.NoopContentCache{}, func() {}
	}

	client, err := cache.Connect(cache.DefaultConnectOptions(cfg.Addr, cfg.Password, cfg.DB), log)
	if err != nil {
		log.Warn("content cache unavailable, serving from database", logger.Error(err))
		return cache.NoopContentCache{}, func() {}
	}
	return cache.NewRedisContentCache(client, cfg.ContentCacheTTL), func() {
		if err := client.Close(); err != nil {
			log.Warn("error closing redis client", logger.Error(err))
		}
	}
}
