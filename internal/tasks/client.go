package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/readnwin/reader/internal/logger"
)

// Client runs backlite queues on a SQLite database next to the reading
// database, so queue locking never contends with API writes.
type Client struct {
	client  *backlite.Client
	db      *sql.DB
	config  Config
	log     logger.Logger
	started atomic.Bool
}

// TasksDBPath returns the queue database used for mainDBPath:
// "data/readnwin.db" becomes "data/readnwin-tasks.db".
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

func NewClient(mainDBPath string, cfg Config, log logger.Logger) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openQueueDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &zapLogger{log: log},
	})
	if err == nil {
		err = client.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{client: client, db: db, config: cfg, log: log}, nil
}

// openQueueDB opens the queue database in WAL mode with room for every
// worker plus producers.
func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Register must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start begins processing tasks; later calls are no-ops.
func (c *Client) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	c.log.Info("task queue started", logger.Int("workers", c.config.Workers))
	c.client.Start(ctx)
}

// Stop waits for running tasks until ctx is done. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.started.Load() {
		return true
	}
	c.log.Info("stopping task queue")
	if !c.client.Stop(ctx) {
		c.log.Warn("task queue stopped before all tasks completed")
		return false
	}
	c.log.Info("task queue stopped")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// zapLogger implements backlite.Logger. backlite passes alternating keys and
// values, slog style.
type zapLogger struct {
	log logger.Logger
}

func (l *zapLogger) Info(message string, params ...any) {
	l.log.Debug(message, kvFields(params)...)
}

func (l *zapLogger) Error(message string, params ...any) {
	l.log.Error(message, kvFields(params)...)
}

func kvFields(params []any) []zap.Field {
	fields := make([]zap.Field, 0, len(params)/2+1)
	fields = append(fields, logger.String("component", "tasks"))
	for i := 0; i < len(params); i += 2 {
		if i+1 == len(params) {
			fields = append(fields, zap.Any("extra", params[i]))
			break
		}
		key, ok := params[i].(string)
		if !ok {
			key = fmt.Sprint(params[i])
		}
		fields = append(fields, zap.Any(key, params[i+1]))
	}
	return fields
}
