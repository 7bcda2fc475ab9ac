package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		Redis
		Tasks
		Sessions
		Reader
		Demo
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		DefaultUserID            string // Used when a request carries no user cookie
	}
	Database struct {
		Path string
	}
	Log struct {
		Level  string
		Pretty bool
	}
	Redis struct {
		Addr            string // Empty disables the content cache
		Password        string
		DB              int
		ContentCacheTTL time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Sessions struct {
		RetentionDays   int    // Days to keep reading sessions (0 keeps them forever)
		CleanupSchedule string // Cron format: "30 3 * * *" = daily at 03:30
	}
	Demo struct {
		Enabled bool // Read-only mode for public demos
	}
	Reader struct {
		APIURL       string // Base URL of the reading API used by client commands
		SettingsPath string // Local database holding reader display settings
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("default_user_id", DefaultUserID)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	// Redis content cache defaults
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("content_cache_ttl", "1h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Session retention defaults
	v.SetDefault("session_retention_days", 365)
	v.SetDefault("session_cleanup_schedule", "30 3 * * *")

	v.SetDefault("demo_mode", false)

	// Reader client defaults
	v.SetDefault("reader_api_url", "http://localhost:8190")
	v.SetDefault("reader_settings_path", DefaultReaderSettingsPath)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			DefaultUserID:            v.GetString("DEFAULT_USER_ID"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		Redis: Redis{
			Addr:            v.GetString("REDIS_ADDR"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			ContentCacheTTL: v.GetDuration("CONTENT_CACHE_TTL"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Sessions: Sessions{
			RetentionDays:   v.GetInt("SESSION_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("SESSION_CLEANUP_SCHEDULE"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
		Reader: Reader{
			APIURL:       v.GetString("READER_API_URL"),
			SettingsPath: v.GetString("READER_SETTINGS_PATH"),
		},
	}
}
