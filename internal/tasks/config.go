package tasks

import "time"

const (
	defaultWorkers         = 2
	defaultReleaseAfter    = 15 * time.Minute
	defaultCleanupInterval = time.Hour
)

// Config sizes the session task queue. Zero fields take the defaults used by
// the TASK_* environment settings.
type Config struct {
	// Workers fold sessions and purge old ones concurrently.
	Workers int
	// ReleaseAfter returns a claimed task to the queue when its worker died.
	ReleaseAfter time.Duration
	// CleanupInterval removes finished fold and purge tasks.
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = defaultReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = defaultCleanupInterval
	}
	return c
}
