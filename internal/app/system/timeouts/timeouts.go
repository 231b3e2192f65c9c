// Package timeouts provides centralized deadlines for store reads.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: point lookups (by id, by normalized name, by login)
//   - Medium: list/count queries and the two-step hierarchy query
//   - Long: effective-role resolution (up to three dependent queries) and
//     index reconciliation at startup
package timeouts

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds timeout configuration values.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Defaults is used until Configure is called.
var Defaults = Config{
	Ping:   2 * time.Second,
	Short:  5 * time.Second,
	Medium: 10 * time.Second,
	Long:   30 * time.Second,
}

var (
	mu      sync.RWMutex
	current = Defaults
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return Current().Ping }

// Short returns the timeout for single-document reads.
func Short() time.Duration { return Current().Short }

// Medium returns the timeout for list and count queries.
func Medium() time.Duration { return Current().Medium }

// Long returns the timeout for multi-query reads.
func Long() time.Duration { return Current().Long }

// Current returns the timeout configuration in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Validate reports an error when the tiers are out of order
// (Ping <= Short <= Medium <= Long). Zero fields are read as their defaults.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.Ping > c.Short || c.Short > c.Medium || c.Medium > c.Long {
		return errors.New("timeouts must satisfy ping <= short <= medium <= long")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Ping <= 0 {
		c.Ping = Defaults.Ping
	}
	if c.Short <= 0 {
		c.Short = Defaults.Short
	}
	if c.Medium <= 0 {
		c.Medium = Defaults.Medium
	}
	if c.Long <= 0 {
		c.Long = Defaults.Long
	}
	return c
}

// Configure sets the timeouts. Zero fields keep their defaults.
// Call during startup, before the handler is built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg.withDefaults()
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = Defaults
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the deadline was what ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "effective roles")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
