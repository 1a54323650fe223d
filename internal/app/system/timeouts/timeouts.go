// Package timeouts holds the deadlines handlers put on database work.
//
// Pick by the shape of the operation:
//   - Ping: health checks
//   - Short: a single-document read or write (get bug, fetch session user)
//   - Medium: listings and conditional updates (list bugs, assign, resolve)
//   - Long: anything that touches several collections (delete group with
//     its bugs and requests, accept an invite inside a transaction)
//
// Values come from Configure at startup, or from TIMEOUT_* environment
// variables via ConfigureFromEnv; otherwise the defaults apply.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong}
}

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, s := range slots(&cur) {
		if d := s.pick(cfg); d > 0 {
			*s.dst = d
		}
	}
}

// Reset restores the defaults. Tests use it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM and
// TIMEOUT_LONG (Go duration strings). Unset, invalid or non-positive
// values are skipped. It returns how many were applied.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	n := 0
	for _, s := range slots(&cur) {
		v := os.Getenv(s.env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*s.dst = d
			n++
		}
	}
	return n
}

type slot struct {
	env  string
	dst  *time.Duration
	pick func(Config) time.Duration
}

func slots(c *Config) []slot {
	return []slot{
		{"TIMEOUT_PING", &c.Ping, func(x Config) time.Duration { return x.Ping }},
		{"TIMEOUT_SHORT", &c.Short, func(x Config) time.Duration { return x.Short }},
		{"TIMEOUT_MEDIUM", &c.Medium, func(x Config) time.Duration { return x.Medium }},
		{"TIMEOUT_LONG", &c.Long, func(x Config) time.Duration { return x.Long }},
	}
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete group")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
