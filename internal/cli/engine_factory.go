// Package cli wires configuration into a ready-to-use engine for the
// command line entry points.
package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/iaee"
	"github.com/aretw0/iaee/internal/adapters/file"
	"github.com/aretw0/iaee/internal/config"
	"github.com/aretw0/iaee/internal/logging"
	"github.com/aretw0/iaee/internal/metrics"
	"github.com/aretw0/iaee/pkg/adapters/memory"
	"github.com/aretw0/iaee/pkg/adapters/redis"
	"github.com/aretw0/iaee/pkg/persistence/middleware"
	"github.com/aretw0/iaee/pkg/ports"
)

// Runtime is an engine plus the resources created for it.
type Runtime struct {
	Engine  *iaee.Engine
	Metrics *metrics.Metrics
	// Reports is the store lookups go to: always in-memory, so reports
	// submitted in this process can be fetched back.
	Reports ports.ReportStore
	// Archive is the first persisted store (file, then redis), wrapped in
	// the configured protection middleware. Nil when none is configured.
	Archive ports.ReportStore
	Logger  *slog.Logger

	closers []io.Closer
}

// Close releases external connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// NewRuntime initializes an engine with standard CLI conventions:
// metrics hooks always, debug hooks when debug is set, and one report
// store per configured sink.
func NewRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger, debug bool) (*Runtime, error) {
	rt := &Runtime{
		Metrics: metrics.New(),
		Reports: memory.NewStore(),
		Logger:  logger,
	}

	// 1. Logger & Hooks
	hooks := rt.Metrics.Hooks()
	if debug {
		hooks = chainHooks(hooks, createDebugHooks(logger))
	}
	opts := []iaee.Option{
		iaee.WithLogger(logger),
		iaee.WithLifecycleHooks(hooks),
		iaee.WithStore(rt.Reports),
	}

	// 2. Sinks
	protect, err := ProtectionMiddleware(cfg.Output)
	if err != nil {
		return nil, err
	}
	if cfg.Output.ReportsDir != "" {
		rt.Archive = middleware.Chain(file.New(cfg.Output.ReportsDir), protect...)
		opts = append(opts, iaee.WithStore(rt.Archive))
		logger.Debug("file report store enabled", "dir", cfg.Output.ReportsDir)
	}
	if cfg.Redis.URL != "" {
		store, err := redis.NewFromURL(cfg.Redis.URL,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(time.Duration(cfg.Redis.TTL)),
			redis.WithMaxReports(cfg.Redis.MaxReports),
		)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		rt.closers = append(rt.closers, store)
		protected := middleware.Chain(store, protect...)
		if rt.Archive == nil {
			rt.Archive = protected
		}
		opts = append(opts, iaee.WithStore(protected))
		logger.Debug("redis report store enabled", "prefix", cfg.Redis.Prefix)
	}

	// 3. Initialize
	rt.Engine = iaee.New(opts...)
	return rt, nil
}

// ProtectionMiddleware builds the redaction and encryption layers for
// persisted report stores. Redaction runs before encryption.
func ProtectionMiddleware(cfg config.OutputConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	if len(cfg.Redact.Keys) > 0 || len(cfg.Redact.Values) > 0 {
		for _, p := range append(append([]string{}, cfg.Redact.Keys...), cfg.Redact.Values...) {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
			}
		}
		mws = append(mws, middleware.NewPIIMiddleware(middleware.PIIConfig{
			Keys:   cfg.Redact.Keys,
			Values: cfg.Redact.Values,
		}))
	}

	if cfg.EncryptionKey != "" {
		active, err := decodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		var fallbacks [][]byte
		for i, k := range cfg.FallbackKeys {
			key, err := decodeKey(k)
			if err != nil {
				return nil, fmt.Errorf("invalid fallback key %d: %w", i, err)
			}
			fallbacks = append(fallbacks, key)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}

	return mws, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// CreateLogger builds the process logger from config; debug forces the
// debug level.
func CreateLogger(cfg config.LogConfig, debug bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	if strings.EqualFold(cfg.Format, "json") {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}
