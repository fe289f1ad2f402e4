package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathmind/internal/cache"
	"github.com/abhisek/pathmind/internal/config"
	"github.com/abhisek/pathmind/internal/content"
	"github.com/abhisek/pathmind/internal/identity"
	"github.com/abhisek/pathmind/internal/lesson"
	"github.com/abhisek/pathmind/internal/llm"
	"github.com/abhisek/pathmind/internal/logger"
	"github.com/abhisek/pathmind/internal/metrics"
	"github.com/abhisek/pathmind/internal/persist"
	"github.com/abhisek/pathmind/internal/progression"
	"github.com/abhisek/pathmind/internal/screen"
	"github.com/abhisek/pathmind/internal/store"
)

// persistDrainTimeout bounds how long shutdown waits for queued writes.
const persistDrainTimeout = 5 * time.Second

// deps is everything a command needs, built from configuration.
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *store.Store
	metrics  *metrics.Metrics
	provider llm.Provider
	cache    cache.Cache
	gen      content.Generator
	writer   *persist.Writer
	progress *progression.Service
	lessons  *lesson.Flow
}

type depsOptions struct {
	// quiet keeps log output off the terminal while the TUI runs.
	quiet bool

	// withMetrics registers Prometheus collectors.
	withMetrics bool

	// withoutLLM skips the provider; commands that only read the store
	// set it.
	withoutLLM bool
}

// loadConfig reads the config file and applies the --db flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	return cfg, nil
}

// openStore opens the configured database.
func openStore(cfg *config.Config) (*store.Store, error) {
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.OpenDriver(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func buildDeps(cmd *cobra.Command, opts depsOptions) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Mode:       cfg.Log.Mode,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Quiet:      opts.quiet,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	d := &deps{cfg: cfg, log: log, store: st}
	if cfg.File != "" {
		log.Debug("config loaded", "file", cfg.File)
	}

	var obs llm.Observer
	if opts.withMetrics {
		d.metrics = metrics.New()
		obs = d.metrics
	}

	if !opts.withoutLLM {
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log, obs)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("LLM provider not configured: %w", err)
		}
		d.provider = provider

		d.cache, err = newCache(ctx, cfg.Cache, log)
		if err != nil {
			d.close()
			return nil, err
		}
		d.gen = content.NewCaching(content.New(provider, content.DefaultConfig(), log), d.cache, cfg.Cache.TTL, log)
	}

	d.writer = persist.NewWriter(persist.Repos{
		Diagnostic:   st.DiagnosticRepo(),
		LearningPath: st.LearningPathRepo(),
		Progress:     st.ProgressRepo(),
	}, persist.DefaultQueueSize, log)
	d.progress = progression.NewService(st.LearningPathRepo(), st.ProgressRepo(), log)
	if d.gen != nil {
		d.lessons = lesson.NewFlow(d.gen, d.progress, d.writer, log)
	}
	return d, nil
}

// newCache picks Redis when an address is configured.
func newCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), nil
	}
	c, err := cache.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("connect cache: %w", err)
	}
	log.Info("using redis content cache", "addr", cfg.RedisAddr)
	return c, nil
}

// user resolves the identity of the local learner.
func (d *deps) user() (identity.Identity, error) {
	id, err := identity.Local(d.cfg.User.ID)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("resolve user: %w", err)
	}
	return id, nil
}

func (d *deps) services(user identity.Identity) screen.Services {
	return screen.Services{
		Generator: d.gen,
		Recorder:  d.writer,
		Progress:  d.progress,
		Lessons:   d.lessons,
		User:      user,
		Log:       d.log,
	}
}

// close drains pending writes, then releases the store and cache.
func (d *deps) close() {
	if d.writer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistDrainTimeout)
		if err := d.writer.Close(ctx); err != nil {
			d.log.Warn("pending writes not flushed", "error", err)
		}
		cancel()
	}
	if d.cache != nil {
		if err := d.cache.Close(); err != nil {
			d.log.Warn("close cache", "error", err)
		}
	}
	if err := d.store.Close(); err != nil {
		d.log.Warn("close store", "error", err)
	}
	d.log.Sync()
}
