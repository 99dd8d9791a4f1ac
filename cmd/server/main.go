package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rediscache "shortlink/internal/cache/redis"
	"shortlink/internal/config"
	"shortlink/internal/existence"
	"shortlink/internal/hotscore"
	"shortlink/internal/http/server"
	"shortlink/internal/idgen"
	"shortlink/internal/logger"
	"shortlink/internal/repository"
	"shortlink/internal/repository/inmemory"
	"shortlink/internal/repository/postgres"
	"shortlink/internal/services/url_shortener"
	"shortlink/internal/shortcode"
	"shortlink/internal/warmup"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStorage(ctx, cfg, *log)
	if err != nil {
		return err
	}
	defer store.Close()

	rdb, err := rediscache.NewClient(rediscache.Config{
		Address:  cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()
	cache := rediscache.NewLinkCache(rdb, rediscache.DefaultKeyPrefix)

	ids, err := idgen.NewGenerator(cfg.MachineID)
	if err != nil {
		return err
	}
	codec, err := shortcode.NewCodec(cfg.CodeLength)
	if err != nil {
		return err
	}
	calc, err := hotscore.NewCalculator(cfg.HotScore())
	if err != nil {
		return err
	}

	filter, err := existence.NewFilter(cfg.FilterExpectedItems, cfg.FilterFPRate, *log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := warmup.NewEngine(cfg.Warmup.Engine, store, cache, calc, *log,
		warmup.WithMetrics(warmup.NewMetrics(reg)))
	scheduler, err := warmup.NewScheduler(cfg.Warmup.Schedule, engine, *log)
	if err != nil {
		return err
	}
	if spec := cfg.Warmup.Schedule.FilterRebuildCron; spec != "" {
		err := scheduler.AddTask("filter_rebuild", spec, func(ctx context.Context) error {
			_, err := filter.Rebuild(ctx, store)
			return err
		})
		if err != nil {
			return err
		}
	}

	svc := url_shortener.NewServiceURLShortener(store, cache, ids, codec, filter, url_shortener.Config{
		BaseURL:     cfg.BaseURL,
		MaxAttempts: cfg.CreateMaxAttempts,
		CacheTTL:    cfg.LinkCacheTTL,
	}, *log)

	srv, err := server.NewServer(log, cfg.ServerAddress, server.Deps{
		Links:    svc,
		Warmup:   engine,
		Filter:   filter,
		Codes:    store,
		Registry: reg,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	// Without a snapshot the filter is empty and would reject every code, so
	// the store scan has to finish before serving.
	if warm := loadFilter(ctx, filter, cfg.FilterSnapshotPath, *log); warm {
		g.Go(func() error {
			if _, err := filter.Populate(gctx, store); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("background filter rebuild failed")
			}
			return nil
		})
	} else if _, err := filter.Populate(ctx, store); err != nil {
		return err
	}

	scheduler.Start(gctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}

		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
		}

		if err := engine.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("warmup shutdown: %w", err))
		}

		svc.Wait()

		if cfg.FilterSnapshotPath != "" {
			if err := filter.SaveSnapshot(shutdownCtx, cfg.FilterSnapshotPath); err != nil {
				errs = append(errs, fmt.Errorf("filter snapshot: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Storage, error) {
	if cfg.DatabaseDSN == "" {
		log.Warn().Msg("DATABASE_DSN is empty, using in-memory store")
		return inmemory.NewStorage(), nil
	}

	store, err := postgres.NewStorage(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return store, nil
}

// loadFilter reports whether a snapshot was merged into the filter.
func loadFilter(ctx context.Context, filter *existence.Filter, path string, log zerolog.Logger) bool {
	if path == "" {
		return false
	}
	err := filter.LoadSnapshot(ctx, path)
	switch {
	case err == nil:
		log.Info().Str("path", path).Msg("existence filter snapshot loaded")
		return true
	case errors.Is(err, existence.ErrNoSnapshot):
		return false
	default:
		log.Warn().Err(err).Str("path", path).Msg("ignoring existence filter snapshot")
		return false
	}
}
