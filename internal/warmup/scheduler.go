package warmup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shortlink/internal/domain/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=scheduler.go -destination=../mocks/mock_warmup_executor.go -package=mocks

// JobExecutor is the part of Engine the scheduler drives.
type JobExecutor interface {
	Execute(ctx context.Context, req Request) (*Job, error)
	CleanupCompleted() int
}

// ScheduleConfig holds the cron expressions (with a seconds field) and the
// per-strategy sizes of the recurring warmups. An empty expression disables
// that schedule.
type ScheduleConfig struct {
	Enabled bool `yaml:"enabled"`

	HotLinksCron string `yaml:"hot_links_cron"`
	RecentCron   string `yaml:"recent_cron"`
	FullCron     string `yaml:"full_cron"`
	CleanupCron  string `yaml:"cleanup_cron"`
	// FilterRebuildCron drives the periodic existence filter rebuild
	// registered through AddTask.
	FilterRebuildCron string `yaml:"filter_rebuild_cron"`

	HotLinksLimit int `yaml:"hot_links_limit"`
	RecentLimit   int `yaml:"recent_limit"`
	FullLimit     int `yaml:"full_limit"`
	BatchSize     int `yaml:"batch_size"`

	// StartupDelay schedules a one-shot hot warmup after Start. Zero disables it.
	StartupDelay time.Duration `yaml:"startup_delay"`
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Enabled:           true,
		HotLinksCron:      "0 0 * * * *",
		RecentCron:        "0 0,30 * * * *",
		FullCron:          "0 0 2 * * *",
		CleanupCron:       "0 15 * * * *",
		FilterRebuildCron: "0 */10 * * * *",
		HotLinksLimit:     DefaultLimit,
		RecentLimit:       500,
		FullLimit:         5000,
		BatchSize:         DefaultBatchSize,
		StartupDelay:      30 * time.Second,
	}
}

var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateCron checks an expression with the parser the scheduler uses.
func ValidateCron(spec string) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

type Scheduler struct {
	cfg    ScheduleConfig
	engine JobExecutor
	cron   *cron.Cron
	log    zerolog.Logger

	mu      sync.Mutex
	ctx     context.Context
	startup *time.Timer
}

func NewScheduler(cfg ScheduleConfig, engine JobExecutor, log zerolog.Logger) (*Scheduler, error) {
	l := log.With().Str("component", "warmup_scheduler").Logger()
	s := &Scheduler{
		cfg:    cfg,
		engine: engine,
		log:    l,
		ctx:    context.Background(),
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(cron.Recover(cron.PrintfLogger(&l))),
		),
	}

	if !cfg.Enabled {
		return s, nil
	}

	warmups := []struct {
		name string
		spec string
		req  Request
	}{
		{"hot_links", cfg.HotLinksCron, Request{Strategy: models.StrategyHotLinks, Limit: cfg.HotLinksLimit}},
		{"recent_accessed", cfg.RecentCron, Request{Strategy: models.StrategyRecentAccessed, Limit: cfg.RecentLimit}},
		{"full", cfg.FullCron, Request{Strategy: models.StrategyFullWarmup, Limit: cfg.FullLimit}},
	}
	for _, w := range warmups {
		if w.spec == "" {
			continue
		}
		req := w.req
		req.BatchSize = cfg.BatchSize
		req.Async = true
		if _, err := req.Normalize(); err != nil {
			return nil, fmt.Errorf("%s warmup: %w", w.name, err)
		}
		if err := s.add(w.name, w.spec, func() { s.trigger(w.name, req) }); err != nil {
			return nil, err
		}
	}

	if cfg.CleanupCron != "" {
		if err := s.add("cleanup", cfg.CleanupCron, s.cleanup); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(name, spec string, fn func()) error {
	if err := ValidateCron(spec); err != nil {
		return fmt.Errorf("%s schedule: %w", name, err)
	}
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("%s schedule: %w", name, err)
	}
	s.log.Info().Str("schedule", name).Str("cron", spec).Msg("warmup schedule registered")
	return nil
}

// AddTask registers a recurring maintenance task next to the warmups. It
// runs whether or not warmups are enabled; errors from fn are logged.
func (s *Scheduler) AddTask(name, spec string, fn func(ctx context.Context) error) error {
	return s.add(name, spec, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		started := time.Now()
		if err := fn(ctx); err != nil {
			s.log.Error().Err(err).Str("schedule", name).Msg("scheduled task failed")
			return
		}
		s.log.Debug().Str("schedule", name).Dur("took", time.Since(started)).Msg("scheduled task done")
	})
}

// Start runs the cron loop and arms the startup warmup. ctx is passed to the
// jobs the scheduler submits.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	if s.cfg.Enabled && s.cfg.StartupDelay > 0 {
		req := Request{
			Strategy:  models.StrategyHotLinks,
			Limit:     s.cfg.HotLinksLimit,
			BatchSize: s.cfg.BatchSize,
			Async:     true,
		}
		s.startup = time.AfterFunc(s.cfg.StartupDelay, func() { s.trigger("startup", req) })
	}
	s.mu.Unlock()

	s.cron.Start()
	s.log.Info().Int("schedules", len(s.cron.Entries())).Msg("warmup scheduler started")
}

// Stop halts the schedules. The returned context is done once running
// triggers have returned.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	if s.startup != nil {
		s.startup.Stop()
	}
	s.mu.Unlock()

	s.log.Info().Msg("warmup scheduler stopping")
	return s.cron.Stop()
}

func (s *Scheduler) trigger(name string, req Request) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	job, err := s.engine.Execute(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Str("schedule", name).Msg("scheduled warmup rejected")
		return
	}
	s.log.Info().Str("schedule", name).Str("job_id", job.ID).Msg("scheduled warmup submitted")
}

func (s *Scheduler) cleanup() {
	removed := s.engine.CleanupCompleted()
	s.log.Debug().Int("removed", removed).Msg("scheduled warmup cleanup done")
}
