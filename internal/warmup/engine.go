// Package warmup pushes the links most likely to be requested into the cache
// tier ahead of demand. Jobs are accepted by Execute, queued on a bounded
// worker pool and tracked until a cleanup sweep drops them.
package warmup

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"shortlink/internal/domain/models"
	"shortlink/internal/hotscore"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

//go:generate mockgen -source=engine.go -destination=../mocks/mock_warmup_engine.go -package=mocks

// CandidateStore is the read side of the link store used by warmup jobs.
type CandidateStore interface {
	QueryCandidates(ctx context.Context, q models.CandidateQuery) ([]models.LinkRecord, error)
	AccessMetrics(ctx context.Context, codes []string, now time.Time) (map[string]models.LinkAccessMetrics, error)
}

type CacheWriter interface {
	Set(ctx context.Context, code string, link models.LinkRecord, ttl time.Duration) error
}

var (
	ErrQueueFull    = errors.New("warmup queue is full")
	ErrJobNotFound  = errors.New("warmup job not found")
	ErrJobFinished  = errors.New("warmup job already finished")
	ErrEngineClosed = errors.New("warmup engine is shut down")
)

type Config struct {
	Workers          int           `yaml:"workers"`
	QueueSize        int           `yaml:"queue_size"`
	WriteConcurrency int           `yaml:"write_concurrency"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	BaseTTL          time.Duration `yaml:"base_ttl"`
	Retention        time.Duration `yaml:"retention"`
}

func DefaultConfig() Config {
	return Config{
		Workers:          2,
		QueueSize:        16,
		WriteConcurrency: 16,
		WriteTimeout:     2 * time.Second,
		BaseTTL:          time.Hour,
		Retention:        24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.WriteConcurrency <= 0 {
		c.WriteConcurrency = def.WriteConcurrency
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.BaseTTL <= 0 {
		c.BaseTTL = def.BaseTTL
	}
	if c.Retention <= 0 {
		c.Retention = def.Retention
	}
	return c
}

type Option func(*Engine)

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithClock replaces time.Now for job timestamps and TTL computation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

type Engine struct {
	cfg     Config
	store   CandidateStore
	cache   CacheWriter
	calc    *hotscore.Calculator
	metrics *Metrics
	log     zerolog.Logger
	now     func() time.Time
	sem     *semaphore.Weighted

	ctx   context.Context
	stop  context.CancelFunc
	queue chan *jobState
	wg    sync.WaitGroup

	mu     sync.RWMutex
	jobs   map[string]*jobState
	closed bool
	totals totals
}

// NewEngine starts cfg.Workers workers. Call Shutdown to stop them.
func NewEngine(cfg Config, store CandidateStore, cache CacheWriter, calc *hotscore.Calculator,
	log zerolog.Logger, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	ctx, stop := context.WithCancel(context.Background())

	e := &Engine{
		cfg:   cfg,
		store: store,
		cache: cache,
		calc:  calc,
		log:   log.With().Str("component", "warmup").Logger(),
		now:   time.Now,
		sem:   semaphore.NewWeighted(int64(cfg.WriteConcurrency)),
		ctx:   ctx,
		stop:  stop,
		queue: make(chan *jobState, cfg.QueueSize),
		jobs:  make(map[string]*jobState),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(prometheus.NewRegistry())
	}

	for i := 0; i < cfg.Workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	return e
}

// Execute validates req and queues a job. Async requests return the RUNNING
// snapshot at once; synchronous ones wait for the terminal snapshot or ctx.
func (e *Engine) Execute(ctx context.Context, req Request) (*Job, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	st := newJobState(uuid.NewString(), req, e.now())

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}
	select {
	case e.queue <- st:
		e.jobs[st.job.ID] = st
	default:
		e.mu.Unlock()
		e.metrics.QueueRejected.Inc()
		e.log.Warn().
			Str("strategy", string(req.Strategy)).
			Int("queue_size", e.cfg.QueueSize).
			Msg("warmup request rejected, queue full")
		return nil, ErrQueueFull
	}
	job := st.snapshot()
	e.mu.Unlock()
	e.metrics.QueueDepth.Set(float64(len(e.queue)))

	e.log.Info().
		Str("job_id", job.ID).
		Str("strategy", string(req.Strategy)).
		Int("limit", req.Limit).
		Int("batch_size", req.BatchSize).
		Bool("async", req.Async).
		Msg("warmup job accepted")

	if req.Async {
		return &job, nil
	}

	select {
	case <-st.done:
	case <-ctx.Done():
		return &job, ctx.Err()
	}

	e.mu.RLock()
	job = st.snapshot()
	e.mu.RUnlock()
	return &job, nil
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for st := range e.queue {
		e.metrics.QueueDepth.Set(float64(len(e.queue)))
		e.run(st)
	}
}

type item struct {
	link models.LinkRecord
	ttl  time.Duration
}

func (e *Engine) run(st *jobState) {
	e.metrics.JobsRunning.Inc()
	defer e.metrics.JobsRunning.Dec()

	log := e.log.With().Str("job_id", st.job.ID).Str("strategy", string(st.req.Strategy)).Logger()

	if st.cancelled.Load() {
		e.finish(st, StatusCancelled, nil)
		return
	}

	now := e.now()
	links, err := e.store.QueryCandidates(e.ctx, st.req.query(now))
	if err != nil {
		log.Error().Err(err).Msg("failed to query warmup candidates")
		e.finish(st, StatusFailed, fmt.Errorf("query candidates: %w", err))
		return
	}

	items, skipped, err := e.prepare(e.ctx, st.req.Strategy, links, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to load access metrics")
		e.finish(st, StatusFailed, fmt.Errorf("load access metrics: %w", err))
		return
	}

	e.mu.Lock()
	st.job.TotalCount = len(links)
	st.job.SkippedCount = skipped
	e.mu.Unlock()
	e.metrics.skipped(skipped)

	for start := 0; start < len(items); start += st.req.BatchSize {
		if st.cancelled.Load() {
			log.Info().Int("processed", start).Msg("warmup job cancelled")
			e.finish(st, StatusCancelled, nil)
			return
		}
		if err := e.ctx.Err(); err != nil {
			e.finish(st, StatusFailed, fmt.Errorf("engine stopped: %w", err))
			return
		}

		batch := items[start:min(start+st.req.BatchSize, len(items))]
		success, failed := e.writeBatch(e.ctx, batch)

		e.mu.Lock()
		st.job.WarmedCount += success + failed
		st.job.SuccessCount += success
		st.job.FailedCount += failed
		e.mu.Unlock()
		e.metrics.batchDone(success, failed)

		log.Debug().
			Int("batch_start", start).
			Int("success", success).
			Int("failed", failed).
			Msg("warmup batch written")
	}

	e.finish(st, StatusCompleted, nil)
}

// prepare drops expired links and, for ranked strategies, orders the rest by
// hot score. Links without usable metrics are counted as skipped.
func (e *Engine) prepare(ctx context.Context, strategy models.WarmupStrategy,
	links []models.LinkRecord, now time.Time) ([]item, int, error) {
	skipped := 0
	live := make([]models.LinkRecord, 0, len(links))
	for _, l := range links {
		if l.IsExpired(now) {
			skipped++
			continue
		}
		live = append(live, l)
	}

	if !strategy.Ranked() {
		items := make([]item, len(live))
		for i, l := range live {
			items[i] = item{link: l, ttl: TTLFor(hotscore.LevelCold, l.ExpiresAt, now, e.cfg.BaseTTL)}
		}
		return items, skipped, nil
	}
	if len(live) == 0 {
		return nil, skipped, nil
	}

	codes := make([]string, len(live))
	for i, l := range live {
		codes[i] = l.ShortCode
	}
	metrics, err := e.store.AccessMetrics(ctx, codes, now)
	if err != nil {
		return nil, 0, err
	}

	type scored struct {
		link  models.LinkRecord
		score hotscore.HotDataScore
	}
	ranked := make([]scored, 0, len(live))
	for _, l := range live {
		m, ok := metrics[l.ShortCode]
		if !ok {
			skipped++
			continue
		}
		if m.Now.IsZero() {
			m.Now = now
		}
		s, err := e.calc.Score(m)
		if err != nil {
			e.log.Debug().Err(err).Str("short_code", l.ShortCode).Msg("skipping unscorable link")
			skipped++
			continue
		}
		ranked = append(ranked, scored{link: l, score: s})
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score.TotalScore, a.score.TotalScore)
	})

	items := make([]item, len(ranked))
	for i, r := range ranked {
		items[i] = item{link: r.link, ttl: TTLFor(r.score.Level, r.link.ExpiresAt, now, e.cfg.BaseTTL)}
	}
	return items, skipped, nil
}

// writeBatch writes every item concurrently under the engine semaphore.
// Results are collected per index.
func (e *Engine) writeBatch(ctx context.Context, batch []item) (success, failed int) {
	results := make([]error, len(batch))

	var wg sync.WaitGroup
	for i, it := range batch {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			results[i] = err
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer e.sem.Release(1)
			results[i] = e.write(ctx, it)
		}()
	}
	wg.Wait()

	for i, err := range results {
		if err != nil {
			e.log.Warn().Err(err).Str("short_code", batch[i].link.ShortCode).Msg("cache write failed")
			failed++
			continue
		}
		success++
	}
	return success, failed
}

func (e *Engine) write(ctx context.Context, it item) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.WriteTimeout)
	defer cancel()

	start := time.Now()
	err := e.cache.Set(ctx, it.link.ShortCode, it.link, it.ttl)
	e.metrics.CacheWriteSeconds.Observe(time.Since(start).Seconds())
	return err
}

func (e *Engine) finish(st *jobState, status JobStatus, cause error) {
	end := e.now()

	e.mu.Lock()
	st.job.Status = status
	st.job.EndTime = &end
	st.job.DurationMs = end.Sub(st.job.StartTime).Milliseconds()
	if cause != nil {
		st.job.Error = cause.Error()
	}
	job := st.snapshot()
	e.totals.record(job)
	e.mu.Unlock()

	close(st.done)
	e.metrics.jobFinished(job)

	e.log.Info().
		Str("job_id", job.ID).
		Str("status", string(job.Status)).
		Int("total", job.TotalCount).
		Int("success", job.SuccessCount).
		Int("failed", job.FailedCount).
		Int("skipped", job.SkippedCount).
		Int64("duration_ms", job.DurationMs).
		Msg("warmup job finished")
}

// TTLFor returns how long a warmed link stays cached: hotter links live
// longer, and no entry outlives its link. It is 0 for expired links.
func TTLFor(level hotscore.Level, expiresAt *time.Time, now time.Time, base time.Duration) time.Duration {
	ttl := base
	switch level {
	case hotscore.LevelSuperHot:
		ttl = 24 * time.Hour
	case hotscore.LevelHot:
		ttl = 12 * time.Hour
	case hotscore.LevelWarm:
		ttl = 6 * time.Hour
	}

	if expiresAt != nil {
		left := expiresAt.Sub(now)
		if left <= 0 {
			return 0
		}
		ttl = min(ttl, left)
	}
	return ttl
}

func (e *Engine) Job(id string) (*Job, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	job := st.snapshot()
	return &job, nil
}

// Jobs returns retained jobs, newest first.
func (e *Engine) Jobs() []Job {
	e.mu.RLock()
	jobs := make([]Job, 0, len(e.jobs))
	for _, st := range e.jobs {
		jobs = append(jobs, st.snapshot())
	}
	e.mu.RUnlock()

	slices.SortFunc(jobs, func(a, b Job) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return jobs
}

// Cancel flags a running job. The job stops before its next batch.
func (e *Engine) Cancel(id string) (*Job, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if st.job.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrJobFinished, id, st.job.Status)
	}
	st.cancelled.Store(true)

	e.log.Info().Str("job_id", id).Msg("warmup job cancellation requested")
	job := st.snapshot()
	return &job, nil
}

// CleanupCompleted drops terminal jobs that ended more than the retention
// window ago and returns how many were removed.
func (e *Engine) CleanupCompleted() int {
	cutoff := e.now().Add(-e.cfg.Retention)

	e.mu.Lock()
	removed := 0
	for id, st := range e.jobs {
		if st.job.Status.Terminal() && st.job.EndTime != nil && st.job.EndTime.Before(cutoff) {
			delete(e.jobs, id)
			removed++
		}
	}
	e.mu.Unlock()

	if removed > 0 {
		e.log.Info().Int("removed", removed).Msg("warmup jobs cleaned up")
	}
	return removed
}

// Shutdown stops accepting jobs and waits for queued ones to finish. When ctx
// expires first, in-flight work is aborted and the jobs end FAILED.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.stop()
		return nil
	case <-ctx.Done():
		e.stop()
		<-done
		return ctx.Err()
	}
}
