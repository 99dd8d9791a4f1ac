package warmup

import "time"

// Stats aggregates the engine state. Job counts by status are lifetime
// totals and survive cleanup; Retained and Running describe the registry.
type Stats struct {
	Retained       int        `json:"retained_jobs"`
	Running        int        `json:"running_jobs"`
	Completed      int64      `json:"completed_jobs"`
	Failed         int64      `json:"failed_jobs"`
	Cancelled      int64      `json:"cancelled_jobs"`
	LinksWarmed    int64      `json:"links_warmed"`
	LinksSucceeded int64      `json:"links_succeeded"`
	LinksFailed    int64      `json:"links_failed"`
	LinksSkipped   int64      `json:"links_skipped"`
	QueueDepth     int        `json:"queue_depth"`
	QueueCapacity  int        `json:"queue_capacity"`
	Workers        int        `json:"workers"`
	LastFinishedAt *time.Time `json:"last_finished_at,omitempty"`
}

type totals struct {
	completed, failed, cancelled      int64
	warmed, succeeded, fails, skipped int64
	lastFinishedAt                    *time.Time
}

func (t *totals) record(job Job) {
	switch job.Status {
	case StatusCompleted:
		t.completed++
	case StatusFailed:
		t.failed++
	case StatusCancelled:
		t.cancelled++
	}
	t.warmed += int64(job.WarmedCount)
	t.succeeded += int64(job.SuccessCount)
	t.fails += int64(job.FailedCount)
	t.skipped += int64(job.SkippedCount)
	t.lastFinishedAt = job.EndTime
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Stats{
		Retained:       len(e.jobs),
		Completed:      e.totals.completed,
		Failed:         e.totals.failed,
		Cancelled:      e.totals.cancelled,
		LinksWarmed:    e.totals.warmed,
		LinksSucceeded: e.totals.succeeded,
		LinksFailed:    e.totals.fails,
		LinksSkipped:   e.totals.skipped,
		QueueDepth:     len(e.queue),
		QueueCapacity:  cap(e.queue),
		Workers:        e.cfg.Workers,
	}
	for _, st := range e.jobs {
		if st.job.Status == StatusRunning {
			s.Running++
		}
	}
	if e.totals.lastFinishedAt != nil {
		last := *e.totals.lastFinishedAt
		s.LastFinishedAt = &last
	}
	return s
}
