package warmup

import (
	"sync/atomic"
	"time"

	"shortlink/internal/domain/models"
)

type JobStatus string

const (
	StatusRunning   JobStatus = "RUNNING"
	StatusCompleted JobStatus = "COMPLETED"
	StatusFailed    JobStatus = "FAILED"
	StatusCancelled JobStatus = "CANCELLED"
)

func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Job is a read-only snapshot of a warmup run.
type Job struct {
	ID           string                `json:"job_id"`
	Strategy     models.WarmupStrategy `json:"strategy"`
	Limit        int                   `json:"limit"`
	BatchSize    int                   `json:"batch_size"`
	Status       JobStatus             `json:"status"`
	TotalCount   int                   `json:"total_count"`
	WarmedCount  int                   `json:"warmed_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	SkippedCount int                   `json:"skipped_count"`
	StartTime    time.Time             `json:"start_time"`
	EndTime      *time.Time            `json:"end_time,omitempty"`
	DurationMs   int64                 `json:"duration_ms"`
	Error        string                `json:"error,omitempty"`
}

// jobState is the engine-owned mutable record behind a Job. Fields of job
// are guarded by Engine.mu.
type jobState struct {
	job       Job
	req       Request
	cancelled atomic.Bool
	done      chan struct{}
}

func newJobState(id string, req Request, now time.Time) *jobState {
	return &jobState{
		job: Job{
			ID:        id,
			Strategy:  req.Strategy,
			Limit:     req.Limit,
			BatchSize: req.BatchSize,
			Status:    StatusRunning,
			StartTime: now,
		},
		req:  req,
		done: make(chan struct{}),
	}
}

func (s *jobState) snapshot() Job {
	j := s.job
	if s.job.EndTime != nil {
		end := *s.job.EndTime
		j.EndTime = &end
	}
	return j
}
