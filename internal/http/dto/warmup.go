package dto

import (
	"fmt"
	"time"

	"shortlink/internal/domain/models"
	"shortlink/internal/warmup"
)

// WarmupRequest is the body of POST /api/warmup. Async defaults to true.
// An omitted limit or batch_size takes the engine default; an explicit value
// must be in range.
type WarmupRequest struct {
	Strategy  string     `json:"strategy"`
	Limit     *int       `json:"limit,omitempty"`
	BatchSize *int       `json:"batch_size,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	UserID    int64      `json:"user_id,omitempty"`
	Async     *bool      `json:"async,omitempty"`
}

func (r WarmupRequest) ToDomain() (warmup.Request, error) {
	req := warmup.Request{
		Strategy: models.WarmupStrategy(r.Strategy),
		From:     r.From,
		To:       r.To,
		UserID:   r.UserID,
		Async:    true,
	}
	if r.Async != nil {
		req.Async = *r.Async
	}
	if r.Limit != nil {
		if *r.Limit < 1 {
			return warmup.Request{}, fmt.Errorf("%w: limit %d out of range [1, %d]", warmup.ErrInvalidRequest, *r.Limit, warmup.MaxLimit)
		}
		req.Limit = *r.Limit
	}
	if r.BatchSize != nil {
		if *r.BatchSize < 1 {
			return warmup.Request{}, fmt.Errorf("%w: batch size %d out of range [1, %d]", warmup.ErrInvalidRequest, *r.BatchSize, warmup.MaxBatchSize)
		}
		req.BatchSize = *r.BatchSize
	}
	return req, nil
}

type JobListResponse struct {
	Jobs  []warmup.Job `json:"jobs"`
	Count int          `json:"count"`
}

type CancelResponse struct {
	JobID   string           `json:"job_id"`
	Status  warmup.JobStatus `json:"status"`
	Message string           `json:"message"`
}
