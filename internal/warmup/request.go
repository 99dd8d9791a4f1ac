package warmup

import (
	"errors"
	"fmt"
	"time"

	"shortlink/internal/domain/models"
)

const (
	DefaultLimit     = 1000
	MaxLimit         = 100_000
	DefaultBatchSize = 100
	MaxBatchSize     = 1000
)

var ErrInvalidRequest = errors.New("invalid warmup request")

// Request describes one warmup run. Zero Limit and BatchSize take the defaults.
type Request struct {
	Strategy  models.WarmupStrategy `json:"strategy"`
	Limit     int                   `json:"limit"`
	BatchSize int                   `json:"batch_size"`
	From      *time.Time            `json:"from,omitempty"`
	To        *time.Time            `json:"to,omitempty"`
	UserID    int64                 `json:"user_id,omitempty"`
	Async     bool                  `json:"async"`
}

// Normalize fills defaults and validates the request.
func (r Request) Normalize() (Request, error) {
	strategy, err := models.ParseWarmupStrategy(string(r.Strategy))
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	r.Strategy = strategy

	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit < 1 || r.Limit > MaxLimit {
		return Request{}, fmt.Errorf("%w: limit %d out of range [1, %d]", ErrInvalidRequest, r.Limit, MaxLimit)
	}

	if r.BatchSize == 0 {
		r.BatchSize = DefaultBatchSize
	}
	if r.BatchSize < 1 || r.BatchSize > MaxBatchSize {
		return Request{}, fmt.Errorf("%w: batch size %d out of range [1, %d]", ErrInvalidRequest, r.BatchSize, MaxBatchSize)
	}

	switch r.Strategy {
	case models.StrategyTimeRange:
		if r.From == nil || r.To == nil {
			return Request{}, fmt.Errorf("%w: %s requires from and to", ErrInvalidRequest, r.Strategy)
		}
		if !r.From.Before(*r.To) {
			return Request{}, fmt.Errorf("%w: from must be before to", ErrInvalidRequest)
		}
	case models.StrategyUserBased:
		if r.UserID <= 0 {
			return Request{}, fmt.Errorf("%w: %s requires a user id", ErrInvalidRequest, r.Strategy)
		}
	}

	return r, nil
}

func (r Request) query(now time.Time) models.CandidateQuery {
	return models.CandidateQuery{
		Strategy: r.Strategy,
		Limit:    r.Limit,
		From:     r.From,
		To:       r.To,
		UserID:   r.UserID,
		Now:      now,
	}
}
