package repository

import (
	"context"
	"time"

	"shortlink/internal/domain/models"
)

// Storage is the full link store contract. The postgres and inmemory
// packages both satisfy it; consumers depend on narrower slices of it.
type (
	Storage interface {
		Insert(ctx context.Context, link models.LinkRecord) (int64, error)
		FindByShortCode(ctx context.Context, code string) (models.LinkRecord, error)
		RecordAccess(ctx context.Context, ev models.AccessEvent) error

		// Warmup candidates and scoring inputs
		QueryCandidates(ctx context.Context, q models.CandidateQuery) ([]models.LinkRecord, error)
		AccessMetrics(ctx context.Context, codes []string, now time.Time) (map[string]models.LinkAccessMetrics, error)

		// Existence filter rebuild
		ShortCodes(ctx context.Context, fn func(code string) error) error

		WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
		Ping(ctx context.Context) error
		Close() error
	}
)
