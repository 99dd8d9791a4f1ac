// Package existence answers "could this short code already exist" without a
// store round-trip. A false answer is definitive, a true answer must be
// confirmed against the store.
package existence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultExpectedItems     = 1_000_000
	DefaultFalsePositiveRate = 0.0001
)

var (
	ErrInvalidConfig    = errors.New("invalid existence filter config")
	ErrSnapshotMismatch = errors.New("snapshot was built with different parameters")
)

// CodeSource iterates every short code known to the store.
//
//go:generate mockgen -source=filter.go -destination=../mocks/mock_code_source.go -package=mocks
type CodeSource interface {
	ShortCodes(ctx context.Context, fn func(code string) error) error
}

// Filter is an append-only bloom filter. Add may run concurrently with
// MightContain.
type Filter struct {
	mu sync.RWMutex
	bf *bloom.BloomFilter
	// next receives Adds while a rebuild is in progress
	next *bloom.BloomFilter

	rebuildMu sync.Mutex
	expected  uint
	fpRate    float64
	log       zerolog.Logger
}

func NewFilter(expectedItems uint, falsePositiveRate float64, log zerolog.Logger) (*Filter, error) {
	if expectedItems == 0 {
		return nil, fmt.Errorf("%w: expected items must be positive", ErrInvalidConfig)
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		return nil, fmt.Errorf("%w: false positive rate %v not in (0, 1)", ErrInvalidConfig, falsePositiveRate)
	}

	return &Filter{
		bf:       bloom.NewWithEstimates(expectedItems, falsePositiveRate),
		expected: expectedItems,
		fpRate:   falsePositiveRate,
		log:      log.With().Str("component", "existence_filter").Logger(),
	}, nil
}

func (f *Filter) Add(code string) {
	f.mu.Lock()
	f.bf.AddString(code)
	if f.next != nil {
		f.next.AddString(code)
	}
	f.mu.Unlock()
}

func (f *Filter) MightContain(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.TestString(code)
}

// Populate adds every code from the source. Codes are only ever added, so
// requests served while Populate runs never see a false negative for codes
// they added themselves.
func (f *Filter) Populate(ctx context.Context, source CodeSource) (int, error) {
	count := 0
	err := source.ShortCodes(ctx, func(code string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.Add(code)
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to populate existence filter: %w", err)
	}

	f.log.Info().Int("codes", count).Msg("existence filter populated")
	return count, nil
}

// Rebuild fills a fresh filter from the source and swaps it in, dropping
// codes the store no longer has. Codes added during the rebuild land in both
// filters. On error the current filter is kept.
func (f *Filter) Rebuild(ctx context.Context, source CodeSource) (int, error) {
	f.rebuildMu.Lock()
	defer f.rebuildMu.Unlock()

	fresh := bloom.NewWithEstimates(f.expected, f.fpRate)
	f.mu.Lock()
	f.next = fresh
	f.mu.Unlock()

	count := 0
	err := source.ShortCodes(ctx, func(code string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.mu.Lock()
		fresh.AddString(code)
		f.mu.Unlock()
		count++
		return nil
	})

	f.mu.Lock()
	f.next = nil
	if err == nil {
		f.bf = fresh
	}
	f.mu.Unlock()

	if err != nil {
		return count, fmt.Errorf("failed to rebuild existence filter: %w", err)
	}
	f.log.Info().Int("codes", count).Msg("existence filter rebuilt")
	return count, nil
}

// Stats describes the filter's sizing and current fill.
type Stats struct {
	ExpectedItems         uint    `json:"expected_items"`
	TargetFalsePositive   float64 `json:"target_false_positive_rate"`
	BitCapacity           uint    `json:"bit_capacity"`
	HashFunctions         uint    `json:"hash_functions"`
	ApproximateItems      uint32  `json:"approximate_items"`
	EstimatedFalsePosRate float64 `json:"estimated_false_positive_rate"`
}

func (f *Filter) Stats() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()

	m := f.bf.Cap()
	k := f.bf.K()
	n := f.bf.ApproximatedSize()

	return Stats{
		ExpectedItems:         f.expected,
		TargetFalsePositive:   f.fpRate,
		BitCapacity:           m,
		HashFunctions:         k,
		ApproximateItems:      n,
		EstimatedFalsePosRate: estimateFalsePositiveRate(m, k, uint(n)),
	}
}

// p = (1 - e^(-kn/m))^k
func estimateFalsePositiveRate(m, k, n uint) float64 {
	if m == 0 || n == 0 {
		return 0
	}
	return math.Pow(1-math.Exp(-float64(k)*float64(n)/float64(m)), float64(k))
}
