// Package inmemory is a map-backed link store for development and tests.
package inmemory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"shortlink/internal/domain/models"
)

type InmemoryStorage struct {
	mu     sync.RWMutex
	links  map[string]models.LinkRecord
	events map[string][]models.AccessEvent
	ids    map[int64]struct{}
}

func NewStorage() *InmemoryStorage {
	return &InmemoryStorage{
		links:  make(map[string]models.LinkRecord),
		events: make(map[string][]models.AccessEvent),
		ids:    make(map[int64]struct{}),
	}
}

func (m *InmemoryStorage) Insert(ctx context.Context, link models.LinkRecord) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if link.ShortCode == "" || link.OriginalURL == "" {
		return 0, models.ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.ShortCode]; exists {
		return 0, fmt.Errorf("%w: %s", models.ErrConflict, link.ShortCode)
	}
	if _, exists := m.ids[link.ID]; exists {
		return 0, fmt.Errorf("%w: id %d", models.ErrConflict, link.ID)
	}

	link.ClickCount = 0
	link.LastAccessAt = nil
	m.links[link.ShortCode] = link
	m.ids[link.ID] = struct{}{}
	return link.ID, nil
}

func (m *InmemoryStorage) FindByShortCode(ctx context.Context, code string) (models.LinkRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.LinkRecord{}, err
	}
	if code == "" {
		return models.LinkRecord{}, models.ErrInvalidData
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[code]
	if !exists {
		return models.LinkRecord{}, fmt.Errorf("%w: short code %s", models.ErrUnfound, code)
	}
	return link, nil
}

// ShortCodes calls fn for a snapshot of the stored codes, outside the lock.
func (m *InmemoryStorage) ShortCodes(ctx context.Context, fn func(code string) error) error {
	m.mu.RLock()
	codes := make([]string, 0, len(m.links))
	for code := range m.links {
		codes = append(codes, code)
	}
	m.mu.RUnlock()

	slices.Sort(codes)
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(code); err != nil {
			return err
		}
	}
	return nil
}

func (m *InmemoryStorage) RecordAccess(ctx context.Context, ev models.AccessEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.ShortCode == "" || ev.OccurredAt.IsZero() {
		return models.ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[ev.ShortCode]
	if !exists {
		return fmt.Errorf("%w: short code %s", models.ErrUnfound, ev.ShortCode)
	}
	link.ClickCount++
	if link.LastAccessAt == nil || ev.OccurredAt.After(*link.LastAccessAt) {
		at := ev.OccurredAt
		link.LastAccessAt = &at
	}
	m.links[ev.ShortCode] = link
	m.events[ev.ShortCode] = append(m.events[ev.ShortCode], ev)
	return nil
}

func (m *InmemoryStorage) QueryCandidates(ctx context.Context, q models.CandidateQuery) ([]models.LinkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Limit <= 0 || q.Now.IsZero() {
		return nil, fmt.Errorf("%w: candidate query needs a limit and a reference time", models.ErrInvalidData)
	}

	keep, order, err := candidateFilter(q)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	links := make([]models.LinkRecord, 0, len(m.links))
	for _, l := range m.links {
		if !l.IsExpired(q.Now) && keep(l) {
			links = append(links, l)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(links, func(a, b models.LinkRecord) int {
		if c := order(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ShortCode, b.ShortCode)
	})
	if len(links) > q.Limit {
		links = links[:q.Limit]
	}
	return links, nil
}

func byClicks(a, b models.LinkRecord) int {
	return cmp.Compare(b.ClickCount, a.ClickCount)
}

func byCreated(a, b models.LinkRecord) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func byLastAccess(a, b models.LinkRecord) int {
	return accessTime(b).Compare(accessTime(a))
}

func accessTime(l models.LinkRecord) time.Time {
	if l.LastAccessAt == nil {
		return time.Time{}
	}
	return *l.LastAccessAt
}

func candidateFilter(q models.CandidateQuery) (func(models.LinkRecord) bool, func(a, b models.LinkRecord) int, error) {
	all := func(models.LinkRecord) bool { return true }

	switch q.Strategy {
	case models.StrategyHotLinks:
		since := q.Now.Add(-7 * 24 * time.Hour)
		return func(l models.LinkRecord) bool {
			return l.LastAccessAt != nil && !l.LastAccessAt.Before(since)
		}, byClicks, nil
	case models.StrategyRecentCreated:
		return all, byCreated, nil
	case models.StrategyRecentAccessed:
		return func(l models.LinkRecord) bool { return l.LastAccessAt != nil }, byLastAccess, nil
	case models.StrategyTimeRange:
		if q.From == nil || q.To == nil {
			return nil, nil, fmt.Errorf("%w: time range needs from and to", models.ErrInvalidData)
		}
		from, to := *q.From, *q.To
		return func(l models.LinkRecord) bool {
			return !l.CreatedAt.Before(from) && l.CreatedAt.Before(to)
		}, byClicks, nil
	case models.StrategyUserBased:
		return func(l models.LinkRecord) bool { return l.UserID == q.UserID }, byClicks, nil
	case models.StrategyFullWarmup:
		return all, func(a, b models.LinkRecord) int {
			if c := byClicks(a, b); c != 0 {
				return c
			}
			return byCreated(a, b)
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown strategy %q", models.ErrInvalidData, q.Strategy)
	}
}

func (m *InmemoryStorage) AccessMetrics(ctx context.Context, codes []string, now time.Time) (map[string]models.LinkAccessMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	since := now.Add(-24 * time.Hour)
	result := make(map[string]models.LinkAccessMetrics, len(codes))
	for _, code := range codes {
		link, exists := m.links[code]
		if !exists {
			continue
		}

		users := make(map[int64]struct{})
		ips := make(map[string]struct{})
		regions := make(map[string]struct{})
		metrics := models.LinkAccessMetrics{
			ShortCode:    code,
			TotalClicks:  link.ClickCount,
			CreatedAt:    link.CreatedAt,
			LastAccessAt: link.LastAccessAt,
			Now:          now,
		}
		for _, ev := range m.events[code] {
			if !ev.OccurredAt.Before(since) {
				metrics.RecentClicks++
			}
			if ev.UserID != 0 {
				users[ev.UserID] = struct{}{}
			}
			if ev.IP != "" {
				ips[ev.IP] = struct{}{}
			}
			if ev.Region != "" {
				regions[ev.Region] = struct{}{}
			}
		}
		metrics.UniqueUsers = int64(len(users))
		metrics.UniqueIPs = int64(len(ips))
		metrics.UniqueRegions = int64(len(regions))
		result[code] = metrics
	}
	return result, nil
}

// WithinTx runs fn directly; single operations are already atomic here.
func (m *InmemoryStorage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *InmemoryStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *InmemoryStorage) Close() error {
	return nil
}
