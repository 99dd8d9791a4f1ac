package models

import (
	"fmt"
	"strings"
	"time"
)

// WarmupStrategy selects which links a warmup job pulls from the store.
type WarmupStrategy string

const (
	StrategyHotLinks       WarmupStrategy = "HOT_LINKS"
	StrategyRecentCreated  WarmupStrategy = "RECENT_CREATED"
	StrategyRecentAccessed WarmupStrategy = "RECENT_ACCESSED"
	StrategyTimeRange      WarmupStrategy = "TIME_RANGE"
	StrategyUserBased      WarmupStrategy = "USER_BASED"
	StrategyFullWarmup     WarmupStrategy = "FULL_WARMUP"
)

// Strategies lists every known strategy in declaration order.
var Strategies = []WarmupStrategy{
	StrategyHotLinks,
	StrategyRecentCreated,
	StrategyRecentAccessed,
	StrategyTimeRange,
	StrategyUserBased,
	StrategyFullWarmup,
}

// ParseWarmupStrategy accepts the canonical name in any case.
func ParseWarmupStrategy(s string) (WarmupStrategy, error) {
	candidate := WarmupStrategy(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Strategies {
		if candidate == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown warmup strategy %q", ErrInvalidData, s)
}

// Ranked reports whether candidates of this strategy are ordered by hot score.
// RECENT_CREATED and RECENT_ACCESSED keep the store's recency order.
func (s WarmupStrategy) Ranked() bool {
	switch s {
	case StrategyHotLinks, StrategyFullWarmup, StrategyTimeRange, StrategyUserBased:
		return true
	default:
		return false
	}
}

// CandidateQuery is the strategy-specific filter passed to the store.
type CandidateQuery struct {
	Strategy WarmupStrategy
	Limit    int
	From     *time.Time
	To       *time.Time
	UserID   int64
	Now      time.Time // expired links relative to Now are excluded
}
