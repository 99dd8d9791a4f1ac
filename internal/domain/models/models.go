package models

import (
	"errors"
	"time"
)

type (
	// LinkRecord is a short link row as it is stored. The warmup core only reads it.
	LinkRecord struct {
		ID           int64  // snowflake id
		ShortCode    string // aBcD123
		OriginalURL  string
		UserID       int64 // 0 for anonymous links
		CreatedAt    time.Time
		ExpiresAt    *time.Time
		ClickCount   int64
		LastAccessAt *time.Time
	}

	// AccessEvent is one redirect served for a short code.
	AccessEvent struct {
		ShortCode  string
		UserID     int64
		IP         string
		Region     string
		UserAgent  string
		OccurredAt time.Time
	}

	// LinkAccessMetrics bundles the counters the hot score is computed from.
	// Now is the reference time; scoring never reads the wall clock.
	LinkAccessMetrics struct {
		ShortCode     string
		TotalClicks   int64
		RecentClicks  int64 // last 24h
		UniqueUsers   int64
		UniqueIPs     int64
		UniqueRegions int64 // 0 when geo data is unavailable
		CreatedAt     time.Time
		LastAccessAt  *time.Time
		Now           time.Time
	}
)

// IsExpired reports whether the link expired at the given moment.
func (l LinkRecord) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

var (
	ErrInvalidData = errors.New("invalid input data")
	ErrUnfound     = errors.New("unfound data")
	ErrEmpty       = errors.New("storage is empty")
	ErrConflict    = errors.New("short code already exists")
	ErrGone        = errors.New("url expired")
)
