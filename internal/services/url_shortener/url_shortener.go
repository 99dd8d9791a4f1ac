// Package url_shortener creates short links and resolves them back, with the
// cache tier and existence filter in front of the store.
package url_shortener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"shortlink/internal/domain/models"
	"shortlink/internal/shortcode"

	"github.com/rs/zerolog"
)

//go:generate mockgen -source=url_shortener.go -destination=../../mocks/mock_url_storage.go -package=mocks
type (
	URLStorage interface {
		Insert(ctx context.Context, link models.LinkRecord) (int64, error)
		FindByShortCode(ctx context.Context, code string) (models.LinkRecord, error)
		RecordAccess(ctx context.Context, ev models.AccessEvent) error
		Ping(ctx context.Context) error
	}

	LinkCache interface {
		Set(ctx context.Context, code string, link models.LinkRecord, ttl time.Duration) error
		Get(ctx context.Context, code string) (models.LinkRecord, error)
	}

	IDGenerator interface {
		NextID() (int64, error)
	}

	ExistenceFilter interface {
		MightContain(code string) bool
		Add(code string)
	}
)

var ErrTooManyCollisions = errors.New("could not find a free short code")

type Config struct {
	BaseURL string
	// MaxAttempts bounds code generation retries on collision.
	MaxAttempts int
	CacheTTL    time.Duration
	// AccessTimeout bounds the background access-log write of a redirect.
	AccessTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080",
		MaxAttempts:   5,
		CacheTTL:      time.Hour,
		AccessTimeout: 2 * time.Second,
	}
}

// CreateRequest is a new link as submitted by a client.
type CreateRequest struct {
	URL       string
	UserID    int64
	ExpiresAt *time.Time
}

// AccessInfo describes the client of a redirect.
type AccessInfo struct {
	UserID    int64
	IP        string
	Region    string
	UserAgent string
}

type Option func(*URLShortener)

func WithClock(now func() time.Time) Option {
	return func(s *URLShortener) {
		s.now = now
	}
}

// URLShortener implements link creation and resolution.
type URLShortener struct {
	storage URLStorage
	cache   LinkCache
	ids     IDGenerator
	codec   *shortcode.Codec
	filter  ExistenceFilter
	cfg     Config
	log     zerolog.Logger
	now     func() time.Time

	// pending background access writes
	wg sync.WaitGroup
}

func NewServiceURLShortener(storage URLStorage, cache LinkCache, ids IDGenerator, codec *shortcode.Codec,
	filter ExistenceFilter, cfg Config, log zerolog.Logger, opts ...Option) *URLShortener {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.AccessTimeout <= 0 {
		cfg.AccessTimeout = def.AccessTimeout
	}

	s := &URLShortener{
		storage: storage,
		cache:   cache,
		ids:     ids,
		codec:   codec,
		filter:  filter,
		cfg:     cfg,
		log:     log.With().Str("component", "url_shortener").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetShortURL returns the public URL of a short code.
func (s *URLShortener) GetShortURL(code string) string {
	return fmt.Sprintf("%s/%s", s.cfg.BaseURL, code)
}

func (s *URLShortener) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// Create stores a new short link. Collisions confirmed by the store are
// retried with a salted hash, the last attempt with a random code.
func (s *URLShortener) Create(ctx context.Context, req CreateRequest) (models.LinkRecord, error) {
	now := s.now().UTC()
	if err := validateURL(req.URL); err != nil {
		return models.LinkRecord{}, err
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return models.LinkRecord{}, fmt.Errorf("%w: expiry must be in the future", models.ErrInvalidData)
	}

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		code, err := s.candidateCode(req.URL, attempt)
		if err != nil {
			return models.LinkRecord{}, err
		}

		taken, err := s.taken(ctx, code)
		if err != nil {
			return models.LinkRecord{}, err
		}
		if taken {
			s.log.Debug().Str("short_code", code).Int("attempt", attempt).Msg("short code collision")
			continue
		}

		id, err := s.ids.NextID()
		if err != nil {
			return models.LinkRecord{}, fmt.Errorf("failed to generate id: %w", err)
		}

		link := models.LinkRecord{
			ID:          id,
			ShortCode:   code,
			OriginalURL: req.URL,
			UserID:      req.UserID,
			CreatedAt:   now,
			ExpiresAt:   req.ExpiresAt,
		}
		if _, err := s.storage.Insert(ctx, link); err != nil {
			if errors.Is(err, models.ErrConflict) {
				s.log.Debug().Str("short_code", code).Int("attempt", attempt).Msg("short code taken on insert")
				continue
			}
			return models.LinkRecord{}, fmt.Errorf("failed to create link: %w", err)
		}

		s.filter.Add(code)
		s.cacheLink(ctx, link, now)
		s.log.Info().Str("short_code", code).Int64("id", id).Msg("short link created")
		return link, nil
	}

	return models.LinkRecord{}, fmt.Errorf("%w after %d attempts", ErrTooManyCollisions, s.cfg.MaxAttempts)
}

func (s *URLShortener) candidateCode(rawURL string, attempt int) (string, error) {
	if attempt < s.cfg.MaxAttempts-1 {
		return s.codec.Hash(rawURL, attempt), nil
	}
	code, err := s.codec.Random()
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return code, nil
}

// taken asks the filter first and only confirms a positive with the store.
func (s *URLShortener) taken(ctx context.Context, code string) (bool, error) {
	if !s.filter.MightContain(code) {
		return false, nil
	}

	_, err := s.storage.FindByShortCode(ctx, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrUnfound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check short code: %w", err)
	}
}

// Resolve returns the link behind code and records the access in the
// background. Expired links return models.ErrGone.
func (s *URLShortener) Resolve(ctx context.Context, code string, info AccessInfo) (models.LinkRecord, error) {
	if !s.codec.Valid(code) {
		return models.LinkRecord{}, fmt.Errorf("%w: malformed short code %q", models.ErrInvalidData, code)
	}
	now := s.now().UTC()

	link, err := s.cache.Get(ctx, code)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrUnfound):
		link, err = s.load(ctx, code, now)
		if err != nil {
			return models.LinkRecord{}, err
		}
	default:
		s.log.Warn().Err(err).Str("short_code", code).Msg("cache read failed, falling back to store")
		link, err = s.load(ctx, code, now)
		if err != nil {
			return models.LinkRecord{}, err
		}
	}

	if link.IsExpired(now) {
		return models.LinkRecord{}, fmt.Errorf("%w: %s", models.ErrGone, code)
	}

	s.recordAccess(ctx, models.AccessEvent{
		ShortCode:  code,
		UserID:     info.UserID,
		IP:         info.IP,
		Region:     info.Region,
		UserAgent:  info.UserAgent,
		OccurredAt: now,
	})
	return link, nil
}

// load reads the store even when the filter has not seen the code: the
// filter only knows codes this process created or scanned, so a link created
// by another instance, or after the last snapshot, is learned here.
func (s *URLShortener) load(ctx context.Context, code string, now time.Time) (models.LinkRecord, error) {
	link, err := s.storage.FindByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrUnfound) {
			return models.LinkRecord{}, err
		}
		return models.LinkRecord{}, fmt.Errorf("failed to get link: %w", err)
	}

	if !s.filter.MightContain(code) {
		s.filter.Add(code)
		s.log.Debug().Str("short_code", code).Msg("short code learned from store")
	}

	if !link.IsExpired(now) {
		s.cacheLink(ctx, link, now)
	}
	return link, nil
}

func (s *URLShortener) cacheLink(ctx context.Context, link models.LinkRecord, now time.Time) {
	ttl := s.cfg.CacheTTL
	if link.ExpiresAt != nil {
		ttl = min(ttl, link.ExpiresAt.Sub(now))
	}
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, link.ShortCode, link, ttl); err != nil {
		s.log.Warn().Err(err).Str("short_code", link.ShortCode).Msg("failed to cache link")
	}
}

func (s *URLShortener) recordAccess(ctx context.Context, ev models.AccessEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.AccessTimeout)
		defer cancel()

		if err := s.storage.RecordAccess(ctx, ev); err != nil {
			s.log.Error().Err(err).Str("short_code", ev.ShortCode).Msg("failed to record access")
		}
	}()
}

// Wait blocks until background access writes have finished.
func (s *URLShortener) Wait() {
	s.wg.Wait()
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty url", models.ErrInvalidData)
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidData, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url must be absolute http(s)", models.ErrInvalidData)
	}
	return nil
}
