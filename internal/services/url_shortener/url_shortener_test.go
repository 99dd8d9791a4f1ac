package url_shortener

import (
	"context"
	"errors"
	"testing"
	"time"

	"shortlink/internal/domain/models"
	"shortlink/internal/mocks"
	"shortlink/internal/shortcode"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const longURL = "https://example.com/some/long/path?x=1"

// errAny marks a case that must fail with something other than a sentinel.
var errAny = errors.New("any error")

type deps struct {
	storage *mocks.MockURLStorage
	cache   *mocks.MockLinkCache
	ids     *mocks.MockIDGenerator
	filter  *mocks.MockExistenceFilter
	codec   *shortcode.Codec
	service *URLShortener
}

func newDeps(t *testing.T, cfg Config) *deps {
	t.Helper()
	ctrl := gomock.NewController(t)

	codec, err := shortcode.NewCodec(shortcode.DefaultLength)
	require.NoError(t, err)

	d := &deps{
		storage: mocks.NewMockURLStorage(ctrl),
		cache:   mocks.NewMockLinkCache(ctrl),
		ids:     mocks.NewMockIDGenerator(ctrl),
		filter:  mocks.NewMockExistenceFilter(ctrl),
		codec:   codec,
	}
	d.service = NewServiceURLShortener(d.storage, d.cache, d.ids, codec, d.filter, cfg, zerolog.Nop(),
		WithClock(func() time.Time { return now }))
	return d
}

func TestURLShortener_Create(t *testing.T) {
	d := newDeps(t, Config{})
	code := d.codec.Hash(longURL, 0)

	want := models.LinkRecord{ID: 42, ShortCode: code, OriginalURL: longURL, UserID: 3, CreatedAt: now}

	d.filter.EXPECT().MightContain(code).Return(false)
	d.ids.EXPECT().NextID().Return(int64(42), nil)
	d.storage.EXPECT().Insert(gomock.Any(), want).Return(int64(42), nil)
	d.filter.EXPECT().Add(code)
	d.cache.EXPECT().Set(gomock.Any(), code, want, time.Hour).Return(nil)

	got, err := d.service.Create(context.Background(), CreateRequest{URL: longURL, UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got.ShortCode, shortcode.DefaultLength)
	assert.Equal(t, "http://localhost:8080/"+code, d.service.GetShortURL(code))
}

func TestURLShortener_Create_Collisions(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(d *deps)
		wantCode  func(d *deps) string
	}{
		{
			name: "confirmed collision retries with salt",
			mockSetup: func(d *deps) {
				first, second := d.codec.Hash(longURL, 0), d.codec.Hash(longURL, 1)
				d.filter.EXPECT().MightContain(first).Return(true)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), first).Return(models.LinkRecord{ShortCode: first}, nil)
				d.filter.EXPECT().MightContain(second).Return(false)
				d.ids.EXPECT().NextID().Return(int64(1), nil)
				d.storage.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				d.filter.EXPECT().Add(second)
			},
			wantCode: func(d *deps) string { return d.codec.Hash(longURL, 1) },
		},
		{
			name: "filter false positive keeps the code",
			mockSetup: func(d *deps) {
				first := d.codec.Hash(longURL, 0)
				d.filter.EXPECT().MightContain(first).Return(true)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), first).Return(models.LinkRecord{}, models.ErrUnfound)
				d.ids.EXPECT().NextID().Return(int64(1), nil)
				d.storage.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				d.filter.EXPECT().Add(first)
			},
			wantCode: func(d *deps) string { return d.codec.Hash(longURL, 0) },
		},
		{
			name: "insert race retries",
			mockSetup: func(d *deps) {
				first, second := d.codec.Hash(longURL, 0), d.codec.Hash(longURL, 1)
				d.filter.EXPECT().MightContain(first).Return(false)
				d.ids.EXPECT().NextID().Return(int64(1), nil)
				d.storage.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), models.ErrConflict)
				d.filter.EXPECT().MightContain(second).Return(false)
				d.ids.EXPECT().NextID().Return(int64(2), nil)
				d.storage.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(2), nil)
				d.filter.EXPECT().Add(second)
			},
			wantCode: func(d *deps) string { return d.codec.Hash(longURL, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t, Config{})
			tt.mockSetup(d)
			d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			got, err := d.service.Create(context.Background(), CreateRequest{URL: longURL})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode(d), got.ShortCode)
		})
	}
}

func TestURLShortener_Create_GivesUpAfterMaxAttempts(t *testing.T) {
	d := newDeps(t, Config{MaxAttempts: 3})

	d.filter.EXPECT().MightContain(gomock.Any()).Return(true).Times(3)
	d.storage.EXPECT().FindByShortCode(gomock.Any(), gomock.Any()).Return(models.LinkRecord{ShortCode: "taken"}, nil).Times(3)

	_, err := d.service.Create(context.Background(), CreateRequest{URL: longURL})
	assert.ErrorIs(t, err, ErrTooManyCollisions)
}

func TestURLShortener_Create_LastAttemptIsRandom(t *testing.T) {
	d := newDeps(t, Config{MaxAttempts: 2})
	first := d.codec.Hash(longURL, 0)

	var random string
	d.filter.EXPECT().MightContain(first).Return(true)
	d.storage.EXPECT().FindByShortCode(gomock.Any(), first).Return(models.LinkRecord{ShortCode: first}, nil)
	d.filter.EXPECT().MightContain(gomock.Any()).DoAndReturn(func(code string) bool {
		random = code
		return false
	})
	d.ids.EXPECT().NextID().Return(int64(5), nil)
	d.storage.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(5), nil)
	d.filter.EXPECT().Add(gomock.Any())
	d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	got, err := d.service.Create(context.Background(), CreateRequest{URL: longURL})
	require.NoError(t, err)
	assert.Equal(t, random, got.ShortCode)
	assert.True(t, d.codec.Valid(got.ShortCode))
}

func TestURLShortener_Create_Errors(t *testing.T) {
	past := now.Add(-time.Minute)

	tests := []struct {
		name      string
		req       CreateRequest
		mockSetup func(d *deps)
		wantErr   error
	}{
		{name: "empty url", req: CreateRequest{}, wantErr: models.ErrInvalidData},
		{name: "relative url", req: CreateRequest{URL: "/just/a/path"}, wantErr: models.ErrInvalidData},
		{name: "ftp url", req: CreateRequest{URL: "ftp://example.com/file"}, wantErr: models.ErrInvalidData},
		{name: "not a url", req: CreateRequest{URL: "example"}, wantErr: models.ErrInvalidData},
		{name: "expiry in the past", req: CreateRequest{URL: longURL, ExpiresAt: &past}, wantErr: models.ErrInvalidData},
		{
			name: "store down on confirm",
			req:  CreateRequest{URL: longURL},
			mockSetup: func(d *deps) {
				d.filter.EXPECT().MightContain(gomock.Any()).Return(true)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), gomock.Any()).Return(models.LinkRecord{}, errors.New("db down"))
			},
		},
		{
			name: "clock moved backwards",
			req:  CreateRequest{URL: longURL},
			mockSetup: func(d *deps) {
				d.filter.EXPECT().MightContain(gomock.Any()).Return(false)
				d.ids.EXPECT().NextID().Return(int64(0), errors.New("clock moved backwards"))
			},
		},
		{
			name: "insert fails",
			req:  CreateRequest{URL: longURL},
			mockSetup: func(d *deps) {
				d.filter.EXPECT().MightContain(gomock.Any()).Return(false)
				d.ids.EXPECT().NextID().Return(int64(1), nil)
				d.storage.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t, Config{})
			if tt.mockSetup != nil {
				tt.mockSetup(d)
			}

			_, err := d.service.Create(context.Background(), tt.req)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestURLShortener_Create_CacheFailureIsNotFatal(t *testing.T) {
	d := newDeps(t, Config{})
	expires := now.Add(10 * time.Minute)

	d.filter.EXPECT().MightContain(gomock.Any()).Return(false)
	d.ids.EXPECT().NextID().Return(int64(9), nil)
	d.storage.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(9), nil)
	d.filter.EXPECT().Add(gomock.Any())
	d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), 10*time.Minute).Return(errors.New("redis down"))

	got, err := d.service.Create(context.Background(), CreateRequest{URL: longURL, ExpiresAt: &expires})
	require.NoError(t, err)
	assert.EqualValues(t, 9, got.ID)
}

func TestURLShortener_Resolve(t *testing.T) {
	const code = "aB3dE9x"
	link := models.LinkRecord{ID: 1, ShortCode: code, OriginalURL: longURL, CreatedAt: now.Add(-time.Hour)}
	expired := now.Add(-time.Second)
	gone := link
	gone.ExpiresAt = &expired

	info := AccessInfo{UserID: 4, IP: "203.0.113.9", Region: "EU", UserAgent: "test"}
	event := models.AccessEvent{ShortCode: code, UserID: 4, IP: "203.0.113.9", Region: "EU", UserAgent: "test", OccurredAt: now}

	tests := []struct {
		name      string
		code      string
		mockSetup func(d *deps)
		want      models.LinkRecord
		wantErr   error
	}{
		{
			name: "cache hit",
			code: code,
			mockSetup: func(d *deps) {
				d.cache.EXPECT().Get(gomock.Any(), code).Return(link, nil)
				d.storage.EXPECT().RecordAccess(gomock.Any(), event).Return(nil)
			},
			want: link,
		},
		{
			name: "cache miss loads and caches",
			code: code,
			mockSetup: func(d *deps) {
				d.cache.EXPECT().Get(gomock.Any(), code).Return(models.LinkRecord{}, models.ErrUnfound)
				d.filter.EXPECT().MightContain(code).Return(true)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), code).Return(link, nil)
				d.cache.EXPECT().Set(gomock.Any(), code, link, time.Hour).Return(nil)
				d.storage.EXPECT().RecordAccess(gomock.Any(), event).Return(nil)
			},
			want: link,
		},
		{
			name: "cache error falls back to store",
			code: code,
			mockSetup: func(d *deps) {
				d.cache.EXPECT().Get(gomock.Any(), code).Return(models.LinkRecord{}, errors.New("redis down"))
				d.filter.EXPECT().MightContain(code).Return(true)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), code).Return(link, nil)
				d.cache.EXPECT().Set(gomock.Any(), code, link, time.Hour).Return(errors.New("redis down"))
				d.storage.EXPECT().RecordAccess(gomock.Any(), event).Return(errors.New("db busy"))
			},
			want: link,
		},
		{
			name: "code unknown to the filter is read from the store",
			code: code,
			mockSetup: func(d *deps) {
				d.cache.EXPECT().Get(gomock.Any(), code).Return(models.LinkRecord{}, models.ErrUnfound)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), code).Return(link, nil)
				d.filter.EXPECT().MightContain(code).Return(false)
				d.filter.EXPECT().Add(code)
				d.cache.EXPECT().Set(gomock.Any(), code, link, time.Hour).Return(nil)
				d.storage.EXPECT().RecordAccess(gomock.Any(), event).Return(nil)
			},
			want: link,
		},
		{
			name: "store does not know the code",
			code: code,
			mockSetup: func(d *deps) {
				d.cache.EXPECT().Get(gomock.Any(), code).Return(models.LinkRecord{}, models.ErrUnfound)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), code).Return(models.LinkRecord{}, models.ErrUnfound)
			},
			wantErr: models.ErrUnfound,
		},
		{
			name: "store down",
			code: code,
			mockSetup: func(d *deps) {
				d.cache.EXPECT().Get(gomock.Any(), code).Return(models.LinkRecord{}, models.ErrUnfound)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), code).Return(models.LinkRecord{}, errors.New("connection refused"))
			},
			wantErr: errAny,
		},
		{
			name: "expired link",
			code: code,
			mockSetup: func(d *deps) {
				d.cache.EXPECT().Get(gomock.Any(), code).Return(models.LinkRecord{}, models.ErrUnfound)
				d.filter.EXPECT().MightContain(code).Return(true)
				d.storage.EXPECT().FindByShortCode(gomock.Any(), code).Return(gone, nil)
			},
			wantErr: models.ErrGone,
		},
		{
			name:    "malformed code",
			code:    "ab$",
			wantErr: models.ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t, Config{})
			if tt.mockSetup != nil {
				tt.mockSetup(d)
			}

			got, err := d.service.Resolve(context.Background(), tt.code, info)
			d.service.Wait()

			if tt.wantErr == errAny {
				require.Error(t, err)
				assert.NotErrorIs(t, err, models.ErrUnfound)
				return
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLShortener_Resolve_AccessSurvivesRequestCancel(t *testing.T) {
	d := newDeps(t, Config{})
	const code = "aB3dE9x"
	link := models.LinkRecord{ShortCode: code, OriginalURL: longURL}

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan struct{})
	var writeErr error

	d.cache.EXPECT().Get(gomock.Any(), code).Return(link, nil)
	d.storage.EXPECT().RecordAccess(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.AccessEvent) error {
			<-cancelled
			writeErr = ctx.Err()
			return writeErr
		})

	_, err := d.service.Resolve(ctx, code, AccessInfo{})
	require.NoError(t, err)
	cancel()
	close(cancelled)
	d.service.Wait()

	assert.NoError(t, writeErr)
}
