package httputils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shortlink/internal/domain/models"
	"shortlink/internal/services/url_shortener"
	"shortlink/internal/warmup"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("wrap: %w", models.ErrInvalidData), http.StatusBadRequest},
		{warmup.ErrInvalidRequest, http.StatusBadRequest},
		{models.ErrUnfound, http.StatusNotFound},
		{warmup.ErrJobNotFound, http.StatusNotFound},
		{models.ErrGone, http.StatusGone},
		{warmup.ErrJobFinished, http.StatusConflict},
		{warmup.ErrQueueFull, http.StatusServiceUnavailable},
		{warmup.ErrEngineClosed, http.StatusServiceUnavailable},
		{url_shortener.ErrTooManyCollisions, http.StatusServiceUnavailable},
		{fmt.Errorf("wait: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{context.Canceled, StatusClientClosedRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	assert.Equal(t, MIMEApplicationJSON, rec.Header().Get(HeaderContentType))
}

func TestWriteError_EchoesClientErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("%w: empty url", models.ErrInvalidData))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid input data: empty url"}`, rec.Body.String())
}

func TestUserID(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    int64
		wantErr bool
	}{
		{name: "anonymous", header: "", want: 0},
		{name: "numeric", header: "42", want: 42},
		{name: "negative", header: "-1", wantErr: true},
		{name: "garbage", header: "bob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(HeaderUserID, tt.header)
			}

			got, err := UserID(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidData)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:52311"
	assert.Equal(t, "198.51.100.7", ClientIP(r))

	r.Header.Set(HeaderForwardedFor, " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", ClientIP(r))
}
