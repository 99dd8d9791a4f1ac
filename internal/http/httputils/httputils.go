package httputils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"shortlink/internal/domain/models"
	"shortlink/internal/services/url_shortener"
	"shortlink/internal/warmup"
)

// MIME: https://developer.mozilla.org/en-US/docs/Web/HTTP/Guides/MIME_types/Common_types

const (
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderContentLength   = "Content-Length"
	HeaderUserAgent       = "User-Agent"
	HeaderForwardedFor    = "X-Forwarded-For"
	HeaderRegion          = "X-Client-Region"
	HeaderUserID          = "X-User-ID"

	MIMEApplicationJSON = "application/json"
	MIMETextHTML        = "text/html"
	MIMETextPlain       = "text/plain"

	EncodingGzip = "gzip"

	// StatusClientClosedRequest is the non-standard code for a client that
	// went away before the response was ready.
	StatusClientClosedRequest = 499
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteTextError(w http.ResponseWriter, status int, message string) {
	w.Header().Set(HeaderContentType, MIMETextPlain)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

func WriteJSONError(w http.ResponseWriter, status int, message string) {
	WriteJSONResponse(w, status, ErrorResponse{Error: message})
}

func WriteJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set(HeaderContentType, MIMEApplicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteRedirect answers with 307 so clients repeat the original method.
func WriteRedirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusTemporaryRedirect)
}

// StatusFromError maps domain errors to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrInvalidData), errors.Is(err, warmup.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnfound), errors.Is(err, warmup.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrGone):
		return http.StatusGone
	case errors.Is(err, models.ErrConflict), errors.Is(err, warmup.ErrJobFinished):
		return http.StatusConflict
	case errors.Is(err, warmup.ErrQueueFull), errors.Is(err, warmup.ErrEngineClosed),
		errors.Is(err, url_shortener.ErrTooManyCollisions):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error with its mapped status. Internal
// errors are not echoed to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	WriteJSONError(w, status, msg)
}

// UserID reads the optional caller id. Authentication is out of scope, so
// the header is trusted as is; a missing header means anonymous (0).
func UserID(r *http.Request) (int64, error) {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: bad %s header", models.ErrInvalidData, HeaderUserID)
	}
	return id, nil
}

// ClientIP prefers the first X-Forwarded-For hop over the peer address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func WriteTextResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set(HeaderContentType, MIMETextPlain)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
