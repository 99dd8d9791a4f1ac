package middlewares

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

const slowRequest = 100 * time.Millisecond

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

func (r *responseRecorder) status() int {
	if r.statusCode == 0 {
		return http.StatusOK
	}
	return r.statusCode
}

// MiddlewareLogging writes one access log line per request and turns panics
// into 500 responses.
func MiddlewareLogging(log *zerolog.Logger) func(http.Handler) http.Handler {
	l := log.With().Str("component", "http").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &responseRecorder{ResponseWriter: w}

			l.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("ip", r.RemoteAddr).
				Msg("request started")

			defer func() {
				if err := recover(); err != nil {
					l.Error().
						Str("panic", fmt.Sprintf("%v", err)).
						Str("stack", string(debug.Stack())).
						Msg("request panic")
					http.Error(recorder, "Internal Server Error", http.StatusInternalServerError)
				}

				duration := time.Since(start)
				status := recorder.status()

				var msg string
				switch {
				case status >= 500:
					msg = "server error"
				case status >= 400:
					msg = "client error"
				default:
					msg = "request completed"
				}

				logEvent := l.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", status).
					Dur("duration_ms", duration).
					Int("bytes", recorder.size).
					Str("ip", r.RemoteAddr)

				if duration > slowRequest {
					logEvent = logEvent.Bool("slow", true)
				}
				switch {
				case status >= 500:
					logEvent = logEvent.Str("error_type", "server_error")
				case status >= 400:
					logEvent = logEvent.Str("error_type", "client_error")
				}

				logEvent.Msg(msg)
			}()

			next.ServeHTTP(recorder, r)
		})
	}
}
