package admin

import (
	"context"
	"net/http"
	"time"

	"shortlink/internal/http/httputils"

	"github.com/rs/zerolog"
)

const pingTimeout = 2 * time.Second

//go:generate mockgen -source=ping.go -destination=../../../mocks/mock_admin.go -package=mocks
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerPing reports whether the store is reachable.
func HandlerPing(svc Pinger, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("store ping failed")
			httputils.WriteTextError(w, http.StatusInternalServerError, "store unavailable")
			return
		}
		httputils.WriteTextResponse(w, http.StatusOK, "OK")
	}
}
