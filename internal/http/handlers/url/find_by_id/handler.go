package find_by_id

import (
	"context"
	"net/http"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/httputils"
	"shortlink/internal/services/url_shortener"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/mock_link_resolver.go -package=mocks
type LinkResolver interface {
	Resolve(ctx context.Context, code string, info url_shortener.AccessInfo) (models.LinkRecord, error)
}

// HandlerRedirect serves GET /{code}: 307 to the original URL, 404 for
// unknown codes, 410 for expired links, 400 for malformed codes.
func HandlerRedirect(svc LinkResolver, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		code := mux.Vars(r)["code"]

		userID, err := httputils.UserID(r)
		if err != nil {
			httputils.WriteTextError(w, http.StatusBadRequest, err.Error())
			return
		}

		link, err := svc.Resolve(ctx, code, url_shortener.AccessInfo{
			UserID:    userID,
			IP:        httputils.ClientIP(r),
			Region:    r.Header.Get(httputils.HeaderRegion),
			UserAgent: r.Header.Get(httputils.HeaderUserAgent),
		})
		if err != nil {
			status := httputils.StatusFromError(err)
			if status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("short_code", code).Msg("failed to resolve short link")
				httputils.WriteTextError(w, status, http.StatusText(status))
				return
			}
			httputils.WriteTextError(w, status, err.Error())
			return
		}

		httputils.WriteRedirect(w, r, link.OriginalURL)
	}
}
