package create_text

import (
	"context"
	"io"
	"net/http"
	"strings"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/httputils"
	"shortlink/internal/services/url_shortener"

	"github.com/rs/zerolog"
)

const maxBody = 8 << 10

type LinkCreator interface {
	Create(ctx context.Context, req url_shortener.CreateRequest) (models.LinkRecord, error)
	GetShortURL(code string) string
}

// HandlerCreateText serves POST / with the long URL as a plain-text body and
// answers with the short URL as plain text.
func HandlerCreateText(svc LinkCreator, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := httputils.UserID(r)
		if err != nil {
			httputils.WriteTextError(w, http.StatusBadRequest, err.Error())
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			httputils.WriteTextError(w, http.StatusBadRequest, "failed to read body")
			return
		}
		defer r.Body.Close()

		rawURL := strings.TrimSpace(string(body))
		if rawURL == "" {
			httputils.WriteTextError(w, http.StatusBadRequest, "url is required")
			return
		}

		link, err := svc.Create(ctx, url_shortener.CreateRequest{URL: rawURL, UserID: userID})
		if err != nil {
			status := httputils.StatusFromError(err)
			if status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("url", rawURL).Msg("failed to create short link")
				httputils.WriteTextError(w, status, http.StatusText(status))
				return
			}
			httputils.WriteTextError(w, status, err.Error())
			return
		}

		httputils.WriteTextResponse(w, http.StatusCreated, svc.GetShortURL(link.ShortCode))
	}
}
