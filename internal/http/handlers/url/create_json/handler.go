package create_json

import (
	"context"
	"encoding/json"
	"net/http"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/dto"
	"shortlink/internal/http/httputils"
	"shortlink/internal/services/url_shortener"

	"github.com/rs/zerolog"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/mock_link_creator.go -package=mocks
type LinkCreator interface {
	Create(ctx context.Context, req url_shortener.CreateRequest) (models.LinkRecord, error)
	GetShortURL(code string) string
}

// HandlerCreateJSON serves POST /api/shorten.
func HandlerCreateJSON(svc LinkCreator, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := httputils.UserID(r)
		if err != nil {
			httputils.WriteError(w, err)
			return
		}

		var req dto.ShortenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputils.WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if req.URL == "" {
			httputils.WriteJSONError(w, http.StatusBadRequest, "url is required")
			return
		}

		link, err := svc.Create(ctx, req.ToDomain(userID))
		if err != nil {
			if httputils.StatusFromError(err) >= http.StatusInternalServerError {
				log.Error().Err(err).Str("url", req.URL).Msg("failed to create short link")
			}
			httputils.WriteError(w, err)
			return
		}

		resp := dto.ShortenResponseFromDomain(link, svc.GetShortURL(link.ShortCode))
		httputils.WriteJSONResponse(w, http.StatusCreated, resp)
	}
}
