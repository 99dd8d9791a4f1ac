package admin

import (
	"context"
	"net/http"

	"shortlink/internal/existence"
	"shortlink/internal/http/httputils"

	"github.com/rs/zerolog"
)

//go:generate mockgen -source=filter_stats.go -destination=../../../mocks/mock_filter.go -package=mocks
type Filter interface {
	Stats() existence.Stats
	Rebuild(ctx context.Context, source existence.CodeSource) (int, error)
}

type rebuildResponse struct {
	Codes int             `json:"codes"`
	Stats existence.Stats `json:"stats"`
}

// HandlerFilterStats serves GET /api/filter/stats.
func HandlerFilterStats(filter Filter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteJSONResponse(w, http.StatusOK, filter.Stats())
	}
}

// HandlerFilterRebuild serves POST /api/filter/rebuild: a full rescan of the
// store that drops codes deleted since startup.
func HandlerFilterRebuild(filter Filter, source existence.CodeSource, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes, err := filter.Rebuild(r.Context(), source)
		if err != nil {
			log.Error().Err(err).Msg("existence filter rebuild failed")
			httputils.WriteJSONError(w, http.StatusInternalServerError, "filter rebuild failed")
			return
		}
		httputils.WriteJSONResponse(w, http.StatusOK, rebuildResponse{Codes: codes, Stats: filter.Stats()})
	}
}

// curl -s http://localhost:8080/api/filter/stats
// curl -s -X POST http://localhost:8080/api/filter/rebuild
