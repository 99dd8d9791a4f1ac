package warmup_jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"shortlink/internal/http/dto"
	"shortlink/internal/http/httputils"
	"shortlink/internal/warmup"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/mock_warmup_service.go -package=mocks
type WarmupService interface {
	Execute(ctx context.Context, req warmup.Request) (*warmup.Job, error)
	Job(id string) (*warmup.Job, error)
	Jobs() []warmup.Job
	Cancel(id string) (*warmup.Job, error)
	Stats() warmup.Stats
}

// HandlerSubmit serves POST /api/warmup. Async jobs answer 202 with the
// job as accepted; sync jobs answer 200 with the finished job. A sync job
// still running after syncWait keeps running and answers 202 with its
// current snapshot.
func HandlerSubmit(svc WarmupService, syncWait time.Duration, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.WarmupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputils.WriteJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		domainReq, err := req.ToDomain()
		if err != nil {
			httputils.WriteError(w, err)
			return
		}

		ctx := r.Context()
		if !domainReq.Async {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, syncWait)
			defer cancel()
		}

		job, err := svc.Execute(ctx, domainReq)
		switch {
		case err == nil:
		case job != nil && errors.Is(err, context.DeadlineExceeded) && r.Context().Err() == nil:
			log.Info().Str("job_id", job.ID).Dur("waited", syncWait).Msg("sync warmup still running, answering as accepted")
			httputils.WriteJSONResponse(w, http.StatusAccepted, job)
			return
		default:
			if httputils.StatusFromError(err) >= http.StatusInternalServerError {
				log.Error().Err(err).Str("strategy", req.Strategy).Msg("failed to submit warmup job")
			}
			httputils.WriteError(w, err)
			return
		}

		status := http.StatusOK
		if domainReq.Async {
			status = http.StatusAccepted
		}
		httputils.WriteJSONResponse(w, status, job)
	}
}

// HandlerList serves GET /api/warmup/jobs, newest first.
func HandlerList(svc WarmupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs := svc.Jobs()
		if jobs == nil {
			jobs = []warmup.Job{}
		}
		httputils.WriteJSONResponse(w, http.StatusOK, dto.JobListResponse{Jobs: jobs, Count: len(jobs)})
	}
}

// HandlerGet serves GET /api/warmup/jobs/{id}.
func HandlerGet(svc WarmupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := svc.Job(mux.Vars(r)["id"])
		if err != nil {
			httputils.WriteError(w, err)
			return
		}
		httputils.WriteJSONResponse(w, http.StatusOK, job)
	}
}

// HandlerCancel serves DELETE /api/warmup/jobs/{id}. The job stops before
// its next batch; finished jobs answer 409.
func HandlerCancel(svc WarmupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := svc.Cancel(mux.Vars(r)["id"])
		if err != nil {
			httputils.WriteError(w, err)
			return
		}
		httputils.WriteJSONResponse(w, http.StatusAccepted, dto.CancelResponse{
			JobID:   job.ID,
			Status:  job.Status,
			Message: "cancellation requested",
		})
	}
}

// HandlerStats serves GET /api/warmup/stats.
func HandlerStats(svc WarmupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteJSONResponse(w, http.StatusOK, svc.Stats())
	}
}
