package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shortlink/internal/existence"
	"shortlink/internal/http/handlers/admin"
	"shortlink/internal/http/handlers/middlewares"
	"shortlink/internal/http/handlers/url/create_json"
	"shortlink/internal/http/handlers/url/create_text"
	"shortlink/internal/http/handlers/url/find_by_id"
	"shortlink/internal/http/handlers/url/getdefault"
	"shortlink/internal/http/handlers/warmup_jobs"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	writeTimeout = 10 * time.Second
	// syncWarmupWait leaves room to write the response before writeTimeout.
	syncWarmupWait = writeTimeout - 2*time.Second
)

type LinkService interface {
	create_json.LinkCreator
	find_by_id.LinkResolver
	admin.Pinger
}

type Deps struct {
	Links  LinkService
	Warmup warmup_jobs.WarmupService
	Filter admin.Filter
	// Codes feeds filter rebuilds.
	Codes existence.CodeSource

	// Registry backs /metrics and the HTTP request metrics.
	Registry *prometheus.Registry
}

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	log        *zerolog.Logger
	deps       Deps
	addr       string
}

func NewServer(log *zerolog.Logger, addr string, deps Deps) (*Server, error) {
	if addr == "" {
		return nil, errors.New("server address cannot be empty")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if deps.Links == nil || deps.Warmup == nil || deps.Filter == nil || deps.Codes == nil || deps.Registry == nil {
		return nil, errors.New("server dependencies cannot be nil")
	}

	s := &Server{
		router: mux.NewRouter(),
		log:    log,
		deps:   deps,
		addr:   addr,
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	l := s.log.With().Str("component", "http").Logger()

	s.router.Use(middlewares.MiddlewareLogging(s.log))
	s.router.Use(middlewares.MiddlewareMetrics(middlewares.NewHTTPMetrics(s.deps.Registry)))
	s.router.Use(middlewares.MiddlewareCompressing())

	s.router.Handle("/metrics", promhttp.HandlerFor(s.deps.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.HandleFunc("/ping", admin.HandlerPing(s.deps.Links, l)).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/shorten", create_json.HandlerCreateJSON(s.deps.Links, l)).Methods(http.MethodPost)                    // 201
	api.HandleFunc("/warmup", warmup_jobs.HandlerSubmit(s.deps.Warmup, syncWarmupWait, l)).Methods(http.MethodPost)        // 202, 200 when sync
	api.HandleFunc("/warmup/jobs", warmup_jobs.HandlerList(s.deps.Warmup)).Methods(http.MethodGet)                         // 200
	api.HandleFunc("/warmup/jobs/{id}", warmup_jobs.HandlerGet(s.deps.Warmup)).Methods(http.MethodGet)                     // 200, 404
	api.HandleFunc("/warmup/jobs/{id}", warmup_jobs.HandlerCancel(s.deps.Warmup)).Methods(http.MethodDelete)               // 202, 404, 409
	api.HandleFunc("/warmup/stats", warmup_jobs.HandlerStats(s.deps.Warmup)).Methods(http.MethodGet)                       // 200
	api.HandleFunc("/filter/stats", admin.HandlerFilterStats(s.deps.Filter)).Methods(http.MethodGet)                       // 200
	api.HandleFunc("/filter/rebuild", admin.HandlerFilterRebuild(s.deps.Filter, s.deps.Codes, l)).Methods(http.MethodPost) // 200, 500

	s.router.HandleFunc("/", create_text.HandlerCreateText(s.deps.Links, l)).Methods(http.MethodPost)   // 201
	s.router.HandleFunc("/", getdefault.HandlerGetDefault()).Methods(http.MethodGet)                    // 400
	s.router.HandleFunc("/{code}", find_by_id.HandlerRedirect(s.deps.Links, l)).Methods(http.MethodGet) // 307, 400, 404, 410
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info().Str("address", s.addr).Msg("Starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
