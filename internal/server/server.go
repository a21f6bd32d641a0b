// Package server exposes route search over HTTP.
//
// The server loads a schedule once and answers every request from it through
// a shared [pipeline.Runner], so repeated queries are served from the cache:
//
//	GET /v1/routes?origin=WIW&destination=ECV&bags=1&return=true
//	GET /v1/airports
//	GET /healthz
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	rfio "github.com/matzehuels/routefinder/pkg/io"
	"github.com/matzehuels/routefinder/pkg/observability"
	"github.com/matzehuels/routefinder/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// serve context ends.
const shutdownTimeout = 5 * time.Second

// Server answers search requests against one loaded dataset.
type Server struct {
	runner   *pipeline.Runner
	dataset  *pipeline.Dataset
	defaults pipeline.Options
	logger   *log.Logger
	airports []string
}

// New creates a server. defaults supplies the layover window, dwell and
// worker settings applied to every request.
func New(runner *pipeline.Runner, ds *pipeline.Dataset, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{
		runner:   runner,
		dataset:  ds,
		defaults: defaults,
		logger:   logger,
		airports: ds.Airports(),
	}
}

// Handler returns the HTTP handler with middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the API endpoints on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/routes", s.routes)
		r.Get("/airports", s.listAirports)
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "dataset", s.dataset.Name, "flights", len(s.dataset.Flights))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

type routesResponse struct {
	ID          string             `json:"id"`
	Origin      string             `json:"origin"`
	Destination string             `json:"destination"`
	Bags        int                `json:"bags"`
	RoundTrip   bool               `json:"return"`
	Cached      bool               `json:"cached"`
	Count       int                `json:"count"`
	Routes      []rfio.RouteRecord `json:"routes"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) routes(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Search(r.Context(), s.dataset, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	routes := res.Routes
	if routes == nil {
		routes = []rfio.RouteRecord{}
	}
	writeJSON(w, http.StatusOK, routesResponse{
		ID:          res.ID,
		Origin:      opts.Origin,
		Destination: opts.Destination,
		Bags:        opts.Bags,
		RoundTrip:   opts.RoundTrip,
		Cached:      res.CacheHit,
		Count:       len(routes),
		Routes:      routes,
	})
}

// parseQuery builds search options from the request on top of the server
// defaults.
func (s *Server) parseQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.defaults
	opts.Origin = q.Get("origin")
	opts.Destination = q.Get("destination")
	opts.Logger = s.logger

	if v := q.Get("bags"); v != "" {
		bags, err := strconv.Atoi(v)
		if err != nil {
			return opts, rferrors.New(rferrors.ErrCodeInvalidInput, "bags must be an integer: %q", v)
		}
		opts.Bags = bags
	}
	if v := q.Get("return"); v != "" {
		rt, err := strconv.ParseBool(v)
		if err != nil {
			return opts, rferrors.New(rferrors.ErrCodeInvalidInput, "return must be a boolean: %q", v)
		}
		opts.RoundTrip = rt
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) listAirports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"airports": s.airports,
		"count":    len(s.airports),
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"flights": len(s.dataset.Flights),
	})
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: rferrors.UserMessage(err),
		Code:  string(rferrors.GetCode(err)),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch rferrors.GetCode(err) {
	case rferrors.ErrCodeInvalidInput, rferrors.ErrCodeInvalidAirport, rferrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case rferrors.ErrCodeNotFound, rferrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case rferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case rferrors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// =============================================================================
// Middleware
// =============================================================================

// observe reports every request to the registered HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
