// Package server serves rendered catalog examples over HTTP.
//
// Routes:
//
//	GET /healthz                   liveness and build version
//	GET /examples                  catalog listing as JSON
//	GET /examples/{name}.{format}  rendered artifact
//
// The artifact route accepts query overrides for the render configuration:
// routing, theme, label_stride, tick_stride, and refresh=true to bypass the
// cache lookup. Artifacts are rendered through a [pipeline.Runner], so the
// cache backend is whatever the runner was built with.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pipeviz/pkg/buildinfo"
	"github.com/matzehuels/pipeviz/pkg/catalog"
	"github.com/matzehuels/pipeviz/pkg/errors"
	"github.com/matzehuels/pipeviz/pkg/httputil"
	"github.com/matzehuels/pipeviz/pkg/observability"
	"github.com/matzehuels/pipeviz/pkg/pipeline"
	"github.com/matzehuels/pipeviz/pkg/render"
)

const shutdownTimeout = 10 * time.Second

// Server is an http.Handler serving the example catalog.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server rendering through runner. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.observe)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/examples", s.listExamples)
	r.Get("/examples/{name}.{format}", s.renderExample)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe reports every request to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d.Round(time.Microsecond),
			"request_id", chimw.GetReqID(ctx))
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

type exampleInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Formats     []string `json:"formats"`
}

func (s *Server) listExamples(w http.ResponseWriter, r *http.Request) {
	formats := pipeline.Formats()
	entries := catalog.Entries()
	out := make([]exampleInfo, len(entries))
	for i, e := range entries {
		out[i] = exampleInfo{Name: e.Name, Description: e.Description, Formats: formats}
	}
	_ = httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) renderExample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	format := chi.URLParam(r, "format")

	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	entry, err := catalog.Lookup(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	cfg, err := configFromQuery(entry.Config(render.DefaultConfig()), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	p, err := entry.Build(cfg, pipeline.WithLogger(s.logger))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.Execute(ctx, p, pipeline.Options{
		Name:    entry.Name,
		Formats: []string{format},
		Refresh: refresh,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if res.CacheHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// configFromQuery applies the supported query overrides to base.
func configFromQuery(base render.Config, q url.Values) (render.Config, error) {
	cfg := base
	if v := q.Get("routing"); v != "" {
		cfg.EdgeRouting = v
	}
	if v := q.Get("theme"); v != "" {
		cfg.Style = v
	}
	for _, p := range []struct {
		key string
		dst *int
	}{
		{"label_stride", &cfg.XAxisLabelStride},
		{"tick_stride", &cfg.XAxisTickStride},
	} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return render.Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s must be an integer, got %q", p.key, v)
		}
		*p.dst = n
	}
	if err := cfg.Validate(); err != nil {
		return render.Config{}, err
	}
	return cfg, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", chimw.GetReqID(r.Context()))
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", errors.UserMessage(err))
}
