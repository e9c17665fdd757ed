package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/internal/metrics"
	"github.com/ucom-dev/ucom/pkg/component"
	"github.com/ucom-dev/ucom/pkg/persist"
	"github.com/ucom-dev/ucom/pkg/plugins/telemetry"
)

// maxItemSize bounds the body of a storage write.
const maxItemSize = 1 << 20

func serveCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve component templates",
		Long: `Serve a project's component templates over HTTP.

Templates are served as text/html so they can be imported by
URL. The server also exposes:

  • /api/components   the components and whether they define
  • /api/storage/{key} the configured persist backend
  • /metrics          Prometheus metrics

Examples:
  ucom serve
  ucom serve ./site --port=8080
  ucom serve --host=0.0.0.0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(argDir(args))
			if err != nil {
				return err
			}
			if port > 0 {
				p.cfg.Dev.Port = port
			}
			if host != "" {
				p.cfg.Dev.Host = host
			}
			return runServe(p)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from ucom.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from ucom.json)")

	return cmd
}

func runServe(p *project) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, closeStorage, err := p.openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s, err := newServer(ctx, p, storage, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              p.cfg.DevAddress(),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	success("Serving %s", p.cfg.ComponentsPath())
	info("%s", p.cfg.DevURL())
	if n := s.undefined(); n > 0 {
		warn("%d of %d components are not defined, see the log or run ucom check", n, len(s.entries))
	}
	fmt.Println()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-sigCh:
		fmt.Println("\n\n  Shutting down...")
		shutdownCtx, stop := context.WithTimeout(ctx, 5*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	}
}

// server serves one project.
type server struct {
	project  *project
	manager  *component.Manager
	storage  persist.Storage
	gatherer prometheus.Gatherer
	files    fs.FS
	entries  []entry
	logger   *slog.Logger
}

// newServer defines every component of p, recording metrics into reg.
// Components that fail to define are logged and still served.
func newServer(ctx context.Context, p *project, storage persist.Storage, reg *prometheus.Registry) (*server, error) {
	entries, err := p.scan()
	if err != nil {
		return nil, err
	}

	tel := telemetry.New(metrics.New(metrics.WithRegistry(reg)))
	s := &server{
		project:  p,
		manager:  p.manager(p.logger, tel),
		storage:  storage,
		gatherer: reg,
		files:    os.DirFS(p.cfg.ComponentsPath()),
		entries:  entries,
		logger:   p.logger.With("component", "server"),
	}

	if err := s.manager.Start(ctx); err != nil {
		return nil, err
	}

	loader := component.FSLoader{FS: s.files}
	for _, e := range entries {
		if _, err := p.define(ctx, s.manager, loader, e); err != nil {
			s.logger.Warn("component not defined", "path", e.Path,
				"error", ucomerrors.FromError(err, codeOf(err)))
		}
	}
	return s, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/components", s.listComponents)
		r.Get("/storage/*", s.getItem)
		r.Put("/storage/*", s.setItem)
	})

	r.Get("/*", s.serveTemplate)
	return r
}

// logRequests logs every request at debug level.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// defined reports whether e resolved and its definition succeeded.
func (s *server) defined(e entry) bool {
	return e.Err == nil && s.manager.Registered(e.Ident.Name)
}

// undefined returns the number of entries that failed to define.
func (s *server) undefined() int {
	n := 0
	for _, e := range s.entries {
		if !s.defined(e) {
			n++
		}
	}
	return n
}

// componentInfo is the JSON form of one served component.
type componentInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Defined bool   `json:"defined"`
}

func (s *server) listComponents(w http.ResponseWriter, r *http.Request) {
	out := make([]componentInfo, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, componentInfo{
			Name:    e.Ident.Name,
			Path:    "/" + e.Ident.Resolved,
			Defined: s.defined(e),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Error("encoding components", "error", err)
	}
}

// serveTemplate serves a component file of the components directory.
func (s *server) serveTemplate(w http.ResponseWriter, r *http.Request) {
	name := path.Clean(chi.URLParam(r, "*"))
	if !fs.ValidPath(name) || !strings.HasSuffix(name, s.project.cfg.Components.Ext) {
		http.NotFound(w, r)
		return
	}
	body, err := fs.ReadFile(s.files, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

func (s *server) getItem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	v, ok, err := s.storage.GetItem(r.Context(), key)
	if err != nil {
		s.logger.Error("reading item", "key", key, "error", ucomerrors.New("E130").Wrap(err))
		http.Error(w, "storage read failed", http.StatusBadGateway)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, v)
}

// setItem stores the request body under the key. Values are JSON, as the
// persisted store entries expect.
func (s *server) setItem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxItemSize+1))
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}
	if len(body) > maxItemSize {
		http.Error(w, "value too large", http.StatusRequestEntityTooLarge)
		return
	}
	if !json.Valid(body) {
		http.Error(w, "value must be JSON", http.StatusBadRequest)
		return
	}
	if err := s.storage.SetItem(r.Context(), key, string(body)); err != nil {
		s.logger.Error("writing item", "key", key, "error", ucomerrors.New("E131").Wrap(err))
		http.Error(w, "storage write failed", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
