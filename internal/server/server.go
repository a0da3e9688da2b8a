// Package server exposes the demo form over HTTP: the editable page, the
// read-only preview, submissions and rendered document downloads.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-novaform/pkg/api"
	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/renderers/vanilla"
	"github.com/goliatone/go-novaform/pkg/storage"
	"github.com/goliatone/go-novaform/pkg/submission"
)

// maxBodyBytes caps submission and preview payloads.
const maxBodyBytes = 1 << 20

// Submitter normalizes metadata and processes a submission.
type Submitter interface {
	Normalize(meta demo.MetaData) demo.MetaData
	Submit(ctx context.Context, form demo.DemoForm, meta demo.MetaData) (submission.Result, error)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithBaseURL sets the public URL injected into pages and download links.
func WithBaseURL(baseURL string) Option {
	return func(s *Server) {
		s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithDefaultLocale sets the locale used when a request expresses no
// supported preference.
func WithDefaultLocale(locale string) Option {
	return func(s *Server) {
		if locale = strings.TrimSpace(locale); locale != "" {
			s.defaultLocale = locale
		}
	}
}

// WithCORSOrigins enables CORS for the given origins. No origins disables
// the CORS middleware.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = append(s.corsOrigins, origins...)
	}
}

// WithTimeouts sets the HTTP read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if write > 0 {
			s.writeTimeout = write
		}
	}
}

// WithShutdownGrace bounds how long Serve waits for in-flight requests.
func WithShutdownGrace(grace time.Duration) Option {
	return func(s *Server) {
		if grace > 0 {
			s.shutdownGrace = grace
		}
	}
}

// Server serves the demo form.
type Server struct {
	view      *demo.View
	submitter Submitter
	store     storage.Store

	logger        zerolog.Logger
	baseURL       string
	defaultLocale string
	corsOrigins   []string
	readTimeout   time.Duration
	writeTimeout  time.Duration
	shutdownGrace time.Duration

	handler http.Handler
}

// New wires the routes. store may be nil, in which case downloads report
// not found.
func New(view *demo.View, submitter Submitter, store storage.Store, options ...Option) (*Server, error) {
	if view == nil {
		return nil, errors.New("server: view is required")
	}
	if submitter == nil {
		return nil, errors.New("server: submitter is required")
	}
	s := &Server{
		view:          view,
		submitter:     submitter,
		store:         store,
		logger:        zerolog.Nop(),
		defaultLocale: demo.DefaultLocale,
		readTimeout:   10 * time.Second,
		writeTimeout:  30 * time.Second,
		shutdownGrace: 10 * time.Second,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST "+api.PathSubmit, s.handleSubmit)
	mux.HandleFunc("POST "+api.PathPreview, s.handlePreview)
	mux.HandleFunc("GET "+api.PathRenders+"{id}", s.handleDownload)
	mux.HandleFunc("GET "+api.PathHealth, s.handleHealth)
	mux.Handle("GET "+api.PathAssets, http.StripPrefix(api.PathAssets, http.FileServerFS(vanilla.AssetsFS())))
	mux.Handle("GET /"+demo.LogoName, http.FileServerFS(demo.StaticFS()))

	var handler http.Handler = mux
	if len(s.corsOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Accept", "Accept-Language"},
		}).Handler(handler)
	}
	return withLogging(s.logger, handler)
}

// Run listens on addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       2 * s.writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("server listening")
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}
