// Package server exposes commit analysis and note mapping over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"
)

// Server runs the HTTP API.
type Server struct {
	api    *API
	config Config
	log    logze.Logger
	server *servex.Server
}

// New creates the API server.
func New(cfg Config, fetcher Fetcher) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	log := logze.With("component", "server")

	server, err := servex.NewServer(
		servex.WithReadTimeout(cfg.Timeout),
		servex.WithIdleTimeout(cfg.Timeout*2),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithCORSAllowOrigins(cfg.AllowOrigin),
		servex.WithCORSAllowMethods(http.MethodGet, http.MethodPost, http.MethodOptions),
		servex.WithCORSAllowHeaders("Content-Type"),
	)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create server")
	}

	s := &Server{
		api:    NewAPI(fetcher),
		config: cfg,
		log:    log,
		server: server,
	}
	s.api.Register(func(path string, h http.HandlerFunc) {
		server.HandleFunc(path, h)
	})

	return s, nil
}

// Handler returns the routes with the server middleware, CORS included.
func (s *Server) Handler() http.Handler {
	return s.server.Router()
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.config.Address
}

// Start starts listening. It returns once the listener is up.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting API", "address", s.config.Address)
	return s.server.StartHTTP(s.config.Address)
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and stops it when ctx is done.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	if err := s.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start server")
	}

	<-ctx.Done()
	s.log.Info("stopping API")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Stop(stopCtx)
}
