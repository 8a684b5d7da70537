// Package api serves sensor state and the request services over HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/s0up4200/mediarr/plex"
	"github.com/s0up4200/mediarr/sensor"
)

// Registry looks up sensors
type Registry interface {
	Sensors() []*sensor.Sensor
	Get(name string) (*sensor.Sensor, bool)
}

// Server is the HTTP surface
type Server struct {
	registry Registry
	logger   zerolog.Logger
	limiter  *rate.Limiter
	router   *mux.Router
	refresh  func(s *sensor.Sensor)
	images   map[string]ImageSource
}

// ImageSource streams provider artwork so credentials stay server-side
type ImageSource interface {
	Image(ctx context.Context, key string, kind plex.ImageKind) (*plex.Image, error)
}

// Option configures a Server
type Option func(*Server)

// WithActionRate limits service calls across all sensors
func WithActionRate(limit rate.Limit, burst int) Option {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithRefresh sets what happens to a sensor after a successful action
func WithRefresh(fn func(s *sensor.Sensor)) Option {
	return func(s *Server) {
		s.refresh = fn
	}
}

// WithImages sets the artwork sources by sensor name
func WithImages(sources map[string]ImageSource) Option {
	return func(s *Server) {
		s.images = sources
	}
}

// NewServer builds the router
func NewServer(registry Registry, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		logger:   logger.With().Str("component", "api").Logger(),
		limiter:  rate.NewLimiter(rate.Every(time.Second), 5),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, s.loggingMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/sensors", s.handleListSensors).Methods(http.MethodGet)
	apiRouter.HandleFunc("/sensors/{name}", s.handleGetSensor).Methods(http.MethodGet)
	apiRouter.HandleFunc("/sensors/{name}/refresh", s.handleRefreshSensor).Methods(http.MethodPost)
	apiRouter.HandleFunc("/services/{action}", s.handleService).Methods(http.MethodPost)
	apiRouter.HandleFunc("/images/{name}/{key:[0-9]+}/{kind}", s.handleImage).Methods(http.MethodGet)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, host string, port int) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
