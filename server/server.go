// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var _ Server = (*server)(nil)

type PathAdder interface {
	// AddRoute mounts [handler] at <baseURL>/<base><endpoint>.
	AddRoute(handler http.Handler, base, endpoint string) error
}

// Server is the admin API listener. Routes may be added until Dispatch is
// called.
type Server interface {
	PathAdder
	Addr() net.Addr
	// Routes lists the mounted paths in registration order.
	Routes() []string
	// Dispatch serves until Shutdown and returns nil on a clean stop.
	Dispatch() error
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Config describes where routes are mounted and who may reach them.
type Config struct {
	BaseURL         string
	HTTP            HTTPConfig
	AllowedOrigins  []string
	AllowedHosts    []string
	ShutdownTimeout time.Duration
}

func NewDefaultConfig() Config {
	return Config{
		BaseURL:         "/ext",
		HTTP:            NewDefaultHTTPConfig(),
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		ShutdownTimeout: time.Second,
	}
}

type server struct {
	cfg      Config
	log      logging.Logger
	router   *router
	listener net.Listener
	http     *http.Server
}

// New builds a server on [listener]. [wrappers] are applied outermost last.
func New(log logging.Logger, listener net.Listener, cfg Config, wrappers ...Wrapper) Server {
	r := newRouter()
	s := &server{
		cfg:      cfg,
		log:      log,
		router:   r,
		listener: listener,
	}
	s.http = &http.Server{
		Handler:           newHandler(r, cfg, wrappers),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
	log.Info("created api server",
		zap.Stringer("address", listener.Addr()),
		zap.String("baseURL", cfg.BaseURL),
		zap.Strings("allowedOrigins", cfg.AllowedOrigins),
		zap.Strings("allowedHosts", cfg.AllowedHosts),
	)
	return s
}

// newHandler filters hosts first, then applies CORS. Responses are gzipped
// except for websocket upgrades, which need the raw connection.
func newHandler(r *router, cfg Config, wrappers []Wrapper) http.Handler {
	filtered := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(filterInvalidHosts(r, cfg.AllowedHosts))
	zipped := gziphandler.GzipHandler(filtered)

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if isUpgrade(req) {
			filtered.ServeHTTP(w, req)
			return
		}
		zipped.ServeHTTP(w, req)
	})
	for _, w := range wrappers {
		h = w.WrapHandler(h)
	}
	return h
}

func isUpgrade(req *http.Request) bool {
	return strings.EqualFold(req.Header.Get("Upgrade"), "websocket")
}

func (s *server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *server) Routes() []string {
	return s.router.Paths()
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	prefix := path.Join(s.cfg.BaseURL, base)
	if err := s.router.AddRouter(prefix, endpoint, handler); err != nil {
		return err
	}
	s.log.Debug("mounted route", zap.String("path", prefix+endpoint))
	return nil
}

func (s *server) Dispatch() error {
	s.log.Info("serving api", zap.Int("routes", len(s.Routes())))
	if err := s.http.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests for up to the shutdown timeout and then
// closes whatever is left.
func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("api shutdown timed out",
			zap.Duration("timeout", s.cfg.ShutdownTimeout),
		)
	}
	return errors.Join(err, ignoreClosed(s.http.Close()))
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
