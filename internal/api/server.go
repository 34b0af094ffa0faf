package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mgpai22/cueline/internal/logging"
	"github.com/mgpai22/cueline/internal/playback"
	"github.com/mgpai22/cueline/internal/session"
)

type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

type ServerConfig struct {
	Host        string
	Port        int
	ReadTimeout time.Duration
	Session     *session.Session
	Streamer    *playback.Streamer
	Logger      *logging.Logger
	StartTime   time.Time
	Version     string
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:     router,
			ReadTimeout: cfg.ReadTimeout,
			// media streams can run for as long as the page plays
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Infow("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
