package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bioserver/logutils"
)

// Server wraps an http.Server around the gin router.
type Server struct {
	httpServer *http.Server
}

func New(addr string, cfg RouterConfig) (*Server, error) {
	router, err := NewRouter(cfg)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start serves until Stop is called; a clean shutdown returns nil.
func (s *Server) Start() error {
	logutils.Log.WithFields(logutils.Fields{"addr": s.httpServer.Addr}).Info("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server, waiting at most until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	logutils.Log.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
