package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/signpath/signpath-server/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer wraps an echo instance with address and lifecycle methods.
type HTTPServer struct {
	echo *echo.Echo
	addr string

	mu    sync.Mutex
	bound string
}

// NewHTTPServer creates an HTTPServer serving e on addr.
func NewHTTPServer(e *echo.Echo, addr string) *HTTPServer {
	e.Server.Handler = e
	return &HTTPServer{echo: e, addr: addr}
}

// Start listens through the security layer and serves until Stop.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.mu.Lock()
	s.bound = listener.Addr().String()
	s.mu.Unlock()

	if err := s.echo.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains open connections until ctx expires.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Address returns the bound address once started, the configured one before.
func (s *HTTPServer) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bound != "" {
		return s.bound
	}
	return s.addr
}
