package server

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"

	"github.com/signpath/signpath-server/internal/model"
)

var _ model.Server = (*GRPCServer)(nil)

// GRPCServer wraps a gRPC server with address and lifecycle methods.
type GRPCServer struct {
	server *grpc.Server
	addr   string

	mu    sync.Mutex
	bound string
}

// NewGRPCServer creates a GRPCServer with given server and address.
func NewGRPCServer(server *grpc.Server, addr string) *GRPCServer {
	return &GRPCServer{server: server, addr: addr}
}

// Start listens through the security layer and serves until Stop.
func (s *GRPCServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.mu.Lock()
	s.bound = listener.Addr().String()
	s.mu.Unlock()

	return s.server.Serve(listener)
}

// Stop drains in-flight calls, forcing close when ctx expires first.
func (s *GRPCServer) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return fmt.Errorf("forced gRPC shutdown: %w", ctx.Err())
	}
}

// Address returns the bound address once started, the configured one before.
func (s *GRPCServer) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bound != "" {
		return s.bound
	}
	return s.addr
}
