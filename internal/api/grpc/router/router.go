package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/signpath/signpath-server/internal/api/grpc/handler"
	"github.com/signpath/signpath-server/internal/api/grpc/middleware"
	"github.com/signpath/signpath-server/internal/api/grpc/sessionpb"
	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
)

// Router wires the session service and its interceptors into a gRPC server.
type Router struct {
	sessionService handler.SessionService
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	sessionService handler.SessionService,
	tokens model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		sessionService: sessionService,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// authRequired selects the methods that act on an existing session.
func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	switch c.FullMethod() {
	case sessionpb.SetRoleMethod, sessionpb.LogoutMethod:
		return true
	default:
		return false
	}
}

// Register creates the gRPC server with request logging and authentication
// interceptors. Server reflection is enabled.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)

	s := grpc.NewServer(opts...)
	sessionpb.RegisterSessionServer(s, handler.NewSession(r.sessionService, r.tokens, r.contextManager, r.logger))
	reflection.Register(s)

	return s
}
