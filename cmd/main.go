package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpcctx "github.com/signpath/signpath-server/internal/api/grpc/context"
	grpcrouter "github.com/signpath/signpath-server/internal/api/grpc/router"
	grpcServer "github.com/signpath/signpath-server/internal/api/grpc/server"
	httprouter "github.com/signpath/signpath-server/internal/api/http/router"
	httpServer "github.com/signpath/signpath-server/internal/api/http/server"
	"github.com/signpath/signpath-server/internal/config"
	"github.com/signpath/signpath-server/internal/learning"
	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
	"github.com/signpath/signpath-server/internal/server"
	"github.com/signpath/signpath-server/internal/service"
	"github.com/signpath/signpath-server/internal/storage"
	"github.com/signpath/signpath-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	store, closeStore, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	session := service.NewSession(store, service.Admin{
		Email:  cfg.Admin.Email,
		Secret: cfg.Admin.Secret,
	}, logger)

	catalog, err := learning.DefaultCatalog()
	if err != nil {
		logger.Fatal("failed to load lesson catalog", "error", err)
	}
	module := learning.NewModule(catalog, logger)
	detach := module.Attach(session)
	defer detach()

	session.Initialize(ctx)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	ctxMgr := grpcctx.NewManager()

	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	grpcSrv := registerGRPCServer(logger, session, tokenManager, ctxMgr, fmt.Sprintf(":%s", cfg.GRPC.Port))

	e := httprouter.New(session, tokenManager, catalog, module, logger).Register()
	httpSrv := httpServer.NewHTTPServer(e, fmt.Sprintf(":%s", cfg.HTTP.Port))

	servers := map[string]model.Server{
		"grpc": grpcSrv,
		"http": httpSrv,
	}

	var wg sync.WaitGroup
	for name, s := range servers {
		wg.Add(1)
		go func(name string, s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "server", name, "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "server", name, "error", err)
				stop()
			}
		}(name, s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for name, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "server", name, "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	logger *logger.Logger,
	session *service.Session,
	tokenManager model.TokenManager,
	ctxMgr model.ContextManager,
	addr string,
) *grpcServer.GRPCServer {
	r := grpcrouter.New(session, tokenManager, ctxMgr, logger)

	return grpcServer.NewGRPCServer(r.Register(), addr)
}
