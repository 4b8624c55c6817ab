package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signpath/signpath-server/internal/api/http/handler"
	"github.com/signpath/signpath-server/internal/api/http/middleware"
	"github.com/signpath/signpath-server/internal/learning"
	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
)

// Router wires HTTP handlers and middleware into an echo instance.
type Router struct {
	sessionService handler.SessionService
	tokens         model.TokenManager
	catalog        *learning.Catalog
	module         *learning.Module
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	sessionService handler.SessionService,
	tokens model.TokenManager,
	catalog *learning.Catalog,
	module *learning.Module,
	logger *logger.Logger,
) *Router {
	return &Router{
		sessionService: sessionService,
		tokens:         tokens,
		catalog:        catalog,
		module:         module,
		logger:         logger,
	}
}

type requestValidator struct{}

func (requestValidator) Validate(i interface{}) error {
	return model.Validate(i)
}

// Register builds the echo instance with every route.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(middleware.RequestLogger(r.logger))
	e.Use(echomw.Recover())
	e.Use(middleware.SecurityHeaders())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	v1.GET("/health", handler.Health)

	authenticate := middleware.Authenticate(r.tokens, r.logger)

	sessionHandler := handler.NewSession(r.sessionService, r.tokens, r.logger)
	session := v1.Group("/session")
	session.GET("", sessionHandler.Current)
	session.POST("/login", sessionHandler.Login)
	session.POST("/signup", sessionHandler.Signup)
	session.PUT("/role", sessionHandler.SetRole, authenticate)
	session.POST("/logout", sessionHandler.Logout, authenticate)

	onboarded := []echo.MiddlewareFunc{authenticate, middleware.RequireOnboarded(r.sessionService)}

	learningHandler := handler.NewLearning(r.catalog, r.module)
	v1.GET("/levels", learningHandler.Levels, onboarded...)
	v1.GET("/lessons", learningHandler.Lessons, onboarded...)

	module := v1.Group("/learning", onboarded...)
	module.GET("", learningHandler.State)
	module.POST("/select", learningHandler.Select)
	module.POST("/next", learningHandler.Next)
	module.POST("/prev", learningHandler.Prev)
	module.POST("/jump", learningHandler.Jump)
	module.POST("/complete", learningHandler.Complete)
	module.POST("/reset", learningHandler.Reset)

	return e
}
