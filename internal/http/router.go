package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mariekewagner2302-lang/travelplanner/internal/http/handlers"
	"github.com/mariekewagner2302-lang/travelplanner/internal/http/middlewares"
	"github.com/mariekewagner2302-lang/travelplanner/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// RouterOptions carries everything the user-service router needs; nothing
// is read from ambient globals here.
type RouterOptions struct {
	Env         string
	Log         *slog.Logger
	Auth        handlers.AuthService
	Ping        func() error
	CORSOrigins []string
	Prom        *observability.Prom
	Tracing     bool
}

func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(opts.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(opts.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	if opts.Tracing {
		r.Use(otelgin.Middleware("user-service"))
	}

	if opts.Prom != nil {
		r.Use(opts.Prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	h := handlers.NewHealthHandler("user-service", opts.Ping)
	r.GET("/health", h.Health)
	r.GET("/readyz", h.Ready)

	// auth workflows
	authHandler := handlers.NewAuthHandler(opts.Auth, opts.Log, opts.Prom)

	api := r.Group("/api/v1/auth")
	api.Use(middlewares.RequireJSON())

	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.POST("/refresh", authHandler.Refresh)
	api.POST("/logout", authHandler.Logout)

	return r
}
