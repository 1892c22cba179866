package planning

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mariekewagner2302-lang/travelplanner/internal/http/handlers"
	"github.com/mariekewagner2302-lang/travelplanner/internal/http/middlewares"
	"github.com/mariekewagner2302-lang/travelplanner/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Env         string
	Log         *slog.Logger
	Handler     *Handler
	Verifier    middlewares.TokenVerifier
	CORSOrigins []string
	Prom        *observability.Prom
}

// NewRouter wires the planning gateway. Every planning route requires a
// valid bearer access token issued by the user service.
func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(opts.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(opts.CORSOrigins))

	if opts.Prom != nil {
		r.Use(opts.Prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	h := handlers.NewHealthHandler("planning-service", nil)
	r.GET("/health", h.Health)

	authMw := middlewares.NewAuthMiddleware(opts.Verifier)

	api := r.Group("/api/v1/planning")
	api.Use(authMw.RequireAuth())
	api.Use(middlewares.RequireJSON())

	api.POST("/generate", opts.Handler.Generate)

	return r
}
