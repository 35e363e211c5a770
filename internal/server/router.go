package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/boycottpro/boycottpro-backend/internal/handlers"
	"github.com/boycottpro/boycottpro-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	Tracing        bool
	AllowedOrigins []string
	AuthMiddleware *middleware.AuthMiddleware
	BoycottHandler *handlers.BoycottHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.Tracing {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/users/boycotts", cfg.BoycottHandler.AddBoycotts)

	return router
}
