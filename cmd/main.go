package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/boycottpro/boycottpro-backend/internal/handlers"
	"github.com/boycottpro/boycottpro-backend/internal/middleware"
	"github.com/boycottpro/boycottpro-backend/internal/observability"
	"github.com/boycottpro/boycottpro-backend/internal/platform/config"
	"github.com/boycottpro/boycottpro-backend/internal/platform/dynamo"
	"github.com/boycottpro/boycottpro-backend/internal/platform/envutil"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/repos"
	"github.com/boycottpro/boycottpro-backend/internal/server"
	"github.com/boycottpro/boycottpro-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		log.Error("JWT_SECRET_KEY is required")
		os.Exit(1)
	}
	port := envutil.Str("PORT", "8080")
	environment := envutil.Str("ENVIRONMENT", "development")

	// Tracing
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "boycottpro-backend",
		Environment: environment,
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Tables
	tables, err := config.LoadTables(envutil.Str("TABLES_CONFIG_PATH", ""))
	if err != nil {
		log.Error("Could not load tables config", "error", err)
		os.Exit(1)
	}

	// DynamoDB
	log.Info("Setting up DynamoDB client from main...")
	dbClient, err := dynamo.NewClient(ctx, log)
	if err != nil {
		log.Error("Could not init DynamoDB client", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos from main...")
	companyRepo := repos.NewCompanyRepo(dbClient, tables.Companies, log)
	causeRepo := repos.NewCauseRepo(dbClient, tables.Causes, log)
	factRepo := repos.NewUserBoycottRepo(dbClient, tables.UserBoycotts, log)
	followRepo := repos.NewUserCauseRepo(dbClient, tables.UserCauses, log)
	statsRepo := repos.NewCauseCompanyStatsRepo(dbClient, tables.CauseCompanyStats, log)
	txRepo := repos.NewTransactionRepo(dbClient, log)

	// Services
	log.Info("Setting up services from main...")
	authService := services.NewAuthService(log, jwtSecretKey)
	boycottService := services.NewBoycottService(log, companyRepo, causeRepo, factRepo, followRepo, statsRepo, txRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	boycottHandler := handlers.NewBoycottHandler(log, boycottService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:    "boycottpro-backend",
		Tracing:        envutil.Bool("OTEL_ENABLED", false),
		AllowedOrigins: splitOrigins(envutil.Str("CORS_ALLOWED_ORIGINS", "")),
		AuthMiddleware: authMiddleware,
		BoycottHandler: boycottHandler,
	})

	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
