package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/internal/database"
	"github.com/makerlink/server/internal/handlers"
	"github.com/makerlink/server/internal/logger"
	"github.com/makerlink/server/internal/middleware"
	"github.com/makerlink/server/internal/services"
	"github.com/makerlink/server/internal/telemetry"
	"github.com/makerlink/server/pkg/ai"
	"github.com/makerlink/server/pkg/ai/gemini"
	"github.com/makerlink/server/pkg/cache"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.ServerEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "makerlink-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
		tracerShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "makerlink-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
		meterShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Optional Gemini summarizer. 키가 없으면 aiRecommendation은 항상 null.
	var summarizer ai.Summarizer
	if cfg.GeminiAPIKey != "" {
		generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.Warn("gemini summarizer disabled", zap.Error(err))
		} else {
			summarizer = generator
		}
	}

	// Shared result cache
	resultCache := cache.New()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MakerLink API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	// JSON 구조화 액세스 로그
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "Asia/Seoul",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "makerlink-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Accept-Language, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With, X-API-Key",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400,
	}))

	// Setup routes
	setupRoutes(app, db, cfg, resultCache, summarizer)

	// Start server
	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config, resultCache *cache.Cache, summarizer ai.Summarizer) {
	// Prometheus scrape endpoint
	app.Get("/metrics", middleware.PrometheusHandler())

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	matchService := services.NewMatchService(db, resultCache, cfg, summarizer)
	searchService := services.NewSearchService(db, resultCache, cfg)
	listingService := services.NewListingService(db, resultCache, cfg)

	// API v1 group
	v1 := app.Group("/v1")

	// Match routes (public; 인증 시 AI 추천 포함)
	match := v1.Group("/match", middleware.OptionalAuth(cfg))
	handlers.SetupMatchRoutes(match, matchService)

	// Search routes (public)
	search := v1.Group("/search")
	handlers.SetupSearchRoutes(search, searchService)

	// Listing routes (mutations require auth)
	mutate := middleware.AuthRequired(cfg)
	servicesGroup := v1.Group("/services")
	handlers.SetupServiceRoutes(servicesGroup, listingService, mutate)

	resourcesGroup := v1.Group("/resources")
	handlers.SetupResourceRoutes(resourcesGroup, listingService, mutate)

	// Internal cache administration (API Key required)
	cacheAdmin := v1.Group("/internal/cache")
	handlers.SetupCacheAdminRoutes(cacheAdmin, resultCache, cfg)
}
