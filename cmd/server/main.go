package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/delivery/http"
	"github.com/agrisense/backend/internal/fusion"
	"github.com/agrisense/backend/internal/repository/postgres"
	"github.com/agrisense/backend/internal/service"
)

// repository is the combined storage surface the server wires up
type repository interface {
	service.UserRepository
	service.PostRepository
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Crop metadata is embedded; a parse failure is a build defect
	cropStore, err := crops.NewStore()
	if err != nil {
		log.Fatalf("Failed to load crop metadata: %v", err)
	}

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo repository
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil || pool.Ping(ctx) != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Running with in-memory storage only")
		repo = postgres.NewMockRepository()
	} else {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
		repo = postgres.NewRepository(pool)
	}

	// Dependency Injection: Services
	weatherSvc := service.NewWeatherService(cfg.WeatherBaseURL)
	marketSvc := service.NewMarketService(cfg.MarketBaseURL, cfg.AgmarknetAPIKey)
	ndviSvc := service.NewNDVIService()
	geocodeSvc := service.NewGeocodeService(cfg.GeocodeBaseURL)
	healthSvc := service.NewCropHealthService()
	alertsSvc := service.NewAlertsService(cfg.AlertsBaseURL)
	engine := fusion.NewEngine()

	advisorySvc := service.NewAdvisoryService(cropStore, engine, weatherSvc, marketSvc, ndviSvc, geocodeSvc, healthSvc)
	dashboardSvc := service.NewDashboardService(cropStore, weatherSvc, marketSvc, ndviSvc, alertsSvc, healthSvc)
	authSvc := service.NewAuthService(repo, cfg.SecretKey, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "AgriSense API v1.0",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, advisorySvc, dashboardSvc, authSvc, repo, cfg.UploadDir)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL     string
	SecretKey       string
	TokenTTLMinutes int
	AgmarknetAPIKey string
	WeatherBaseURL  string
	MarketBaseURL   string
	GeocodeBaseURL  string
	AlertsBaseURL   string
	UploadDir       string
	AllowOrigins    string
	Port            string
	Env             string
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SecretKey:       getEnv("SECRET_KEY", "change-me-to-a-random-secret"),
		TokenTTLMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		AgmarknetAPIKey: getEnv("AGMARKNET_API_KEY", "sample"),
		WeatherBaseURL:  getEnv("WEATHER_BASE_URL", ""),
		MarketBaseURL:   getEnv("MARKET_BASE_URL", ""),
		GeocodeBaseURL:  getEnv("GEOCODE_BASE_URL", ""),
		AlertsBaseURL:   getEnv("ALERTS_BASE_URL", "https://agrialerts.gov.example"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		AllowOrigins:    getEnv("ALLOW_ORIGINS", "*"),
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
