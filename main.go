package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/cache"
	"catalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Viper reads everything from environment variables with sane defaults.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("SQLITE_PATH", "catalog.db")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Structured event logger ---
	eventLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// --- Database ---
	// A postgres DSN selects postgres; otherwise a local sqlite file keeps
	// the service runnable with zero external services.
	var (
		db  *gorm.DB
		err error
	)
	gormConfig := &gorm.Config{TranslateError: true}
	if dsn := viper.GetString("DATABASE_URL"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), gormConfig)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Cache ---
	var cacheStore cache.Store
	if redisAddr := viper.GetString("REDIS_ADDR"); redisAddr != "" {
		redisStore, err := cache.NewRedisStore(cache.Config{
			Addr:     redisAddr,
			Password: viper.GetString("REDIS_PASSWORD"),
		})
		if err != nil {
			log.Fatalf("Failed to initialize Redis cache: %v", err)
		}
		cacheStore = redisStore
		log.Println("Using Redis cache store")
	} else {
		cacheStore = cache.NewMemoryStore()
		log.Println("REDIS_ADDR not set, using in-memory cache store")
	}
	defer cacheStore.Close()

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, product events will not be published")
	}

	// --- Repositories, services, handlers ---
	productRepo := repositories.NewGORMProductRepository(db)
	productValidator := services.NewProductValidator(productRepo, eventLogger)
	productService := services.NewProductService(productRepo, productValidator, cacheStore, publisher, eventLogger)
	productHandler := handlers.NewProductHandler(productService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server with graceful shutdown ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
