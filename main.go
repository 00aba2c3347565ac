package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bazar/internal/handlers"
	"bazar/internal/models"
	"bazar/internal/repositories"
	"bazar/internal/services"
	"bazar/pkg/events"
	"bazar/pkg/media"
)

// newApp wires repositories, services and handlers into a Fiber app.
// The event publisher may be nil, in which case product events are
// skipped.
func newApp(db *gorm.DB, jwtSecret string, images *media.Store, publisher services.EventPublisher) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo, categoryRepo, images, publisher)
	categoryService := services.NewCategoryService(categoryRepo)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	mediaHandler := handlers.NewMediaHandler(images)

	app := fiber.New()
	app.Use(logger.New()) // Request logger

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, authService)
	categoryHandler.RegisterRoutes(apiV1)
	mediaHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// logProductEvent handles deliveries from the product event queue.
// Downstream processing (indexing, notifications) hooks in here; for
// now each event is recorded. A handler error nacks and requeues the
// delivery.
func logProductEvent(msg amqp.Delivery) error {
	var event events.ProductEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("malformed product event %d: %w", msg.DeliveryTag, err)
	}
	log.Printf("Product event: %s product=%d author=%d", event.Action, event.ProductID, event.AuthorID)
	return nil
}

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=bazar port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "change_me")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.SetDefault("MEDIA_ROOT", "media")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Media store ---
	images, err := media.NewStore(viper.GetString("MEDIA_ROOT"))
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// --- Event publisher (optional) ---
	var publisher services.EventPublisher
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err := events.NewClient(events.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		// --- Start RabbitMQ consumer in a goroutine ---
		go func() {
			log.Println("Starting RabbitMQ consumer for product events...")
			if consumerErr := mqClient.ConsumeProductEvents(logProductEvent); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	app := newApp(db, viper.GetString("JWT_SECRET"), images, publisher)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
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
