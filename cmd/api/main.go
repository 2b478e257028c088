package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetapi/internal/config"
	"assetapi/internal/database"
	"assetapi/internal/database/migration"
	"assetapi/internal/event"
	handlers "assetapi/internal/http/handler"
	"assetapi/internal/http/middleware"
	"assetapi/internal/otel"
	"assetapi/internal/preview"
	"assetapi/internal/repository/postgres"
	"assetapi/internal/service"
	"assetapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing (degrades to noop when no collector is configured)
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize the S3-compatible blob store (MinIO-supported)
	blobs, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Asset event observers; the notifier swallows listener faults.
	events := event.NewNotifier()
	events.OnUpload(func(e event.UploadEvent) {
		log.Printf("asset uploaded: name=%q key=%q private=%t", e.File.Name, e.Result.Key, e.IsPrivate)
	})
	events.OnDelete(func(e event.DeleteEvent) {
		log.Printf("asset deleting: id=%q private=%t", e.AssetID, e.IsPrivate)
	})

	// Initialize repository and the orchestration service
	assetRepo := postgres.NewAssetPostgres(db)
	assetSvc := service.NewAssetService(blobs, assetRepo, preview.NewImaging(), events, cfg.Assets)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, assetSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
