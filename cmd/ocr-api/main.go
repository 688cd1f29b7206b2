package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/nid"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/storage"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/modules/nid/handlers"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/shared/config"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/nid-ocr-service/cmd/ocr-api/docs"
)

// @title NID OCR Service API
// @version 1.0
// @description Extracts Name, Date of Birth and ID number from photos of national ID cards
// @host localhost:8500
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.IsProduction(), cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("🚀 Starting ocr-api")

	// Init OCR engine, shared by every request
	ocrProvider, err := ocr.NewProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OCR provider")
	}
	ocrService := ocr.NewService(ocrProvider, cfg.OCRConcurrency)

	// Init artifact storage
	storageProvider, err := storage.NewProvider(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage provider")
	}
	storageService := storage.NewService(storageProvider)

	log.Info().Str("provider", ocrService.GetProviderName()).Int("slots", cfg.OCRConcurrency).Msg("🔍 OCR provider")
	log.Info().Str("provider", storageService.GetProviderName()).Msg("💾 Storage provider")

	extractor := nid.NewExtractor(ocrService, storageService)

	// Init handlers
	ocrHandler := handlers.NewOCRHandler(extractor, cfg.DefaultUserID, cfg.MaxUploadSize())
	healthHandler := handlers.NewHealthHandler(ocrService, storageService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "NID OCR Service",
		// two images plus multipart overhead
		BodyLimit: int(2*cfg.MaxUploadSize()) + 1024*1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// OCR routes
	app.Post("/ocr/nid", ocrHandler.ExtractNID)

	go func() {
		log.Info().Msgf("✅ ocr-api running at :%s", cfg.Port)
		log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("🛑 Shutting down ocr-api...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}
	if err := ocrService.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to release OCR engine")
	}
	log.Info().Msg("👋 Goodbye!")
}
