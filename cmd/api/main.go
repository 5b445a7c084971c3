package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go-pos-register/internal/config"
	"go-pos-register/internal/handler"
	"go-pos-register/internal/repository"
	"go-pos-register/internal/service"
	"go-pos-register/internal/ws"
	"go-pos-register/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	admin := flag.Bool("admin", false, "expose the catalog administration routes")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}
	cfg := config.Load()
	cfg.EnableAdmin = cfg.EnableAdmin || *admin

	// 2. Setup Database
	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := database.Connect(cfg.DBDriver, dsn, gormlogger.Warn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate schema")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)

	catalogService := service.NewCatalogService(categoryRepo, productRepo, saleRepo, db, wsHub)
	orderService := service.NewOrderService(productRepo, saleRepo, db, wsHub, service.OrderOptions{TrackStock: cfg.TrackStock})
	popularityService := service.NewPopularityService(saleRepo, productRepo)

	// 5. Seed the catalog on first start
	seedCatalog(catalogService, cfg.ImportFile)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Register v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	handler.SetupRoutes(app, handler.Handlers{
		Order:      handler.NewOrderHandler(orderService),
		Catalog:    handler.NewCatalogHandler(catalogService, orderService),
		Popularity: handler.NewPopularityHandler(popularityService, orderService, cfg.PopularDays, cfg.PopularLimit),
	}, wsHub, cfg.EnableAdmin)

	// 8. Graceful Shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Bool("admin", cfg.EnableAdmin).Msg("Register listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	wsHub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("Server exited")
}

// seedCatalog imports the bulk file when the catalog is empty. A missing file
// leaves the catalog empty.
func seedCatalog(s service.CatalogService, path string) {
	empty, err := s.IsEmpty()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to inspect catalog")
		return
	}
	if !empty {
		return
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Info().Str("file", path).Msg("No bulk file, starting with an empty catalog")
		return
	}

	result, err := s.ImportFromBulkFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Failed to seed catalog")
		return
	}
	log.Info().Int("rows", result.Rows).Str("file", path).Msg("✅ Catalog seeded")
}
