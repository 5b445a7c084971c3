package main

import (
	"flag"

	"go-pos-register/internal/config"
	"go-pos-register/internal/repository"
	"go-pos-register/internal/service"
	"go-pos-register/pkg/database"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}
	cfg := config.Load()

	file := flag.String("file", cfg.ImportFile, "CSV file with category,name,price[,sku,stock] columns")
	flag.Parse()

	// 2. Setup Database
	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := database.Connect(cfg.DBDriver, dsn, gormlogger.Error)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to database")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to migrate schema")
	}

	// 3. Import
	catalog := service.NewCatalogService(
		repository.NewCategoryRepo(db),
		repository.NewProductRepo(db),
		repository.NewSaleRepo(db),
		db,
		nil,
	)
	result, err := catalog.ImportFromBulkFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("❌ Import rolled back")
	}

	log.Info().
		Int("rows", result.Rows).
		Int("categories_created", result.Categories).
		Str("file", *file).
		Msg("✅ Import committed")
}
