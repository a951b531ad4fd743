package main

import (
	"log"

	"github.com/oggyb/amigo-matching/internal/config"
	"github.com/oggyb/amigo-matching/internal/db"
	"github.com/oggyb/amigo-matching/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitFromConfig(cfg)

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedTestData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	logger.Info("seeding completed", "driver", cfg.DB.Driver)
}
