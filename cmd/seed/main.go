package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	"carrent-backend/internal/config"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository/postgres"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	dataPath := flag.String("data", "config/seed.yaml", "Path to the seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	raw, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}
	data, err := parseSeedData(raw)
	if err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	res, err := populate(context.Background(), store, data)
	if err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	logger.Info("Seed data populated", "users_created", res.Users, "users_skipped", res.SkippedUsers, "cars_created", res.Cars)
}
