package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/cmmps/nppx-loader/internal/config"
	"github.com/cmmps/nppx-loader/internal/database"
	"github.com/cmmps/nppx-loader/internal/ingestion"
	"github.com/cmmps/nppx-loader/internal/storage"
)

func setup(ctx context.Context) (*ingestion.Service, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbpool, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	sink := database.NewPostgresSink(dbpool)
	if err := sink.EnsureSchema(ctx); err != nil {
		dbpool.Close()
		return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	store, err := storage.NewS3Store(cfg.AWSRegion)
	if err != nil {
		dbpool.Close()
		return nil, nil, err
	}

	service := ingestion.NewService(sink, store, *cfg)

	cleanupFunc := func() {
		dbpool.Close()
	}

	return service, cleanupFunc, nil
}

func cleanup(cleanupFunc func()) {
	log.Println("Cleaning up resources...")
	cleanupFunc()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()
	ctx := context.Background()

	log.Println("Initializing NADAC load...")

	service, cleanupFunc, err := setup(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup(cleanupFunc)

	if err := service.Execute(ctx); err != nil {
		log.Fatalf("Error during NADAC load: %v", err)
	}

	log.Println("NADAC load complete.")
	log.Printf("Execution time: %s\n", time.Since(startTime))
}
