package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL    string
	S3Bucket       string
	AWSRegion      string
	ObjectKey      string
	WholesalerName string
	CommitBoundary int
}

func New() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET environment variable is not set")
	}

	cfg := &Config{
		DatabaseURL:    databaseURL,
		S3Bucket:       bucket,
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		ObjectKey:      getEnv("NADAC_OBJECT_KEY", "database/data/NADAC2022.csv"),
		WholesalerName: getEnv("WHOLESALER_NAME", "nadac"),
		CommitBoundary: 10000,
	}

	var err error
	cfg.CommitBoundary, err = getEnvAsInt("COMMIT_BOUNDARY", cfg.CommitBoundary)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}
