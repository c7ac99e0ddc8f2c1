package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI        string
	DBName          string
	Port            string
	GinMode         string
	CORSOrigins     []string
	BcryptCost      int
	RateLimitReqs   int
	RateLimitWindow int

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// JWT Token Secrets
	AccessSecret  string
	RefreshSecret string

	// Blob store
	Blob BlobConfig

	// Upload caps, parsed from human sizes such as "5MB"
	BannerMaxUpload    int64
	HomeImageMaxUpload int64

	// OpenTelemetry
	OTelEnabled  bool
	OTelEndpoint string
}

// BlobConfig selects and configures the image host. Driver "s3" talks to any
// S3-compatible endpoint (AWS, R2, MinIO); "filesystem" keeps blobs on local disk.
type BlobConfig struct {
	Driver          string
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string // fmt template, %s is replaced with the object key
	BasePath        string
	Folder          string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017/speshway"),
		DBName:          getEnv("DB_NAME", "speshway"),
		Port:            getEnv("PORT", "5001"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		CORSOrigins:     strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),
		BcryptCost:      getEnvInt("BCRYPT_COST", 12),
		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AccessSecret:  getEnv("ACCESS_SECRET", ""),
		RefreshSecret: getEnv("REFRESH_SECRET", ""),

		Blob: BlobConfig{
			Driver:          getEnv("BLOB_DRIVER", "filesystem"),
			Bucket:          getEnv("BLOB_BUCKET", ""),
			Region:          getEnv("BLOB_REGION", "auto"),
			Endpoint:        getEnv("BLOB_ENDPOINT", ""),
			AccessKeyID:     getEnv("BLOB_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("BLOB_SECRET_ACCESS_KEY", ""),
			PublicURL:       getEnv("BLOB_PUBLIC_URL", "/uploads/%s"),
			BasePath:        getEnv("BLOB_BASE_PATH", "./storage/uploads"),
			Folder:          getEnv("BLOB_FOLDER", "speshway"),
		},

		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint: getEnv("OTEL_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.BannerMaxUpload, err = getEnvSize("BANNER_MAX_UPLOAD", "5MB"); err != nil {
		return nil, err
	}
	if cfg.HomeImageMaxUpload, err = getEnvSize("HOME_IMAGE_MAX_UPLOAD", "10MB"); err != nil {
		return nil, err
	}

	if len(cfg.AccessSecret) < 32 {
		return nil, fmt.Errorf("ACCESS_SECRET is required and must be at least 32 characters - set it in .env file")
	}

	switch cfg.Blob.Driver {
	case "s3":
		if cfg.Blob.Bucket == "" {
			return nil, fmt.Errorf("BLOB_BUCKET is required when BLOB_DRIVER=s3")
		}
	case "filesystem":
	default:
		return nil, fmt.Errorf("unsupported BLOB_DRIVER %q", cfg.Blob.Driver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSize parses values like "5MB" or "512KiB". Decimal and binary suffixes
// are both accepted and "MB" is read as 1024*1024.
func getEnvSize(key, defaultValue string) (int64, error) {
	raw := getEnv(key, defaultValue)
	size, err := units.RAMInBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if size <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return size, nil
}
