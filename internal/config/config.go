package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO / S3-compatible stores.
// PublicBucket serves world-readable assets; PrivateBucket serves assets that
// are only reachable through presigned URLs.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	PublicBucket  string
	PrivateBucket string
	UseSSL        bool
	PresignExpiry int // seconds; expiry for presigned private URLs
}

// AssetConfig holds the asset pipeline settings, fixed for the process
// lifetime and passed to the service constructor.
type AssetConfig struct {
	// PreviewMaxWidth bounds the thumbnail width. Thumbnails never exceed the
	// original image width.
	PreviewMaxWidth int
	// GeneratePreview toggles thumbnail derivation for image uploads.
	GeneratePreview bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Assets   AssetConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Region:        getEnv("MINIO_REGION", ""),
			PublicBucket:  getEnv("MINIO_PUBLIC_BUCKET", ""),
			PrivateBucket: getEnv("MINIO_PRIVATE_BUCKET", ""),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 3600),
		},
		Assets: AssetConfig{
			PreviewMaxWidth: getEnvInt("ASSET_PREVIEW_MAX_WIDTH", 512),
			GeneratePreview: getEnvBool("ASSET_GENERATE_PREVIEW", true),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
