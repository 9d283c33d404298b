package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	ServerPort    string
	Environment   string
	JWTSecret     string

	// Track metadata enrichment
	EnableEnrichment bool
	EnrichBaseURL    string
	EnrichTimeoutMS  int

	// Sound clip storage (disabled when namenode is empty)
	HDFSNamenode string
	ClipBaseURL  string

	// Logging
	LogFilePath   string
	LogHMACKey    string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "soundbyte"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),

		EnableEnrichment: getEnvAsBool("ENABLE_ENRICHMENT", false),
		EnrichBaseURL:    getEnv("ENRICH_BASE_URL", "https://itunes.apple.com"),
		EnrichTimeoutMS:  getEnvAsInt("ENRICH_TIMEOUT_MS", 3000),

		HDFSNamenode: getEnv("HDFS_NAMENODE", ""),
		ClipBaseURL:  getEnv("CLIP_BASE_URL", "http://localhost:8080"),

		LogFilePath:   getEnv("LOG_FILE_PATH", "/var/log/soundbyte-service/app.log"),
		LogHMACKey:    getEnv("LOG_HMAC_KEY", "default-hmac-key-change-in-production"),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
