// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"auctionbackend/internal/logger"
)

// Variables available everywhere
var (
	baseDir       string
	dataDirectory string
	logsDirectory string

	// Exported settings
	DatabasePath    string
	CatalogFile     string
	ExportDirectory string
	LogFileFormat   string
	AdminUsername   string
	AllowedOrigin   string // For CORS
	DefaultPurse    float64
	EnrichTimeout   time.Duration
)

//
// --- Utility Helpers ---
//

// Helper: get a setting based on ENVIRONMENT (dev or prod)
func GetEnvBasedSetting(base string) string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	return os.Getenv(fmt.Sprintf("%s_%s", base, strings.ToUpper(env)))
}

// Helper: log which environment is running
func LogCurrentEnvironment() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	if env == "dev" {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in production environment")
	}
}

//
// --- Loaders ---
//

// LoadEnv reads .env file
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not determine working directory: %v", err)
	} else {
		log.Printf("Current working directory: %s", wd)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found in %s. Using system environment variables.", wd)
	} else {
		log.Printf("Loaded environment variables from .env file in %s", wd)
	}

	AdminUsername = os.Getenv("ADMIN_USERNAME")
	if AdminUsername == "" {
		AdminUsername = "admin"
	}

	AllowedOrigin = os.Getenv("ALLOWED_ORIGIN")
	if AllowedOrigin == "" {
		AllowedOrigin = "*"
	}

	DefaultPurse = 100.0
	if raw := os.Getenv("DEFAULT_PURSE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			DefaultPurse = v
		} else {
			log.Printf("Invalid DEFAULT_PURSE %q, keeping %.1f", raw, DefaultPurse)
		}
	}

	EnrichTimeout = 5 * time.Second
	if raw := os.Getenv("ENRICH_TIMEOUT_SECONDS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			EnrichTimeout = time.Duration(v) * time.Second
		}
	}
}

// ConfigurePaths resolves the data, logs and catalog paths from the environment.
func ConfigurePaths() {
	baseDir = os.Getenv("BASE_DIRECTORY")
	if baseDir == "" {
		baseDir = "."
	}

	dataDirectory = GetEnvBasedSetting("DATA_DIRECTORY")
	if dataDirectory == "" {
		dataDirectory = filepath.Join(baseDir, "data")
	}

	logsDirectory = GetEnvBasedSetting("LOGS_DIRECTORY")
	if logsDirectory == "" {
		logsDirectory = filepath.Join(baseDir, "logs")
	}

	DatabasePath = os.Getenv("DATABASE_PATH")
	if DatabasePath == "" {
		DatabasePath = filepath.Join(dataDirectory, "auction.db")
	}

	CatalogFile = os.Getenv("CATALOG_FILE")
	if CatalogFile == "" {
		CatalogFile = filepath.Join(baseDir, "AUCTION.xlsx")
	}

	ExportDirectory = GetEnvBasedSetting("EXPORT_DIRECTORY")
	if ExportDirectory == "" {
		ExportDirectory = dataDirectory
	}

	if err := os.MkdirAll(dataDirectory, 0775); err != nil {
		log.Printf("Could not create data directory %s: %v", dataDirectory, err)
	}
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	logFormat := GetEnvBasedSetting("LOG_FILE_FORMAT")
	if logFormat == "" {
		logFormat = "auction_%s.log"
	}
	LogFileFormat = logFormat

	return logger.Config{
		LogsDirectory: logsDirectory,
		LogFileFormat: logFormat,
	}
}
