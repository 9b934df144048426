package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"samplemeta/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Spelling SpellingConfig
	Import   ImportConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int
}

// SpellingConfig controls the typo suggester
type SpellingConfig struct {
	DictionaryPath string
	Depth          int
	TechTerms      []string
}

// ImportConfig holds workbook/roster import settings
type ImportConfig struct {
	TemplatePath      string
	ScratchTTL        time.Duration
	RosterGroupColumn string
}

// Load reads configuration from environment variables and validates it for
// the server, which requires a database.
func Load() (*Config, error) {
	config := LoadLocal()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	config.Database = DatabaseConfig{
		URL:     url,
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// LoadLocal reads the settings that do not depend on a database. The CLI uses it directly.
func LoadLocal() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 20),
		},
		Spelling: SpellingConfig{
			DictionaryPath: getEnvOrDefault("DICTIONARY_PATH", ""),
			Depth:          getEnvIntOrDefault("SPELL_DEPTH", 2),
			TechTerms:      getEnvListOrDefault("TECH_TERMS", nil),
		},
		Import: ImportConfig{
			TemplatePath:      getEnvOrDefault("TEMPLATE_PATH", ""),
			ScratchTTL:        getEnvDurationOrDefault("SCRATCH_TTL", 2*time.Hour),
			RosterGroupColumn: getEnvOrDefault("ROSTER_GROUP_COLUMN", "group"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Spelling.Depth < 1 || config.Spelling.Depth > 3 {
		return errors.ConfigInvalid("SPELL_DEPTH must be between 1 and 3")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Import.ScratchTTL <= 0 {
		return errors.ConfigInvalid("SCRATCH_TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
