// Package config provides configuration loading and validation for the
// service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config represents the service configuration. Values come from a JSON file,
// environment variables, or CLI flags; all fields are optional and missing
// values fall back to defaults.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Persistence
	StoreBackend string `json:"store_backend,omitempty"` // file, redis or postgres
	DataDir      string `json:"data_dir,omitempty"`      // Directory for the file backend
	RedisURL     string `json:"redis_url,omitempty"`     // redis:// connection URL
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL

	// Scoring
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Enables the LLM scoring tier
	GeminiModel  string `json:"gemini_model,omitempty"`   // Model name override

	// Ingestion
	ScraperActorID string `json:"scraper_actor_id,omitempty"` // Remote scraping actor
	ScraperToken   string `json:"scraper_token,omitempty"`    // Actor API token
	UseBrowser     bool   `json:"use_browser,omitempty"`      // Headless browser for JS-heavy pages

	// Logging
	JSONLogs bool `json:"json_logs,omitempty"` // JSON log encoding instead of console
	Debug    bool `json:"debug,omitempty"`     // Debug-level logging
}

// Load reads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. godotenv has already
// populated the process environment by the time this runs.
func FromEnv() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 0),
		StoreBackend:   os.Getenv("STORE_BACKEND"),
		DataDir:        os.Getenv("DATA_DIR"),
		RedisURL:       os.Getenv("REDIS_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		ScraperActorID: os.Getenv("SCRAPER_ACTOR_ID"),
		ScraperToken:   os.Getenv("SCRAPER_TOKEN"),
		UseBrowser:     getEnvBool("USE_BROWSER", false),
		JSONLogs:       getEnvBool("JSON_LOGS", false),
		Debug:          getEnvBool("DEBUG", false),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in 0-65535")
	}

	switch c.StoreBackend {
	case "", BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("config error: unknown store backend %q", c.StoreBackend)
	}

	if c.StoreBackend == BackendRedis && c.RedisURL == "" {
		return fmt.Errorf("config error: 'redis_url' is required for the redis backend")
	}
	if c.StoreBackend == BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Bool fields are not merged since unset cannot be distinguished
// from false; flags always win for bools.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.StoreBackend == "" {
		result.StoreBackend = defaults.StoreBackend
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}
	if result.ScraperActorID == "" {
		result.ScraperActorID = defaults.ScraperActorID
	}
	if result.ScraperToken == "" {
		result.ScraperToken = defaults.ScraperToken
	}

	return result
}

// Defaults returns the built-in fallback configuration.
func Defaults() Config {
	return Config{
		Port:         8080,
		StoreBackend: BackendFile,
		DataDir:      "data",
	}
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
