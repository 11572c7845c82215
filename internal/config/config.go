package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SearchConfig holds search and summarization tuning knobs, loadable from an
// optional YAML file.
type SearchConfig struct {
	DefaultTopK      int `yaml:"default_top_k"`
	MaxTopK          int `yaml:"max_top_k"`
	SummarySentences int `yaml:"summary_sentences"`
	HighlightTerms   int `yaml:"highlight_terms"`
}

// Config holds application configuration values loaded from environment
// variables plus the optional YAML tuning file.
type Config struct {
	HTTPPort    string
	DatabaseURL string // Empty means the JSON-file store backend
	DataDir     string
	Search      SearchConfig
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
// Search tuning comes from the file named by CONFIG_PATH (default
// config.yaml); a missing file means defaults.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DataDir:     getEnv("DATA_DIR", "data"),
	}

	search, err := loadSearchConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Search = *search

	if cfg.DatabaseURL == "" {
		log.Printf("Loaded config: Port=%s, Store=jsonfile, DataDir=%s", cfg.HTTPPort, cfg.DataDir)
	} else {
		log.Printf("Loaded config: Port=%s, Store=postgres, DB_URL=***", cfg.HTTPPort)
	}
	return cfg, nil
}

// loadSearchConfig reads the YAML tuning file, returning defaults when it
// does not exist.
func loadSearchConfig(path string) (*SearchConfig, error) {
	cfg := &SearchConfig{
		DefaultTopK:      5,
		MaxTopK:          50,
		SummarySentences: 3,
		HighlightTerms:   5,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 5
	}
	if cfg.MaxTopK <= 0 {
		cfg.MaxTopK = 50
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = 3
	}
	if cfg.HighlightTerms <= 0 {
		cfg.HighlightTerms = 5
	}
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
