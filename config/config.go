// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"recipebook/mealdb"
)

// Config holds all runtime settings.
type Config struct {
	Port          string
	ProjectID     string
	JWTSecret     string
	TokenTTL      time.Duration
	MealDBBaseURL string
	MealDBTimeout time.Duration
	UploadDir     string
	PublicBaseURL string
	CORSOrigins   []string
	LogLevel      string
	LogJSON       bool
}

// Load reads a .env file when one exists, then the environment. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:          get("PORT", "8080"),
		ProjectID:     get("GOOGLE_CLOUD_PROJECT", ""),
		JWTSecret:     get("JWT_SECRET", ""),
		MealDBBaseURL: get("MEALDB_BASE_URL", mealdb.DefaultBaseURL),
		UploadDir:     get("UPLOAD_DIR", "uploads"),
		LogLevel:      get("LOG_LEVEL", "info"),
	}
	cfg.PublicBaseURL = get("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port)

	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	var err error
	if cfg.MealDBTimeout, err = time.ParseDuration(get("MEALDB_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid MEALDB_TIMEOUT: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "168h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.LogJSON, err = strconv.ParseBool(get("LOG_JSON", "true")); err != nil {
		return nil, fmt.Errorf("invalid LOG_JSON: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return errors.New("GOOGLE_CLOUD_PROJECT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}
