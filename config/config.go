// Package config provides configuration management for the inventory
// engine. Values come from an optional YAML file and environment
// variables (with .env support); environment wins over file, file wins
// over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Debug  bool         `yaml:"debug"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DBConfig holds the SQLite settings.
type DBConfig struct {
	// Path is the database file. ":memory:" runs without persistence.
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		DB:     DBConfig{Path: "inventory.db"},
	}
}

// Load builds the configuration. It loads .env from the current
// directory if present, reads the YAML file at yamlPath (or $CONFIG_FILE)
// when one exists, then applies environment overrides:
//
//	PORT             HTTP server port
//	DB_PATH          SQLite database path
//	ALLOWED_ORIGINS  Comma-separated CORS origins
//	DEBUG            "true" enables debug logging
func Load(yamlPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if yamlPath == "" {
		yamlPath = os.Getenv("CONFIG_FILE")
	}
	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitOrigins(v)
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db path must not be empty")
	}
	return nil
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
