package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration defaults.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port: 8080,
		},
		Feed: FeedConfig{
			URL:       "https://tiempo-real.renfe.com/renfe-visor/flota.json",
			TimeoutMS: 10000,
			Attempts:  3,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		},
		Storage: StorageConfig{
			Bucket:           "beta-tests",
			Folder:           "prenfe-data",
			RemoteEnabled:    true,
			Mirror:           false,
			DataDir:          "data",
			RetentionMinutes: 0,
		},
		LogJSON: false,
	}
}

// Load resolves the application configuration: defaults, then an optional
// YAML file, then environment overrides, validated before returning.
func Load() (*AppConfig, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("FLEET_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else {
		// Candidate paths are optional; only a malformed file is an error.
		for _, p := range []string{"config.yml", "config/config.yml"} {
			data, err := os.ReadFile(p)
			if err != nil {
				continue
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	applyEnv(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// applyEnv overrides configuration fields from environment variables.
// Unparsable numeric or boolean values keep the current setting.
func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_FEED_URL")); v != "" {
		cfg.Feed.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_FETCH_TIMEOUT_MS")); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Feed.TimeoutMS = ms
		}
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_FETCH_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Feed.Attempts = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_BUCKET")); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_FOLDER")); v != "" {
		cfg.Storage.Folder = v
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_REMOTE_ENABLED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.RemoteEnabled = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_MIRROR")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.Mirror = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_DATA_DIR")); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_RETENTION_MINUTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.RetentionMinutes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FLEET_LOG_JSON")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogJSON = b
		}
	}
}
