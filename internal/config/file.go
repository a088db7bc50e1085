package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the env var names so a YAML file can stand in for an
// env file in deployments that prefer one. Values are exported into the
// process environment before Load runs, so precedence stays env > file.
type fileConfig struct {
	App         string `yaml:"app"`
	Environment string `yaml:"environment"`
	Server      struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		CSRFKey   string `yaml:"csrf_key"`
	} `yaml:"auth"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// ApplyFile reads a YAML config file and exports its values as defaults for
// Load. Existing environment variables are never overwritten.
func ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setDefaultEnv("SITE_APP", fc.App)
	setDefaultEnv("ENVIRONMENT", fc.Environment)
	setDefaultEnv("SERVER_HOST", fc.Server.Host)
	setDefaultEnv("SERVER_BASE_URL", fc.Server.BaseURL)
	if fc.Server.Port != 0 {
		setDefaultEnv("SERVER_PORT", fmt.Sprintf("%d", fc.Server.Port))
	}
	setDefaultEnv("DATABASE_URL", fc.Database.URL)
	setDefaultEnv("JWT_SECRET", fc.Auth.JWTSecret)
	setDefaultEnv("CSRF_KEY", fc.Auth.CSRFKey)
	setDefaultEnv("LOG_LEVEL", fc.Logging.Level)
	setDefaultEnv("LOG_FORMAT", fc.Logging.Format)

	return nil
}

func setDefaultEnv(key, value string) {
	if value == "" {
		return
	}
	if _, exists := os.LookupEnv(key); exists {
		return
	}
	_ = os.Setenv(key, value)
}
