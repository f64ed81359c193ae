package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		SecretKey                string `yaml:"secret_key"`
		Algorithm                string `yaml:"algorithm"`
		AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`
		BcryptCost               int    `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	RateLimit struct {
		Requests      int   `yaml:"requests"`
		WindowSeconds int64 `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
}

// LoadConfig reads configuration from the specified YAML file. Secrets may be
// supplied or overridden through the environment (optionally via a .env file):
// DATABASE_URL, SECRET_KEY and SERVER_PORT take precedence over the file.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if v := getEnv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := getEnv("SECRET_KEY"); v != "" {
		config.Auth.SecretKey = v
	}
	if v := getEnv("SERVER_PORT"); v != "" {
		config.Server.Port = v
	}

	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}
	if config.Auth.Algorithm == "" {
		config.Auth.Algorithm = "HS256"
	}
	if config.Auth.AccessTokenExpireMinutes <= 0 {
		config.Auth.AccessTokenExpireMinutes = 30
	}
	if config.RateLimit.Requests <= 0 {
		config.RateLimit.Requests = 20
	}
	if config.RateLimit.WindowSeconds <= 0 {
		config.RateLimit.WindowSeconds = 60
	}

	if config.Database.URL == "" {
		return nil, fmt.Errorf("database url is required")
	}
	if config.Auth.SecretKey == "" {
		return nil, fmt.Errorf("auth secret key is required")
	}

	return config, nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
