package main

import (
	"fmt"
	"strings"

	"trybud/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	Session  SessionConfig     `yaml:"session"`

	Auth AuthConfig `yaml:"auth"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type SessionConfig struct {
	Capacity int `yaml:"capacity"`
}

type AuthConfig struct {
	// DebugMode accepts any non-empty wallet address. Never enable in production.
	DebugMode bool `yaml:"debugMode"`
}

// LoadConfig reads config.yaml from dir (the working directory when empty).
// APP_-prefixed environment variables override file values.
func LoadConfig(dir string) (*Config, error) {
	if dir == "" {
		dir = configPath
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(dir)
	v.SetConfigType(configFormat)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.driver", repository.DriverPostgres)
	v.SetDefault("logLevel", "info")

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
