// Package config loads application configuration from an optional YAML file
// with environment variable overrides. Environment always wins, which keeps
// container deployments working without a config file at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// ConnString, when set, is used verbatim and the individual fields are
	// ignored
	ConnString string `yaml:"conn_string"`
}

// Config is the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	// HolidaysFile points to a YAML holiday calendar used for business-day
	// counting in daily plans. Empty means no known holidays.
	HolidaysFile string `yaml:"holidays_file"`
}

// Default returns the configuration used when no file and no environment
// overrides are present
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "nisafolio",
			SSLMode:  "disable",
		},
	}
}

// Load reads the YAML file at path (when non-empty) over the defaults, then
// applies environment variable overrides
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers environment variables over the loaded values
func (c *Config) applyEnv() {
	setFromEnv(&c.Database.ConnString, "DB_CONN_STR")
	setFromEnv(&c.Database.Host, "DB_HOST")
	setFromEnv(&c.Database.Port, "DB_PORT")
	setFromEnv(&c.Database.User, "DB_USER")
	setFromEnv(&c.Database.Password, "DB_PASSWORD")
	setFromEnv(&c.Database.Name, "DB_NAME")
	setFromEnv(&c.Database.SSLMode, "DB_SSLMODE")
	setFromEnv(&c.HolidaysFile, "NISAFOLIO_HOLIDAYS")
}

func setFromEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// DSN returns the connection string for database/sql
func (d DatabaseConfig) DSN() string {
	if d.ConnString != "" {
		return d.ConnString
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
