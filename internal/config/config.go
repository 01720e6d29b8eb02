// Package config loads process configuration from environment
// variables (with an optional config file override), grounded on the
// SetDefault+AutomaticEnv+Unmarshal viper pattern.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every value the server and solver need at startup.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	SolverWallClockSeconds int     `mapstructure:"SOLVER_WALL_CLOCK_SECONDS"`
	DefaultAlpha           float64 `mapstructure:"DEFAULT_ALPHA"`
	DefaultMaxPatientsDay  int     `mapstructure:"DEFAULT_MAX_PATIENTS_PER_DAY"`
	DefaultLambdaParam     float64 `mapstructure:"DEFAULT_LAMBDA_PARAM"`
	DefaultLambdaFacility  float64 `mapstructure:"DEFAULT_LAMBDA_FACILITY"`
	DefaultLambdaBunching  float64 `mapstructure:"DEFAULT_LAMBDA_BUNCHING"`
	DefaultVisitWindow     int     `mapstructure:"DEFAULT_FACILITY_VISIT_WINDOW"`

	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	SMTPFrom string `mapstructure:"SMTP_FROM"`
}

// Load reads configuration from the environment, an optional config
// file named "fieldsched" (yaml/json/toml, any path viper discovers),
// and the defaults below, in that order of decreasing precedence.
func Load() (*Config, error) {
	viper.SetConfigName("fieldsched")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "")

	viper.SetDefault("SOLVER_WALL_CLOCK_SECONDS", 25)
	viper.SetDefault("DEFAULT_ALPHA", 0.05)
	viper.SetDefault("DEFAULT_MAX_PATIENTS_PER_DAY", 15)
	viper.SetDefault("DEFAULT_LAMBDA_PARAM", 0.0)
	viper.SetDefault("DEFAULT_LAMBDA_FACILITY", 0.1)
	viper.SetDefault("DEFAULT_LAMBDA_BUNCHING", 0.1)
	viper.SetDefault("DEFAULT_FACILITY_VISIT_WINDOW", 10)

	viper.SetDefault("SMTP_PORT", 587)

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }
