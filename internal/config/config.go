// Package config provides application configuration loading and management.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port             string `mapstructure:"PORT"`
	Env              string `mapstructure:"APP_ENV"`
	DBDriver         string `mapstructure:"DB_DRIVER"`
	DBDSN            string `mapstructure:"DB_DSN"`
	SessionSecret    string `mapstructure:"SESSION_SECRET"`
	RedisURL         string `mapstructure:"REDIS_URL"`
	TemplateDir      string `mapstructure:"TEMPLATE_DIR"`
	StaticDir        string `mapstructure:"STATIC_DIR"`
	SMTPHost         string `mapstructure:"SMTP_HOST"`
	SMTPPort         int    `mapstructure:"SMTP_PORT"`
	SMTPUsername     string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword     string `mapstructure:"SMTP_PASSWORD"`
	ContactRecipient string `mapstructure:"CONTACT_RECIPIENT"`
	TracingEnabled   bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter  string `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint     string `mapstructure:"OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables are enough to run.
	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Loaded configuration file: %s", viper.ConfigFileUsed())
	}

	// Defaults double as the set of known keys so AutomaticEnv picks them up.
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "inkwell.db")
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("TEMPLATE_DIR", "./web/templates")
	viper.SetDefault("STATIC_DIR", "./web/static")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("CONTACT_RECIPIENT", "")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present. Missing
// secrets fail startup rather than degrading at request time.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required (generate one with `openssl rand -base64 32`)")
	}
	key, err := base64.StdEncoding.DecodeString(c.SessionSecret)
	if err != nil || len(key) != 32 {
		return errors.New("SESSION_SECRET must be a base64-encoded 32-byte key")
	}

	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}

	if c.IsProduction() && !c.MailConfigured() {
		return errors.New("SMTP_HOST, SMTP_USERNAME, SMTP_PASSWORD and CONTACT_RECIPIENT are required in production")
	}
	if c.SMTPHost != "" && (c.SMTPUsername == "" || c.SMTPPassword == "" || c.ContactRecipient == "") {
		return errors.New("SMTP_USERNAME, SMTP_PASSWORD and CONTACT_RECIPIENT are required when SMTP_HOST is set")
	}

	return nil
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// MailConfigured reports whether outbound mail is fully configured.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "" && c.ContactRecipient != ""
}
