package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	App       AppConfig
	Payment   PaymentConfig
	Mail      MailConfig
	Telegram  TelegramConfig
	Telemetry TelemetryConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"event_portal"`
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"event_portal.db"`
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string   `env:"SERVER_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	FrontendURL    string   `env:"FRONTEND_URL"`
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	TicketPrice   string        `env:"PARTICIPANT_TICKET_PRICE" envDefault:"1800"`
	OTPTTL        time.Duration `env:"OTP_TTL" envDefault:"10m"`
	LiveStateFile string        `env:"LIVE_STATE_FILE"`
	EventName     string        `env:"EVENT_NAME" envDefault:"Event Portal"`

	// Bootstrap super admin, created at startup when no SuperAdmin exists.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Super Admin"`
}

// PaymentConfig holds payment gateway settings
type PaymentConfig struct {
	// The stub gateway issues local orders and must be selected explicitly.
	Provider  string `env:"PAYMENT_PROVIDER" envDefault:"razorpay"`
	KeyID     string `env:"PAYMENT_KEY_ID"`
	KeySecret string `env:"PAYMENT_KEY_SECRET"`
	Currency  string `env:"PAYMENT_CURRENCY" envDefault:"INR"`
}

// MailConfig holds SMTP settings. An empty host selects the log mailer.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`
}

// TelegramConfig holds admin alert settings
type TelegramConfig struct {
	BotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID int64  `env:"TELEGRAM_ADMIN_CHAT_ID"`
}

// TelemetryConfig holds tracing settings
type TelemetryConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"event-portal"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and cross-field constraints
func (c *Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if _, err := decimal.NewFromString(c.App.TicketPrice); err != nil {
		return fmt.Errorf("PARTICIPANT_TICKET_PRICE is not a number: %w", err)
	}

	if c.Payment.KeySecret == "" {
		return fmt.Errorf("PAYMENT_KEY_SECRET is required")
	}
	switch strings.ToLower(c.Payment.Provider) {
	case "stub":
	case "razorpay":
		if c.Payment.KeyID == "" {
			return fmt.Errorf("PAYMENT_KEY_ID is required for razorpay")
		}
	default:
		return fmt.Errorf("unknown payment provider: %s", c.Payment.Provider)
	}

	if c.App.AdminEmail != "" && len(c.App.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver: %s", c.Database.Driver)
	}

	return nil
}

// ParticipantTicketPrice returns the configured base price for participants
func (c *Config) ParticipantTicketPrice() decimal.Decimal {
	return decimal.RequireFromString(c.App.TicketPrice)
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}
