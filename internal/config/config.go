package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	GinMode   string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"` // json|console

	StoreDriver string `envconfig:"STORE_DRIVER" default:"file"` // file|postgres
	DataFile    string `envconfig:"DATA_FILE" default:"./data/data.json"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	EmailProvider  string `envconfig:"EMAIL_PROVIDER" default:"smtp"` // sendgrid|smtp|ses
	FromAddress    string `envconfig:"EMAIL_FROM_ADDRESS"`
	FromName       string `envconfig:"EMAIL_FROM_NAME" default:"SwagPlan"`
	SendGridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	SMTPHost       string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	AWSRegion      string `envconfig:"AWS_REGION" default:"eu-west-1"`

	ReminderDebug    bool   `envconfig:"REMINDER_DEBUG" default:"false"`
	DebugEmail       string `envconfig:"DEBUG_EMAIL"`
	ReminderSchedule string `envconfig:"REMINDER_SCHEDULE" default:"0 0 8 * * *"`
	TriggerToken     string `envconfig:"REMINDER_TRIGGER_TOKEN"`

	RedisURL   string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL"`

	AdminEmails []string `envconfig:"ADMIN_EMAILS"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects combinations the application cannot run with
func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case "file":
		if c.DataFile == "" {
			errs = append(errs, errors.New("DATA_FILE is required for the file store"))
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.EmailProvider {
	case "sendgrid", "smtp", "ses":
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider))
	}

	if c.ReminderDebug && strings.TrimSpace(c.DebugEmail) == "" {
		errs = append(errs, errors.New("REMINDER_DEBUG is enabled but DEBUG_EMAIL is not set"))
	}

	return errors.Join(errs...)
}

// IsAdmin reports whether an email belongs to an operator allowed to trigger sweeps
func (c Config) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

// OAuthEnabled reports whether Google sign-in is configured
func (c Config) OAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}
