// Package config loads application configuration from environment
// variables. A .env file in the working directory is read first when
// present; variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mail service modes.
const (
	MailModeLocal  = "local"
	MailModeResend = "resend"
)

const pageSizePrefix = "PAGE_SIZE_"

// Config holds all runtime configuration values.
type Config struct {
	Env  string // application environment (dev, test, prod)
	Port string // HTTP port to listen on

	DBUser    string
	DBPass    string // may be empty
	DBHost    string
	DBPort    string
	DBName    string
	DBMigrate bool // apply embedded migrations on start up

	JWTSecret        string // signs access and reset tokens
	JWTRefreshSecret string // signs refresh tokens
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	ResetTTL         time.Duration
	BcryptCost       int

	PageSizeDefault int
	PageSizes       map[string]int // PAGE_SIZE_<ENTITY> overrides keyed by upper-cased entity

	ResetPasswordURL string

	Mail                MailConfig
	RabbitURL           string // empty disables the queue; mail is sent inline
	MailConsumerEnabled bool   // run the reset mail consumer inside the server
}

// MailConfig selects and configures the mail sender.
type MailConfig struct {
	Mode         string
	From         string
	AppName      string
	ResendAPIKey string
}

// Load reads the configuration. Every missing or malformed variable is
// reported in the returned error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	var l loader
	cfg := Config{
		Env:              l.must("APP_ENV"),
		Port:             l.must("APP_PORT"),
		DBUser:           l.must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           l.must("DB_HOST"),
		DBPort:           l.must("DB_PORT"),
		DBName:           l.must("DB_NAME"),
		DBMigrate:        envBool("DB_MIGRATE", true),
		JWTSecret:        l.must("JWT_SECRET"),
		JWTRefreshSecret: l.must("JWT_REFRESH_SECRET"),
		AccessTTL:        time.Duration(l.intOr("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
		RefreshTTL:       time.Duration(l.intOr("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
		ResetTTL:         time.Duration(l.intOr("RESET_TOKEN_TTL_MIN", 15)) * time.Minute,
		BcryptCost:       l.intOr("BCRYPT_COST", 10),
		PageSizeDefault:  l.intOr("PAGE_SIZE_DEFAULT", 10),
		PageSizes:        l.pageSizes(),
		ResetPasswordURL: envStr("RESET_PASSWORD_URL", "https://yourapp.com/reset-password"),
		Mail: MailConfig{
			Mode:         strings.ToLower(envStr("MAIL_SERVICE_MODE", MailModeLocal)),
			From:         envStr("MAIL_FROM", "noreply@yourapp.com"),
			AppName:      envStr("APP_NAME", "YourAppName"),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		},
		RabbitURL:           os.Getenv("RABBITMQ_URL"),
		MailConsumerEnabled: envBool("MAIL_CONSUMER_ENABLED", true),
	}

	switch cfg.Mail.Mode {
	case MailModeLocal:
	case MailModeResend:
		if cfg.Mail.ResendAPIKey == "" {
			l.fail("RESEND_API_KEY is required when MAIL_SERVICE_MODE=resend")
		}
	default:
		l.fail(fmt.Sprintf("invalid MAIL_SERVICE_MODE: %q", cfg.Mail.Mode))
	}
	if cfg.PageSizeDefault < 1 {
		l.fail("PAGE_SIZE_DEFAULT must be positive")
	}

	if err := errors.Join(l.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSNAddr is host:port of the database, used in logs.
func (c Config) DSNAddr() string { return c.DBHost + ":" + c.DBPort }

// loader accumulates errors so Load can report them all at once.
type loader struct {
	errs []error
}

func (l *loader) fail(msg string) { l.errs = append(l.errs, errors.New(msg)) }

// must retrieves a required environment variable.
func (l *loader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		l.fail("missing required env var: " + key)
	}
	return v
}

// intOr parses an optional integer variable.
func (l *loader) intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		l.fail(fmt.Sprintf("invalid int for %s: %q", key, s))
		return def
	}
	return n
}

func (l *loader) pageSizes() map[string]int {
	out := map[string]int{}
	for _, kv := range os.Environ() {
		key, val, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, pageSizePrefix) || key == "PAGE_SIZE_DEFAULT" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			l.fail(fmt.Sprintf("invalid page size for %s: %q", key, val))
			continue
		}
		out[strings.TrimPrefix(key, pageSizePrefix)] = n
	}
	return out
}
