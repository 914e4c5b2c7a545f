// Package config reads game-pulse settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the CLI.
type Config struct {
	DataPath        string // directory for the SQLite export
	OutputDir       string // static site output directory
	Port            string
	RebuildSchedule string // cron spec (with seconds) for serve-mode rebuilds, empty disables
	Site            SiteConfig
	Email           EmailConfig
}

// SiteConfig is the page metadata.
type SiteConfig struct {
	Title       string
	Description string
	BaseURL     string
	Locale      string
}

// EmailConfig contains configuration for the digest email.
type EmailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
}

// Enabled reports whether enough is configured to dial an SMTP server.
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.RecipientEmail != ""
}

// MaskedPassword returns the password with its middle hidden, for logs.
func (e EmailConfig) MaskedPassword() string {
	switch p := e.SenderPassword; {
	case p == "":
		return ""
	case len(p) > 8:
		return p[:4] + "..." + p[len(p)-4:]
	default:
		return "***"
	}
}

const (
	defaultDataPath    = "./data"
	defaultOutputDir   = "./public"
	defaultPort        = "8080"
	defaultSMTPPort    = 587
	defaultSMTPUser    = "api"
	defaultTitle       = "Best games of 2026: a guide to the most anticipated releases"
	defaultDescription = "The most anticipated video games of 2026: quarterly release plans, genre trends, platform balance and an interactive filter."
	defaultBaseURL     = "http://localhost:8080"
	defaultLocale      = "en_US"
)

// LoadDotEnv loads .env files into the process environment. A missing
// default .env is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			return nil
		}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load builds a Config from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		DataPath:        getenv("DATA_PATH", defaultDataPath),
		OutputDir:       getenv("OUTPUT_DIR", defaultOutputDir),
		Port:            getenv("PORT", defaultPort),
		RebuildSchedule: strings.TrimSpace(os.Getenv("REBUILD_SCHEDULE")),
		Site: SiteConfig{
			Title:       getenv("SITE_TITLE", defaultTitle),
			Description: getenv("SITE_DESCRIPTION", defaultDescription),
			BaseURL:     strings.TrimRight(getenv("SITE_BASE_URL", defaultBaseURL), "/"),
			Locale:      getenv("SITE_LOCALE", defaultLocale),
		},
		Email: EmailConfig{
			SMTPHost:       os.Getenv("EMAIL_SMTP_HOST"),
			SMTPPort:       defaultSMTPPort,
			SMTPUsername:   getenv("EMAIL_SMTP_USERNAME", defaultSMTPUser),
			SenderEmail:    os.Getenv("EMAIL_SENDER"),
			SenderPassword: os.Getenv("EMAIL_PASSWORD"),
			RecipientEmail: os.Getenv("EMAIL_RECIPIENT"),
		},
	}

	if portStr := os.Getenv("EMAIL_SMTP_PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil || p <= 0 {
			return Config{}, fmt.Errorf("invalid EMAIL_SMTP_PORT %q", portStr)
		}
		cfg.Email.SMTPPort = p
	}
	if err := ValidatePort(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("invalid PORT: %w", err)
	}

	return cfg, nil
}

// ValidatePort returns an error unless port is a TCP port number in 1-65535.
func ValidatePort(port string) error {
	if !govalidator.IsPort(port) {
		return fmt.Errorf("%q is not a port number", port)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
