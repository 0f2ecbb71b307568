package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, read from the environment.
// Listing schedules live in a separate YAML file (see LoadListings).
type Config struct {
	ListenAddr  string
	DatabaseURL string
	LogLevel    string

	SessionHashKey  []byte
	SessionBlockKey []byte
	CredEncKey      []byte // 32 bytes for AES-256-GCM

	// TriggerToken guards the POST trigger endpoints.
	TriggerToken string

	// iGMS booking provider. IgmsToken is the fallback used when no host
	// account row exists in the database.
	IgmsBaseURL string
	IgmsToken   string

	// Tomorrow.io weather provider and the site the forecast is for.
	WeatherBaseURL string
	WeatherAPIKey  string
	SiteLat        float64
	SiteLon        float64
	SnowAlertIn    float64

	// Site-local zone for all rule times, occurrences and reservations.
	SiteTZ *time.Location

	ListingsFile string

	// Cron expressions for the built-in triggers; empty disables one.
	AlertCron string
	SnowCron  string

	// System-events mailer (error reports, snow notices).
	AppName            string
	MailerHost         string
	MailerPort         int
	MailerUser         string
	MailerPass         string
	SysEventsSender    string
	SysEventsRecipient string
}

// FromEnv builds the configuration from the environment, loading a local
// .env file first when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		TriggerToken:   strings.TrimSpace(os.Getenv("TRIGGER_TOKEN")),
		IgmsBaseURL:    getenv("IGMS_BASE_URL", "https://www.igms.com/api"),
		IgmsToken:      strings.TrimSpace(os.Getenv("IGMS_TOKEN")),
		WeatherBaseURL: getenv("WEATHER_BASE_URL", "https://api.tomorrow.io"),
		WeatherAPIKey:  strings.TrimSpace(os.Getenv("WEATHER_API_KEY")),
		ListingsFile:   getenv("LISTINGS_FILE", "listings.yaml"),
		AlertCron:      getenv("ALERT_CRON", "0 * * * *"),
		SnowCron:       getenv("SNOW_CRON", ""),
		AppName:        getenv("APP_NAME", "sweepalert"),
		MailerHost:     getenv("MAILER_HOST", "smtp-relay.brevo.com"),
		MailerUser:     strings.TrimSpace(os.Getenv("MAILER_USER")),
		MailerPass:     strings.TrimSpace(os.Getenv("MAILER_PASS")),
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TriggerToken == "" {
		return cfg, fmt.Errorf("TRIGGER_TOKEN is required")
	}
	cfg.SysEventsSender = getenv("SYS_EVENTS_SENDER", "system@localhost")
	cfg.SysEventsRecipient = strings.TrimSpace(os.Getenv("SYS_EVENTS_RECIPIENT"))

	var err error
	if cfg.MailerPort, err = envInt("MAILER_PORT", 587); err != nil {
		return cfg, err
	}
	if cfg.SiteLat, err = envFloat("SITE_LAT", 40.0379); err != nil {
		return cfg, err
	}
	if cfg.SiteLon, err = envFloat("SITE_LON", -76.3055); err != nil {
		return cfg, err
	}
	if cfg.SnowAlertIn, err = envFloat("SNOW_ALERT_INCHES", 2); err != nil {
		return cfg, err
	}

	tz := getenv("SITE_TZ", "America/New_York")
	cfg.SiteTZ, err = time.LoadLocation(tz)
	if err != nil {
		return cfg, fmt.Errorf("SITE_TZ: %w", err)
	}

	if cfg.SessionHashKey, err = mustB64("SESSION_HASH_KEY"); err != nil {
		return cfg, err
	}
	if cfg.SessionBlockKey, err = mustB64("SESSION_BLOCK_KEY"); err != nil {
		return cfg, err
	}
	if cfg.CredEncKey, err = mustB64("CRED_ENC_KEY"); err != nil {
		return cfg, err
	}
	if len(cfg.CredEncKey) != 32 {
		return cfg, fmt.Errorf("CRED_ENC_KEY must decode to 32 bytes (got %d)", len(cfg.CredEncKey))
	}

	return cfg, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envFloat(k string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

func mustB64(k string) ([]byte, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil, fmt.Errorf("%s is required (base64)", k)
	}
	if b, err := base64.StdEncoding.DecodeString(v); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}
