// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL: either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Source site
	BaseURL        string
	UserAgent      string
	SourceEncoding string
	ScrapeDelay    time.Duration
	FetchTimeout   time.Duration
	FetchRetries   int

	// Validation / extraction strictness
	StrictValidation bool
	RequireDistance  bool
	StrictTables     bool

	// JWT signing secret (required by the API server only).
	JWTSecret  string
	AdminUsers []string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg, err := FromViper(newViper())
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBUser:           v.GetString("DB_USER"),
		DBPass:           v.GetString("DB_PASS"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		BaseURL:          strings.TrimRight(v.GetString("BASE_URL"), "/"),
		UserAgent:        v.GetString("USER_AGENT"),
		SourceEncoding:   v.GetString("SOURCE_ENCODING"),
		ScrapeDelay:      v.GetDuration("SCRAPE_DELAY"),
		FetchTimeout:     v.GetDuration("FETCH_TIMEOUT"),
		FetchRetries:     v.GetInt("FETCH_RETRIES"),
		StrictValidation: v.GetBool("STRICT_VALIDATION"),
		RequireDistance:  v.GetBool("REQUIRE_DISTANCE"),
		StrictTables:     v.GetBool("STRICT_TABLES"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		AdminUsers:       splitTrimmed(v.GetString("ADMIN_USERS")),
		Debug:            v.GetBool("DEBUG"),
		Port:             v.GetString("PORT"),
		TLSDomains:       splitTrimmed(v.GetString("TLS_DOMAINS")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_USER", "keiba")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "keiba")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("BASE_URL", "https://db.netkeiba.com")
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36")
	v.SetDefault("SOURCE_ENCODING", "euc-jp")
	v.SetDefault("SCRAPE_DELAY", "1s")
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("FETCH_RETRIES", 3)
	v.SetDefault("STRICT_VALIDATION", false)
	v.SetDefault("REQUIRE_DISTANCE", false)
	v.SetDefault("STRICT_TABLES", false)
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// IsAdmin reports whether username is listed in ADMIN_USERS.
func (c *Config) IsAdmin(username string) bool {
	u := strings.ToLower(strings.TrimSpace(username))
	for _, a := range c.AdminUsers {
		if u == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// RequireJWT fails fast when the API server is started without a signing key.
func (c *Config) RequireJWT() {
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && c.DBPass == "" {
		return errors.New("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.ScrapeDelay < 0 {
		return fmt.Errorf("config: SCRAPE_DELAY must not be negative, got %s", c.ScrapeDelay)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("config: FETCH_RETRIES must not be negative, got %d", c.FetchRetries)
	}
	if c.BaseURL == "" {
		return errors.New("config: BASE_URL must not be empty")
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env. OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
