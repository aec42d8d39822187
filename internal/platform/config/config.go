// Package config builds the process-wide configuration once at startup.
// The resulting value is immutable and passed by injection; request handlers
// never read ambient environment state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mode decides which identity strategies are permitted.
type Mode string

const (
	// ModeDev allows the demo header fallback (x-role, x-company-id).
	ModeDev Mode = "DEV"
	// ModeJWTOnly requires a bearer token on every protected route.
	ModeJWTOnly Mode = "JWT_ONLY"
)

// DevFallbackSecret keeps local development running without env setup.
// Validate refuses to start production with this value.
const DevFallbackSecret = "dev-secret-change-me"

// AdminUser is the env-seeded bootstrap account used by the login endpoint
// until a real user store exists.
type AdminUser struct {
	Email     string
	Password  string
	Role      string
	CompanyID string
}

// Config is the process configuration. Built once by Load, validated once by
// Validate, then treated as read-only.
type Config struct {
	Addr       string
	Env        string
	Production bool
	Mode       Mode

	JWTSecret string
	TokenTTL  time.Duration

	DataDir string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	LockoutThreshold int
	LockoutWindow    time.Duration

	// RedisAddr switches the login lockout store from in-process memory to
	// Redis when set. Empty means single-instance deployment.
	RedisAddr string

	Admin AdminUser
}

// IsTokenOnly reports whether demo headers are disabled.
func (c Config) IsTokenOnly() bool {
	return c.Mode == ModeJWTOnly
}

// Load reads configuration from the environment. A .env file, if present, is
// merged in first (without overriding real env vars).
func Load() Config {
	_ = godotenv.Load()

	env := strings.ToLower(getEnv("APP_ENV", "development"))

	return Config{
		Addr:       getEnv("WA_ADDR", ":8080"),
		Env:        env,
		Production: env == "production",
		Mode:       Mode(strings.ToUpper(getEnv("AUTH_MODE", string(ModeDev)))),

		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:  getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		DataDir: getEnv("WA_DATA_DIR", "data/tenants"),

		RateLimitEnabled: getEnv("WA_RATE_LIMIT", "true") != "false",
		RateLimitRPS:     getFloat("WA_RATE_LIMIT_RPS", 20),
		RateLimitBurst:   getInt("WA_RATE_LIMIT_BURST", 40),

		LockoutThreshold: getInt("WA_LOCKOUT_THRESHOLD", 5),
		LockoutWindow:    getDuration("WA_LOCKOUT_WINDOW", 15*time.Minute),

		RedisAddr: getEnv("REDIS_ADDR", ""),

		Admin: AdminUser{
			Email:     getEnv("WA_ADMIN_EMAIL", "admin@workaccess.local"),
			Password:  getEnv("WA_ADMIN_PASSWORD", "admin"),
			Role:      getEnv("WA_ADMIN_ROLE", "hr"),
			CompanyID: getEnv("WA_ADMIN_COMPANY_ID", "demo-company"),
		},
	}
}

// Validate enforces the startup invariants. Any violation is fatal: the
// process must not come up with a reachable misconfiguration.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDev, ModeJWTOnly:
	default:
		return fmt.Errorf("config: unrecognized AUTH_MODE %q (want DEV or JWT_ONLY)", c.Mode)
	}

	if c.Production {
		if c.Mode != ModeJWTOnly {
			return fmt.Errorf("config: AUTH_MODE must be JWT_ONLY in production, got %q", c.Mode)
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("config: JWT_SECRET is required in production")
		}
		if c.JWTSecret == DevFallbackSecret {
			return fmt.Errorf("config: JWT_SECRET must not be the dev default in production")
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("config: JWT_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}

// SigningKey returns the effective JWT secret, falling back to the dev
// default outside production. Validate guarantees the fallback path is
// unreachable in production.
func (c Config) SigningKey() string {
	if c.JWTSecret != "" {
		return c.JWTSecret
	}
	return DevFallbackSecret
}

func getEnv(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func getInt(name string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name))); err == nil {
		return v
	}
	return fallback
}

func getFloat(name string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(name)), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(name string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(name))); err == nil {
		return v
	}
	return fallback
}
