package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (FINEX_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (FINEX_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Session     SessionConfig
	Coupons     CouponConfig
	Dashboard   DashboardConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// SessionConfig controls admin session tokens and cookies.
type SessionConfig struct {
	JWTSecret     string        `usage:"HMAC secret for admin session tokens (FINEX_SESSION_JWT_SECRET)" flag:"jwt-secret"`
	TTL           time.Duration `default:"168h" usage:"Admin session lifetime"`
	SecureCookies bool          `default:"true" usage:"Mark session cookies Secure" flag:"secure-cookies"`
}

// CouponConfig controls the coupon code filter.
type CouponConfig struct {
	Refresh time.Duration `default:"5m" usage:"How often the known-code filter is rebuilt from the store" flag:"coupon-refresh"`
}

// DashboardConfig controls the admin dashboard aggregation.
type DashboardConfig struct {
	RecentOrders int `default:"5" usage:"Recent orders shown on the dashboard" flag:"recent-orders"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "FINEX",
		Files:     []string{"config.yaml", "/etc/finexpress/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set FINEX_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Session.JWTSecret == "" {
		return nil, errors.New("JWT secret is required: set FINEX_SESSION_JWT_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) with standard names like DATABASE_URL and PORT
// onto the FINEX_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
