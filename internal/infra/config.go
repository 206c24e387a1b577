package infra

import (
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/boetepot/platform/internal/domain"
	"github.com/caarlos0/env/v11"
)

// DefaultAdminPassword is the shared admin password the team has always used.
const DefaultAdminPassword = "Mandje123"

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Server
	APIPort   int    `env:"API_PORT" envDefault:"5000"`
	APIPrefix string `env:"API_PREFIX" envDefault:"/api/fines"`

	// Admin login
	AdminPassword      string        `env:"ADMIN_PASSWORD" envDefault:"Mandje123"`
	AdminPasswordHash  string        `env:"ADMIN_PASSWORD_HASH"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	LoginBurst         int           `env:"LOGIN_BURST" envDefault:"5"`
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES" envDefault:"5"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW" envDefault:"15m"`

	// Ledger
	RecentLimit         int    `env:"RECENT_LIMIT" envDefault:"10"`
	DefaultReasonAmount string `env:"DEFAULT_REASON_AMOUNT" envDefault:"5.00"`

	// Seeding
	SeedDemo bool   `env:"SEED_DEMO" envDefault:"true"`
	SeedFile string `env:"SEED_FILE"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// TrustedProxies lists IPs or CIDRs whose X-Forwarded-For header is honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Observability
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for configuration that cannot work or must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to keep the default admin password (local dev only).
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT %d is out of range", c.APIPort)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/', got %q", c.APIPrefix)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("RECENT_LIMIT must be positive, got %d", c.RecentLimit)
	}
	if _, err := c.ReasonDefault(); err != nil {
		return err
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	if c.AdminPasswordHash == "" && c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.AdminPasswordHash == "" && c.AdminPassword == DefaultAdminPassword {
		return fmt.Errorf("ADMIN_PASSWORD is set to the well-known default; set a new password or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	return nil
}

// ReasonDefault parses DEFAULT_REASON_AMOUNT.
func (c *Config) ReasonDefault() (domain.Amount, error) {
	a, err := domain.ParseAmount(c.DefaultReasonAmount)
	if err != nil {
		return domain.Amount{}, fmt.Errorf("DEFAULT_REASON_AMOUNT: %w", err)
	}
	if err := a.Validate(); err != nil {
		return domain.Amount{}, fmt.Errorf("DEFAULT_REASON_AMOUNT: %w", err)
	}
	return a, nil
}

// TrustedProxyPrefixes parses TRUSTED_PROXIES. A bare IP becomes a single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// SlogLevel maps LOG_LEVEL onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
