package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=24h"`
	AcceptCascade bool          `env:"ACCEPT_CASCADE, default=false"`
	CORSOrigins   []string      `env:"CORS_ORIGINS,   default=*"`

	// TrustedProxies lists CIDRs whose X-Forwarded-For header is honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bookquest"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RateLimitConfig bounds attempts on the credential endpoints per client IP.
type RateLimitConfig struct {
	Limit  int           `env:"AUTH_RATE_LIMIT,  default=20"`
	Window time.Duration `env:"AUTH_RATE_WINDOW, default=15m"`
}

type CatalogConfig struct {
	BaseURL  string        `env:"ISBNDB_BASE_URL,   default=https://api2.isbndb.com"`
	APIKey   string        `env:"ISBNDB_API_KEY"`
	Timeout  time.Duration `env:"ISBNDB_TIMEOUT,    default=10s"`
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL, default=1h"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.RateLimit.Limit <= 0 || cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("config: AUTH_RATE_LIMIT and AUTH_RATE_WINDOW must be positive")
	}
	if _, err := cfg.ProxyNets(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProxyNets parses TrustedProxies into networks.
func (c *Config) ProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, cidr := range c.TrustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid TRUSTED_PROXIES entry %q: %w", cidr, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}
