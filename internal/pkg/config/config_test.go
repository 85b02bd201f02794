package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.AcceptCascade {
		t.Error("expected accept cascade disabled by default")
	}
	if cfg.Mongo.Database != "bookquest" {
		t.Errorf("expected bookquest database, got %q", cfg.Mongo.Database)
	}
	if cfg.RateLimit.Limit != 20 || cfg.RateLimit.Window != 15*time.Minute {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Catalog.BaseURL != "https://api2.isbndb.com" || cfg.Catalog.Timeout != 10*time.Second {
		t.Errorf("unexpected catalog defaults: %+v", cfg.Catalog)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       "s3cret",
		"ENV":              "production",
		"TOKEN_TTL":        "2h",
		"ACCEPT_CASCADE":   "true",
		"CORS_ORIGINS":     "https://a.example,https://b.example",
		"AUTH_RATE_LIMIT":  "5",
		"AUTH_RATE_WINDOW": "1m",
		"ISBNDB_API_KEY":   "key",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.IsDevelopment() || cfg.TokenTTL != 2*time.Hour || !cfg.AcceptCascade {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.RateLimit.Limit != 5 || cfg.RateLimit.Window != time.Minute {
		t.Errorf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if cfg.Catalog.APIKey != "key" {
		t.Errorf("expected api key to load")
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_RejectsNonPositiveRateLimit(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"AUTH_RATE_LIMIT": "0",
	}))
	if err == nil {
		t.Fatal("expected error for zero rate limit")
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"TRUSTED_PROXIES": "10.0.0.0/8,192.168.1.1/32",
	}))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	nets, err := cfg.ProxyNets()
	if err != nil || len(nets) != 2 || nets[0].String() != "10.0.0.0/8" {
		t.Fatalf("unexpected proxy nets %v, %v", nets, err)
	}

	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"TRUSTED_PROXIES": "not-a-cidr",
	})); err == nil {
		t.Fatal("expected error for malformed TRUSTED_PROXIES")
	}
}
