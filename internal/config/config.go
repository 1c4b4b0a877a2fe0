package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		BaseURL  string `koanf:"base_url"`
		LogLevel string `koanf:"log_level"`
	} `koanf:"app"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Session struct {
		CookieName string        `koanf:"cookie_name"`
		Secure     bool          `koanf:"secure"`
		TTL        time.Duration `koanf:"ttl"`
	} `koanf:"session"`

	Checkout struct {
		ShippingCents  int           `koanf:"shipping_cents"`
		TaxRate        float64       `koanf:"tax_rate"`
		Currency       string        `koanf:"currency"`
		IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`
	} `koanf:"checkout"`

	Storage struct {
		Driver       string `koanf:"driver"` // local | s3
		LocalDir     string `koanf:"local_dir"`
		LocalURLBase string `koanf:"local_url_base"`
		S3Region     string `koanf:"s3_region"`
		S3Bucket     string `koanf:"s3_bucket"`
		S3Prefix     string `koanf:"s3_prefix"`
		S3PublicBase string `koanf:"s3_public_base"`
	} `koanf:"storage"`
}

// Load reads base.yaml from pathDir, overlays an optional per-environment file
// and finally POUCH_ env vars (nested keys with __, e.g. POUCH_MYSQL__DSN).
func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// optional: allow missing for local runs
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("POUCH_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "POUCH_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.HTTPAddr == "" {
		c.App.HTTPAddr = ":8080"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "hp_session"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 30 * 24 * time.Hour
	}
	if c.Checkout.ShippingCents == 0 {
		c.Checkout.ShippingCents = 1000
	}
	if c.Checkout.TaxRate == 0 {
		c.Checkout.TaxRate = 0.13
	}
	if c.Checkout.Currency == "" {
		c.Checkout.Currency = "CAD"
	}
	if c.Checkout.IdempotencyTTL == 0 {
		c.Checkout.IdempotencyTTL = 24 * time.Hour
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "local"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "./storage/uploads"
	}
	if c.Storage.LocalURLBase == "" {
		c.Storage.LocalURLBase = "/uploads"
	}
}

func (c Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Checkout.TaxRate < 0 || c.Checkout.TaxRate > 1 {
		return fmt.Errorf("checkout.tax_rate out of range")
	}
	if c.Storage.Driver == "s3" {
		if c.Storage.S3Region == "" || c.Storage.S3Bucket == "" || c.Storage.S3PublicBase == "" {
			return fmt.Errorf("storage: s3_region, s3_bucket and s3_public_base required for s3 driver")
		}
	}
	return nil
}
