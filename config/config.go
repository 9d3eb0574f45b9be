// Package config loads the immutable run configuration from a YAML file
// or CLI flags. Nothing in the rest of the codebase reads flags or
// globals; everything is threaded from the Config value.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported price providers.
const (
	ProviderStooq       = "stooq"
	ProviderBinance     = "binance"
	ProviderBybit       = "bybit"
	ProviderHyperliquid = "hyperliquid"
)

const (
	defaultThreshold   = "5.0"
	defaultConcurrency = 4
	defaultTimeout     = 10 * time.Second
	defaultWALDir      = "./wal/snapshots"
	defaultTrendDays   = 30
	defaultSMAPeriod   = 5
)

// EmailSettings configures the SMTP notifier. The password is read from
// the environment variable named by PasswordEnv, never stored in the
// file.
type EmailSettings struct {
	Host        string
	Port        int
	Username    string
	PasswordEnv string
	From        string
	To          []string
}

// Enabled reports whether email delivery is configured at all.
func (e EmailSettings) Enabled() bool {
	return e.Host != "" && len(e.To) > 0
}

// Config is the immutable configuration of one tracker run.
type Config struct {
	HoldingsFile     string
	Provider         string
	SymbolSuffix     string
	AlertThreshold   decimal.Decimal
	FetchConcurrency int
	FetchTimeout     time.Duration
	WALDir           string
	WebAddr          string
	TLSDomains       []string
	TLSCacheDir      string
	TrendDays        int
	SMAPeriod        int
	Email            EmailSettings
}

type emailTmp struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Username    string   `yaml:"username"`
	PasswordEnv string   `yaml:"password_env"`
	From        string   `yaml:"from"`
	To          []string `yaml:"to"`
}

type configTmp struct {
	HoldingsFile     string        `yaml:"holdings_file"`
	Provider         string        `yaml:"provider"`
	SymbolSuffix     string        `yaml:"symbol_suffix,omitempty"`
	AlertThreshold   string        `yaml:"alert_threshold,omitempty"`
	FetchConcurrency int           `yaml:"fetch_concurrency,omitempty"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout,omitempty"`
	WALDir           string        `yaml:"wal_dir,omitempty"`
	WebAddr          string        `yaml:"web_addr,omitempty"`
	TLSDomains       []string      `yaml:"tls_domains,omitempty"`
	TLSCacheDir      string        `yaml:"tls_cache_dir,omitempty"`
	TrendDays        int           `yaml:"trend_days,omitempty"`
	SMAPeriod        int           `yaml:"sma_period,omitempty"`
	Email            emailTmp      `yaml:"email,omitempty"`
}

// Get reads configuration from the file named by -config, falling back
// to CLI flags when the flag is empty.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	holdings := flag.String("holdings", "portfolio.yaml", "path to the portfolio holdings file")
	provider := flag.String("provider", ProviderStooq, "price provider: stooq, binance, bybit or hyperliquid")
	threshold := flag.String("threshold", defaultThreshold, "day-change percent that triggers an alert")
	flag.Parse()

	if *configPath != "" {
		return FromFile(*configPath)
	}

	t, err := decimal.NewFromString(*threshold)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --threshold provided, --threshold=%s", *threshold)
	}

	cfg := Config{
		HoldingsFile:   *holdings,
		Provider:       *provider,
		AlertThreshold: t,
	}
	return withDefaults(cfg)
}

// FromFile reads and validates a YAML configuration file.
func FromFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, err
	}

	threshold := tmp.AlertThreshold
	if threshold == "" {
		threshold = defaultThreshold
	}
	t, err := decimal.NewFromString(threshold)
	if err != nil {
		return Config{}, fmt.Errorf("invalid alert_threshold %q in %s", tmp.AlertThreshold, path)
	}

	cfg := Config{
		HoldingsFile:     tmp.HoldingsFile,
		Provider:         tmp.Provider,
		SymbolSuffix:     tmp.SymbolSuffix,
		AlertThreshold:   t,
		FetchConcurrency: tmp.FetchConcurrency,
		FetchTimeout:     tmp.FetchTimeout,
		WALDir:           tmp.WALDir,
		WebAddr:          tmp.WebAddr,
		TLSDomains:       tmp.TLSDomains,
		TLSCacheDir:      tmp.TLSCacheDir,
		TrendDays:        tmp.TrendDays,
		SMAPeriod:        tmp.SMAPeriod,
		Email: EmailSettings{
			Host:        tmp.Email.Host,
			Port:        tmp.Email.Port,
			Username:    tmp.Email.Username,
			PasswordEnv: tmp.Email.PasswordEnv,
			From:        tmp.Email.From,
			To:          tmp.Email.To,
		},
	}
	return withDefaults(cfg)
}

func withDefaults(cfg Config) (Config, error) {
	if cfg.HoldingsFile == "" {
		cfg.HoldingsFile = "portfolio.yaml"
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderStooq
	}
	switch cfg.Provider {
	case ProviderStooq, ProviderBinance, ProviderBybit, ProviderHyperliquid:
	default:
		return Config{}, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
	if !cfg.AlertThreshold.IsPositive() {
		return Config{}, fmt.Errorf("alert threshold must be positive, got %s", cfg.AlertThreshold)
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultConcurrency
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultTimeout
	}
	if cfg.WALDir == "" {
		cfg.WALDir = defaultWALDir
	}
	if cfg.TrendDays <= 0 {
		cfg.TrendDays = defaultTrendDays
	}
	if cfg.SMAPeriod <= 0 {
		cfg.SMAPeriod = defaultSMAPeriod
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	return cfg, nil
}
