package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Asset is one configured dashboard instrument.
type Asset struct {
	Label    string  `yaml:"label"`
	SubLabel string  `yaml:"sub_label"`
	Symbol   string  `yaml:"symbol"`
	Format   string  `yaml:"format"`
	Scale    float64 `yaml:"scale"`
	Note     string  `yaml:"note"`
}

// AssetGroup is one dashboard section (indices, currencies, crypto).
type AssetGroup struct {
	Name   string  `yaml:"name"`
	Assets []Asset `yaml:"assets"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Refresh struct {
		Interval time.Duration `yaml:"interval"`
		OnStart  bool          `yaml:"on_start"`
	} `yaml:"refresh"`
	MarketData struct {
		BaseURL    string        `yaml:"base_url"`
		Range      string        `yaml:"range"`
		Interval   string        `yaml:"interval"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
		RatePerSec float64       `yaml:"rate_per_sec"`
		RateBurst  float64       `yaml:"rate_burst"`
		CacheTTL   time.Duration `yaml:"cache_ttl"`
	} `yaml:"market_data"`
	Analytics struct {
		SMAWindow  int     `yaml:"sma_window"`
		RSIPeriod  int     `yaml:"rsi_period"`
		BandSigmas float64 `yaml:"band_sigmas"`
		Sims       int     `yaml:"sims"`
		Horizon    int     `yaml:"horizon"`
	} `yaml:"analytics"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled     bool     `yaml:"enabled"`
		Brokers     []string `yaml:"brokers"`
		Topic       string   `yaml:"topic"`
		Compression string   `yaml:"compression"`
		Async       bool     `yaml:"async"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		Table       string        `yaml:"table"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
	} `yaml:"clickhouse"`
	Groups []AssetGroup `yaml:"groups"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETBOARD_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MARKETDATA_BASE_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := v, 6379
		if i := strings.LastIndex(v, ":"); i > 0 {
			host = v[:i]
			_, _ = fmt.Sscanf(v[i+1:], "%d", &port)
		}
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		c.Cache.Redis.Port = port
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
		c.ClickHouse.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 60 * time.Second
	}
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.MarketData.Range == "" {
		c.MarketData.Range = "1y"
	}
	if c.MarketData.Interval == "" {
		c.MarketData.Interval = "1d"
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = 30 * time.Second
	}
	if c.MarketData.MaxRetries == 0 {
		c.MarketData.MaxRetries = 3
	}
	if c.MarketData.RatePerSec == 0 {
		c.MarketData.RatePerSec = 5
	}
	if c.MarketData.RateBurst == 0 {
		c.MarketData.RateBurst = 10
	}
	if c.MarketData.CacheTTL == 0 {
		c.MarketData.CacheTTL = 60 * time.Second
	}
	if c.Analytics.SMAWindow == 0 {
		c.Analytics.SMAWindow = 20
	}
	if c.Analytics.RSIPeriod == 0 {
		c.Analytics.RSIPeriod = 14
	}
	if c.Analytics.BandSigmas == 0 {
		c.Analytics.BandSigmas = 2
	}
	if c.Analytics.Sims == 0 {
		c.Analytics.Sims = 50
	}
	if c.Analytics.Horizon == 0 {
		c.Analytics.Horizon = 30
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "marketboard"
	}
	if c.ClickHouse.Table == "" {
		c.ClickHouse.Table = "quotes"
	}
	if c.ClickHouse.DialTimeout == 0 {
		c.ClickHouse.DialTimeout = 5 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one asset group is required")
	}
	seen := make(map[string]bool)
	for _, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("asset group name is required")
		}
		if len(g.Assets) == 0 {
			return fmt.Errorf("group %q has no assets", g.Name)
		}
		for _, a := range g.Assets {
			if a.Symbol == "" {
				return fmt.Errorf("group %q: asset symbol is required", g.Name)
			}
			if seen[a.Symbol] {
				return fmt.Errorf("duplicate asset symbol %q", a.Symbol)
			}
			seen[a.Symbol] = true
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}

// Symbols returns every configured ticker in group order.
func (c *Config) Symbols() []string {
	var out []string
	for _, g := range c.Groups {
		for _, a := range g.Assets {
			out = append(out, a.Symbol)
		}
	}
	return out
}
