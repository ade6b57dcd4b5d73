// Package config loads the exchange server configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/echenim/batchex/internal/explorer"
)

// NetworkConfig configures the registry served for one network. Orders and
// Balances seed the initial state.
type NetworkConfig struct {
	ID         uint64          `mapstructure:"id"`
	MaxTokens  int             `mapstructure:"max_tokens"`
	Tokens     []string        `mapstructure:"tokens"`
	StartBatch int64           `mapstructure:"start_batch"`
	Orders     []OrderConfig   `mapstructure:"orders"`
	Balances   []BalanceConfig `mapstructure:"balances"`
}

// OrderConfig is a seeded order. Amounts are decimal or 0x-hex strings; an
// empty RemainingAmount means the full buy amount.
type OrderConfig struct {
	User             string `mapstructure:"user"`
	BuyTokenID       int    `mapstructure:"buy_token_id"`
	SellTokenID      int    `mapstructure:"sell_token_id"`
	ValidFrom        int64  `mapstructure:"valid_from"`
	ValidUntil       int64  `mapstructure:"valid_until"`
	PriceNumerator   string `mapstructure:"price_numerator"`
	PriceDenominator string `mapstructure:"price_denominator"`
	RemainingAmount  string `mapstructure:"remaining_amount"`
}

type BalanceConfig struct {
	User    string `mapstructure:"user"`
	TokenID int    `mapstructure:"token_id"`
	Amount  string `mapstructure:"amount"`
}

type Config struct {
	ListenAddr     string          `mapstructure:"listen_addr"`
	DefaultNetwork uint64          `mapstructure:"default_network"`
	BatchDuration  time.Duration   `mapstructure:"batch_duration"`
	LogLevel       string          `mapstructure:"log_level"`
	LogFormat      string          `mapstructure:"log_format"`
	Networks       []NetworkConfig `mapstructure:"networks"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":3000")
	v.SetDefault("default_network", explorer.Mainnet)
	v.SetDefault("batch_duration", 300*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("networks", []map[string]any{
		{"id": explorer.Mainnet, "max_tokens": 1000},
	})
}

// Load reads the optional config file at path, applies BATCHEX_* environment
// overrides and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("batchex")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return errors.New("at least one network must be configured")
	}

	seen := make(map[uint64]bool)
	for _, n := range c.Networks {
		if seen[n.ID] {
			return fmt.Errorf("network %d configured twice", n.ID)
		}
		seen[n.ID] = true

		if n.MaxTokens <= 0 {
			return fmt.Errorf("network %d: max_tokens must be positive", n.ID)
		}
		if len(n.Tokens) > n.MaxTokens {
			return fmt.Errorf("network %d: %d tokens exceed max_tokens %d", n.ID, len(n.Tokens), n.MaxTokens)
		}
	}

	if !seen[c.DefaultNetwork] {
		return fmt.Errorf("default network %d is not configured", c.DefaultNetwork)
	}
	if c.BatchDuration < time.Second {
		return fmt.Errorf("batch_duration %s is shorter than one second", c.BatchDuration)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ConfigureLogging applies the log level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
