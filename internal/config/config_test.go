package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":3000", conf.ListenAddr)
	assert.Equal(t, uint64(1), conf.DefaultNetwork)
	assert.Equal(t, 300*time.Second, conf.BatchDuration)
	require.Len(t, conf.Networks, 1)
	assert.Equal(t, 1000, conf.Networks[0].MaxTokens)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batchex.yaml")
	data := `
listen_addr: ":8080"
default_network: 4
batch_duration: 60s
log_format: json
networks:
  - id: 4
    max_tokens: 4
    start_batch: 100
    tokens:
      - "0x1111111111111111111111111111111111111111"
      - "0x2222222222222222222222222222222222222222"
  - id: 100
    max_tokens: 10
    orders:
      - user: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
        buy_token_id: 1
        sell_token_id: 0
        valid_until: 6
        price_numerator: "1"
        price_denominator: "0x10"
    balances:
      - user: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
        token_id: 0
        amount: 250
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	conf, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", conf.ListenAddr)
	assert.Equal(t, uint64(4), conf.DefaultNetwork)
	assert.Equal(t, time.Minute, conf.BatchDuration)
	require.Len(t, conf.Networks, 2)
	assert.Equal(t, int64(100), conf.Networks[0].StartBatch)
	assert.Len(t, conf.Networks[0].Tokens, 2)

	require.Len(t, conf.Networks[1].Orders, 1)
	order := conf.Networks[1].Orders[0]
	assert.Equal(t, 1, order.BuyTokenID)
	assert.Equal(t, int64(6), order.ValidUntil)
	assert.Equal(t, "0x10", order.PriceDenominator)
	assert.Empty(t, order.RemainingAmount)
	require.Len(t, conf.Networks[1].Balances, 1)
	assert.Equal(t, "250", conf.Networks[1].Balances[0].Amount)

	conf.ConfigureLogging()
	_, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
	logrus.SetFormatter(&logrus.TextFormatter{})
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BATCHEX_LISTEN_ADDR", ":9999")

	conf, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":9999", conf.ListenAddr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DefaultNetwork: 1,
			BatchDuration:  time.Minute,
			LogLevel:       "info",
			Networks:       []NetworkConfig{{ID: 1, MaxTokens: 2}},
		}
	}

	c := valid()
	assert.NoError(t, c.Validate())

	c = valid()
	c.Networks = nil
	assert.Error(t, c.Validate())

	c = valid()
	c.Networks = append(c.Networks, NetworkConfig{ID: 1, MaxTokens: 2})
	assert.EqualError(t, c.Validate(), "network 1 configured twice")

	c = valid()
	c.Networks[0].Tokens = []string{"a", "b", "c"}
	assert.Error(t, c.Validate())

	c = valid()
	c.Networks[0].MaxTokens = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.DefaultNetwork = 4
	assert.EqualError(t, c.Validate(), "default network 4 is not configured")

	c = valid()
	c.BatchDuration = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.LogLevel = "loud"
	assert.Error(t, c.Validate())
}
