package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/custody-contract/rpc/custody"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, data string) string {
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)

	require.Equal(t, "http://localhost:30333", cfg.RPC.Endpoint)
	require.Equal(t, 15*time.Second, cfg.RPC.Timeout)
	require.Equal(t, "wallet.json", cfg.Wallet.Path)
	require.Empty(t, cfg.Contract)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "production", cfg.Log.Env)
	require.Equal(t, ":9090", cfg.Metrics.Address)
}

func TestLoadConfigFile(t *testing.T) {
	p := writeConfig(t, `
rpc:
  endpoint: http://rpc.example:20332
  timeout: 1m
wallet:
  path: /etc/custody/wallet.json
  password: secret
contract: NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP
log:
  level: debug
  env: development
`)

	cfg, err := loadConfig(viper.New(), p)
	require.NoError(t, err)

	require.Equal(t, "http://rpc.example:20332", cfg.RPC.Endpoint)
	require.Equal(t, time.Minute, cfg.RPC.Timeout)
	require.Equal(t, "/etc/custody/wallet.json", cfg.Wallet.Path)
	require.Equal(t, "secret", cfg.Wallet.Password)
	require.Equal(t, "NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP", cfg.Contract)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "development", cfg.Log.Env)
	require.Equal(t, ":9090", cfg.Metrics.Address)
}

func TestLoadConfigEnv(t *testing.T) {
	p := writeConfig(t, `
rpc:
  endpoint: http://rpc.example:20332
`)

	t.Setenv("CUSTODY_RPC_ENDPOINT", "http://env.example:30333")
	t.Setenv("CUSTODY_WALLET_PASSWORD", "from-env")

	cfg, err := loadConfig(viper.New(), p)
	require.NoError(t, err)

	require.Equal(t, "http://env.example:30333", cfg.RPC.Endpoint)
	require.Equal(t, "from-env", cfg.Wallet.Password)
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, tc := range []struct {
		name, data, err string
	}{
		{name: "timeout", data: "rpc:\n  timeout: -1s\n", err: "invalid RPC timeout"},
		{name: "endpoint", data: "rpc:\n  endpoint: \"\"\n", err: "missing RPC endpoint"},
		{name: "log env", data: "log:\n  env: staging\n", err: "unknown log environment"},
		{name: "syntax", data: "rpc: [\n", err: "read config file"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(viper.New(), writeConfig(t, tc.data))
			require.ErrorContains(t, err, tc.err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yml"))
		require.ErrorContains(t, err, "read config file")
	})
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		l, err := newLogger(LogConfig{Level: "warn", Env: env})
		require.NoError(t, err)
		require.NotNil(t, l.Check(zapcore.WarnLevel, "warn"))
		require.Nil(t, l.Check(zapcore.InfoLevel, "info"))
	}

	_, err := newLogger(LogConfig{Level: "loud", Env: "production"})
	require.ErrorContains(t, err, "parse log level")
}

func TestParseHash160(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}

	res, err := parseHash160(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, res)

	res, err = parseHash160(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, res)

	_, err = parseHash160("not a hash")
	require.ErrorContains(t, err, "neither address nor script hash")
}

func TestPrintStatus(t *testing.T) {
	const (
		day  = int64(24 * time.Hour / time.Millisecond)
		week = 7 * day
	)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	cfg := &custody.LedgerConfig{
		PrincipalToken: util.Uint160{1},
		TargetToken:    util.Uint160{2},
		EpochDuration:  big.NewInt(week),
		EpochStart:     big.NewInt(start.UnixMilli()),
	}
	boundary := start.UnixMilli() + week

	t.Run("open", func(t *testing.T) {
		var buf bytes.Buffer
		printStatus(&buf, cfg, true, boundary, start.Add(24*time.Hour))

		out := buf.String()
		require.Contains(t, out, "Epoch start:      2024-01-01T00:00:00Z")
		require.Contains(t, out, "Epoch duration:   168h0m0s")
		require.Contains(t, out, "Next boundary:    2024-01-08T00:00:00Z")
		require.Contains(t, out, "Pre-inform open:  true")
		require.Contains(t, out, "Pre-inform closes in 72h0m0s")
	})

	t.Run("quiet period", func(t *testing.T) {
		var buf bytes.Buffer
		printStatus(&buf, cfg, false, boundary, start.Add(6*24*time.Hour))

		out := buf.String()
		require.Contains(t, out, "Pre-inform open:  false")
		require.Contains(t, out, "Pre-inform opens in 24h0m0s")
	})

	t.Run("not started", func(t *testing.T) {
		var buf bytes.Buffer
		printStatus(&buf, cfg, false, start.UnixMilli(), start.Add(-time.Hour))

		require.Contains(t, buf.String(), "Schedule starts in 1h0m0s")
	})
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer

	printInfo(&buf, util.Uint160{1}, &custody.Info{
		DepositAmount:       big.NewInt(100),
		PreinformedAmount:   big.NewInt(40),
		LastPreinformedTime: big.NewInt(0),
	})

	out := buf.String()
	require.Contains(t, out, "Deposit:          100")
	require.Contains(t, out, "Pre-informed:     40")
	require.Contains(t, out, "Last pre-inform:  1970-01-01T00:00:00Z")
}
